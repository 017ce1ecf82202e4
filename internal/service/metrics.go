package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dashboardCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pembinaan_dashboard_cache_hits_total",
		Help: "Dashboard snapshots served from the Redis cache.",
	})

	counselingUpdatesApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pembinaan_counseling_updates_total",
		Help: "Violation records mutated by counseling actions.",
	})
)
