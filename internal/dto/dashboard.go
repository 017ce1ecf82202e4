package dto

import (
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// RecentViolation is one row of the dashboard's latest-incidents feed.
type RecentViolation struct {
	ID        string `json:"id"`
	NIS       string `json:"nis"`
	Nama      string `json:"nama"`
	Kelas     string `json:"kelas"`
	Jenis     string `json:"jenis"`
	Kategori  string `json:"kategori"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// DashboardStats aggregates school-wide counts for the dashboard.
type DashboardStats struct {
	TotalStudents        int               `json:"total_siswa"`
	ActiveStudents       int               `json:"siswa_aktif"`
	TotalViolations      int               `json:"total_pelanggaran"`
	ViolationsToday      int               `json:"pelanggaran_hari_ini"`
	ViolationsByStatus   map[string]int    `json:"pelanggaran_per_status"`
	ViolationsByCategory map[string]int    `json:"pelanggaran_per_kategori"`
	DailyTrend           []models.DayCount `json:"tren_harian"`
	RecentViolations     []RecentViolation `json:"pelanggaran_terbaru"`
	TotalAchievements    int               `json:"total_prestasi"`
	AchievementTrend     []models.DayCount `json:"tren_prestasi"`
	StudentsAtRisk       int               `json:"siswa_berisiko"`
}
