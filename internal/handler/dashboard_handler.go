package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context, claims *models.JWTClaims) (*dto.DashboardStats, error)
}

// DashboardHandler serves aggregate statistics.
type DashboardHandler struct {
	dashboard dashboardService
}

// NewDashboardHandler builds a DashboardHandler.
func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.dashboard.Stats(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
