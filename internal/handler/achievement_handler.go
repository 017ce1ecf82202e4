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

type achievementService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateAchievementRequest) (*models.Achievement, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.AchievementFilter) ([]models.Achievement, *models.Pagination, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateAchievementRequest) (*models.Achievement, error)
	Verify(ctx context.Context, claims *models.JWTClaims, id string, req dto.VerifyAchievementRequest) (*models.Achievement, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
	Stats(ctx context.Context, claims *models.JWTClaims) (*models.AchievementStats, error)
}

// AchievementHandler serves the prestasi endpoints.
type AchievementHandler struct {
	achievements achievementService
}

// NewAchievementHandler builds an AchievementHandler.
func NewAchievementHandler(achievements achievementService) *AchievementHandler {
	return &AchievementHandler{achievements: achievements}
}

// Create handles POST /prestasi.
func (h *AchievementHandler) Create(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload prestasi tidak valid"))
		return
	}
	achievement, err := h.achievements.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, achievement)
}

// List handles GET /prestasi.
func (h *AchievementHandler) List(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, limit := parsePagination(c)
	filter := models.AchievementFilter{
		NIS:      c.Query("nis"),
		Kelas:    c.Query("kelas"),
		Status:   c.Query("status"),
		Kategori: c.Query("kategori"),
		Tingkat:  c.Query("tingkat"),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}
	achievements, pagination, err := h.achievements.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, achievements, pagination)
}

// Update handles PUT /prestasi/:id.
func (h *AchievementHandler) Update(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload prestasi tidak valid"))
		return
	}
	achievement, err := h.achievements.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, achievement, nil)
}

// Stats handles GET /prestasi/ringkasan.
func (h *AchievementHandler) Stats(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.achievements.Stats(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Verify handles PATCH /prestasi/:id/verifikasi.
func (h *AchievementHandler) Verify(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.VerifyAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload verifikasi tidak valid"))
		return
	}
	achievement, err := h.achievements.Verify(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, achievement, nil)
}

// Delete handles DELETE /prestasi/:id.
func (h *AchievementHandler) Delete(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.achievements.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
