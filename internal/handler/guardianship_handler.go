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

type guardianshipService interface {
	PeriodActive(ctx context.Context) (bool, error)
	SetPeriod(ctx context.Context, claims *models.JWTClaims, active bool) error
	ListAccess(ctx context.Context, claims *models.JWTClaims) ([]string, error)
	ReplaceAccess(ctx context.Context, claims *models.JWTClaims, req dto.ReplaceGuardianAccessRequest) error
	Roster(ctx context.Context, claims *models.JWTClaims) ([]models.Guardianship, error)
	AddStudent(ctx context.Context, claims *models.JWTClaims, req dto.AddGuardianshipRequest) (*models.Guardianship, error)
	RemoveStudent(ctx context.Context, claims *models.JWTClaims, nis string) error
	Stats(ctx context.Context, claims *models.JWTClaims) ([]models.GuardianshipStat, error)
}

// GuardianshipHandler serves the perwalian (Guru Wali) endpoints.
type GuardianshipHandler struct {
	guardianships guardianshipService
}

// NewGuardianshipHandler builds a GuardianshipHandler.
func NewGuardianshipHandler(guardianships guardianshipService) *GuardianshipHandler {
	return &GuardianshipHandler{guardianships: guardianships}
}

// Period handles GET /perwalian/periode.
func (h *GuardianshipHandler) Period(c *gin.Context) {
	active, err := h.guardianships.PeriodActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"active": active}, nil)
}

// SetPeriod handles PUT /perwalian/periode.
func (h *GuardianshipHandler) SetPeriod(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SetGuardianshipPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload periode tidak valid"))
		return
	}
	if err := h.guardianships.SetPeriod(c.Request.Context(), claims, req.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"active": req.Active}, nil)
}

// ListAccess handles GET /perwalian/akses.
func (h *GuardianshipHandler) ListAccess(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	userIDs, err := h.guardianships.ListAccess(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user_ids": userIDs}, nil)
}

// ReplaceAccess handles PUT /perwalian/akses.
func (h *GuardianshipHandler) ReplaceAccess(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ReplaceGuardianAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload akses tidak valid"))
		return
	}
	if err := h.guardianships.ReplaceAccess(c.Request.Context(), claims, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user_ids": req.UserIDs}, nil)
}

// Roster handles GET /perwalian/siswa.
func (h *GuardianshipHandler) Roster(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	roster, err := h.guardianships.Roster(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil)
}

// AddStudent handles POST /perwalian/siswa.
func (h *GuardianshipHandler) AddStudent(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.AddGuardianshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload perwalian tidak valid"))
		return
	}
	created, err := h.guardianships.AddStudent(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// RemoveStudent handles DELETE /perwalian/siswa/:nis.
func (h *GuardianshipHandler) RemoveStudent(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.guardianships.RemoveStudent(c.Request.Context(), claims, c.Param("nis")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stats handles GET /perwalian/statistik.
func (h *GuardianshipHandler) Stats(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.guardianships.Stats(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
