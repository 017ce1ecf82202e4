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

type violationService interface {
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateViolationRequest) (*models.Violation, error)
	List(ctx context.Context, claims *models.JWTClaims, filter models.ViolationFilter) ([]models.Violation, *models.Pagination, error)
	Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Violation, error)
	Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationRequest) (*models.Violation, error)
	UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationStatusRequest) (*models.Violation, error)
	Delete(ctx context.Context, claims *models.JWTClaims, id string) error
	Summaries(ctx context.Context, claims *models.JWTClaims, targetNIS string) ([]dto.StudentSummary, error)
	Counsel(ctx context.Context, claims *models.JWTClaims, nis string, req dto.CounselingRequest) (*dto.CounselingResult, error)
}

// ViolationHandler serves the pelanggaran endpoints, including the
// per-student summary and counseling surfaces.
type ViolationHandler struct {
	violations violationService
}

// NewViolationHandler builds a ViolationHandler.
func NewViolationHandler(violations violationService) *ViolationHandler {
	return &ViolationHandler{violations: violations}
}

// Create handles POST /pelanggaran.
func (h *ViolationHandler) Create(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload pelanggaran tidak valid"))
		return
	}
	violation, err := h.violations.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, violation)
}

// List handles GET /pelanggaran.
func (h *ViolationHandler) List(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	page, limit := parsePagination(c)
	filter := models.ViolationFilter{
		NIS:      c.Query("nis"),
		Status:   c.Query("status"),
		Kategori: c.Query("kategori"),
		DateFrom: parseDateQuery(c, "date_from"),
		DateTo:   parseDateQuery(c, "date_to"),
		Page:     page,
		Limit:    limit,
	}
	violations, pagination, err := h.violations.List(c.Request.Context(), claims, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, violations, pagination)
}

// Get handles GET /pelanggaran/:id.
func (h *ViolationHandler) Get(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	violation, err := h.violations.Get(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, violation, nil)
}

// Update handles PUT /pelanggaran/:id.
func (h *ViolationHandler) Update(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload pelanggaran tidak valid"))
		return
	}
	violation, err := h.violations.Update(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, violation, nil)
}

// UpdateStatus handles PATCH /pelanggaran/:id/status.
func (h *ViolationHandler) UpdateStatus(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateViolationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status pelanggaran tidak valid"))
		return
	}
	violation, err := h.violations.UpdateStatus(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, violation, nil)
}

// Delete handles DELETE /pelanggaran/:id.
func (h *ViolationHandler) Delete(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.violations.Delete(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Summaries handles GET /pelanggaran/rekap. The optional nis query narrows
// the result to one student.
func (h *ViolationHandler) Summaries(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summaries, err := h.violations.Summaries(c.Request.Context(), claims, c.Query("nis"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, nil)
}

// Counsel handles POST /siswa/:nis/pembinaan.
func (h *ViolationHandler) Counsel(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CounselingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload pembinaan tidak valid"))
		return
	}
	result, err := h.violations.Counsel(c.Request.Context(), claims, c.Param("nis"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
