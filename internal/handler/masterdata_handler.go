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

type masterDataService interface {
	ListViolationTypes(ctx context.Context) ([]models.ViolationType, error)
	CreateViolationType(ctx context.Context, claims *models.JWTClaims, req dto.CreateViolationTypeRequest) (*models.ViolationType, error)
	UpdateViolationType(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationTypeRequest) (*models.ViolationType, error)
	DeleteViolationType(ctx context.Context, claims *models.JWTClaims, id string) error
	ListClasses(ctx context.Context) ([]models.Class, error)
	CreateClass(ctx context.Context, claims *models.JWTClaims, req dto.CreateClassRequest) (*models.Class, error)
	UpdateClass(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateClassRequest) (*models.Class, error)
	DeleteClass(ctx context.Context, claims *models.JWTClaims, id string) error
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	CreateAcademicYear(ctx context.Context, claims *models.JWTClaims, req dto.CreateAcademicYearRequest) (*models.AcademicYear, error)
	ActivateAcademicYear(ctx context.Context, claims *models.JWTClaims, id string) error
}

// MasterDataHandler serves jenis pelanggaran, kelas, and tahun ajaran
// endpoints.
type MasterDataHandler struct {
	master masterDataService
}

// NewMasterDataHandler builds a MasterDataHandler.
func NewMasterDataHandler(master masterDataService) *MasterDataHandler {
	return &MasterDataHandler{master: master}
}

// ListViolationTypes handles GET /jenis-pelanggaran.
func (h *MasterDataHandler) ListViolationTypes(c *gin.Context) {
	types, err := h.master.ListViolationTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// CreateViolationType handles POST /jenis-pelanggaran.
func (h *MasterDataHandler) CreateViolationType(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateViolationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload jenis pelanggaran tidak valid"))
		return
	}
	created, err := h.master.CreateViolationType(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// UpdateViolationType handles PUT /jenis-pelanggaran/:id.
func (h *MasterDataHandler) UpdateViolationType(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateViolationTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload jenis pelanggaran tidak valid"))
		return
	}
	updated, err := h.master.UpdateViolationType(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// DeleteViolationType handles DELETE /jenis-pelanggaran/:id.
func (h *MasterDataHandler) DeleteViolationType(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.master.DeleteViolationType(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListClasses handles GET /kelas.
func (h *MasterDataHandler) ListClasses(c *gin.Context) {
	classes, err := h.master.ListClasses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// CreateClass handles POST /kelas.
func (h *MasterDataHandler) CreateClass(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload kelas tidak valid"))
		return
	}
	created, err := h.master.CreateClass(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// UpdateClass handles PUT /kelas/:id.
func (h *MasterDataHandler) UpdateClass(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload kelas tidak valid"))
		return
	}
	updated, err := h.master.UpdateClass(c.Request.Context(), claims, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// DeleteClass handles DELETE /kelas/:id.
func (h *MasterDataHandler) DeleteClass(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.master.DeleteClass(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListAcademicYears handles GET /tahun-ajaran.
func (h *MasterDataHandler) ListAcademicYears(c *gin.Context) {
	years, err := h.master.ListAcademicYears(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years, nil)
}

// CreateAcademicYear handles POST /tahun-ajaran.
func (h *MasterDataHandler) CreateAcademicYear(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload tahun ajaran tidak valid"))
		return
	}
	created, err := h.master.CreateAcademicYear(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// ActivateAcademicYear handles PATCH /tahun-ajaran/:id/aktifkan.
func (h *MasterDataHandler) ActivateAcademicYear(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.master.ActivateAcademicYear(c.Request.Context(), claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Tahun ajaran diaktifkan"}, nil)
}
