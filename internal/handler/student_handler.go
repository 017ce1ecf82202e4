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

type studentService interface {
	Get(ctx context.Context, nis string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error)
	Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, claims *models.JWTClaims, nis string, req dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, claims *models.JWTClaims, nis string) error
}

// StudentHandler serves the siswa master data endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler builds a StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List handles GET /siswa.
func (h *StudentHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := models.StudentFilter{
		Search:   c.Query("search"),
		IDKelas:  c.Query("kelas"),
		Angkatan: c.Query("angkatan"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	}
	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get handles GET /siswa/:nis.
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("nis"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create handles POST /siswa.
func (h *StudentHandler) Create(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload siswa tidak valid"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update handles PUT /siswa/:nis.
func (h *StudentHandler) Update(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payload siswa tidak valid"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), claims, c.Param("nis"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete handles DELETE /siswa/:nis.
func (h *StudentHandler) Delete(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.students.Delete(c.Request.Context(), claims, c.Param("nis")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
