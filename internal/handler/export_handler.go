package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/response"
)

type exportService interface {
	SummaryCSV(ctx context.Context, claims *models.JWTClaims) ([]byte, string, error)
	SummaryPDF(ctx context.Context, claims *models.JWTClaims) ([]byte, string, error)
}

// ExportHandler serves downloadable discipline recaps.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler builds an ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// SummaryCSV handles GET /laporan/rekap.csv.
func (h *ExportHandler) SummaryCSV(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data, filename, err := h.exports.SummaryCSV(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// SummaryPDF handles GET /laporan/rekap.pdf.
func (h *ExportHandler) SummaryPDF(c *gin.Context) {
	claims, ok := claimsFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	data, filename, err := h.exports.SummaryPDF(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
