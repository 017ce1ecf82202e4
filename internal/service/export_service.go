package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/export"
)

// The recommendation column takes whatever width the fixed columns leave.
var summaryExportColumns = []export.Column{
	{Name: "NIS", Width: 18},
	{Name: "Nama", Width: 36},
	{Name: "Kelas", Width: 20},
	{Name: "Angkatan", Width: 18},
	{Name: "Ringan", Width: 13},
	{Name: "Sedang", Width: 13},
	{Name: "Berat", Width: 13},
	{Name: "Status", Width: 26},
	{Name: "Rekomendasi"},
}

// ExportService renders scoped student summaries as CSV or PDF downloads.
type ExportService struct {
	violations *ViolationService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	enabled    bool
	logger     *zap.Logger
}

// NewExportService builds an ExportService.
func NewExportService(violations *ViolationService, csv *export.CSVExporter, pdf *export.PDFExporter, enabled bool, logger *zap.Logger) *ExportService {
	return &ExportService{
		violations: violations,
		csv:        csv,
		pdf:        pdf,
		enabled:    enabled,
		logger:     logger,
	}
}

func (s *ExportService) dataset(ctx context.Context, claims *models.JWTClaims) (export.Dataset, error) {
	summaries, err := s.violations.Summaries(ctx, claims, "")
	if err != nil {
		return export.Dataset{}, err
	}

	rows := make([]map[string]string, 0, len(summaries))
	for _, summary := range summaries {
		recommendation := ""
		if len(summary.Recommendations) > 0 {
			recommendation = summary.Recommendations[0]
		}
		rows = append(rows, map[string]string{
			"NIS":         summary.NIS,
			"Nama":        summary.Nama,
			"Kelas":       summary.Kelas,
			"Angkatan":    summary.Angkatan,
			"Ringan":      strconv.Itoa(summary.ActiveCounts.Ringan),
			"Sedang":      strconv.Itoa(summary.ActiveCounts.Sedang),
			"Berat":       strconv.Itoa(summary.ActiveCounts.Berat),
			"Status":      summary.StatusLabel,
			"Rekomendasi": recommendation,
		})
	}
	return export.Dataset{Columns: summaryExportColumns, Rows: rows}, nil
}

// SummaryCSV renders the scoped summaries as CSV bytes.
func (s *ExportService) SummaryCSV(ctx context.Context, claims *models.JWTClaims) ([]byte, string, error) {
	if !s.enabled {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "Ekspor dinonaktifkan")
	}
	data, err := s.dataset(ctx, claims)
	if err != nil {
		return nil, "", err
	}
	raw, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal membuat CSV")
	}
	return raw, "rekap-pembinaan.csv", nil
}

// SummaryPDF renders the scoped summaries as PDF bytes.
func (s *ExportService) SummaryPDF(ctx context.Context, claims *models.JWTClaims) ([]byte, string, error) {
	if !s.enabled {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "Ekspor dinonaktifkan")
	}
	data, err := s.dataset(ctx, claims)
	if err != nil {
		return nil, "", err
	}
	raw, err := s.pdf.Render(data, "Rekap Pembinaan Siswa")
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal membuat PDF")
	}
	s.logger.Info("summary export generated", zap.Int("rows", len(data.Rows)), zap.String("format", "pdf"))
	return raw, "rekap-pembinaan.pdf", nil
}
