package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/repository"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type counselingViolationStore interface {
	ListSummaryRows(ctx context.Context, scope models.AccessScope, targetNIS string) ([]models.ViolationRow, error)
	ListByStudent(ctx context.Context, scope models.AccessScope, nis string) ([]models.Violation, error)
	ApplyCounselingUpdates(ctx context.Context, updates []repository.CounselingUpdate) error
}

type counselingStudentReader interface {
	GetByNIS(ctx context.Context, nis string) (*models.Student, error)
}

// Follow-up labels written on counseling actions.
var followUpByStatus = map[string]string{
	models.ViolationProcessed: "Pembinaan diproses",
	models.ViolationResolved:  "Pembinaan selesai",
}

// CounselingService builds per-student discipline summaries and applies
// counseling actions over the violations a user is allowed to touch.
type CounselingService struct {
	violations counselingViolationStore
	students   counselingStudentReader
	guardians  scopeGuardianReader
	loc        *time.Location
	logger     *zap.Logger
}

// NewCounselingService builds a CounselingService. loc is the school's
// local timezone used for timestamps in summaries.
func NewCounselingService(
	violations counselingViolationStore,
	students counselingStudentReader,
	guardians scopeGuardianReader,
	loc *time.Location,
	logger *zap.Logger,
) *CounselingService {
	return &CounselingService{
		violations: violations,
		students:   students,
		guardians:  guardians,
		loc:        loc,
		logger:     logger,
	}
}

// BuildSummaries assembles one summary per student visible in the scope,
// most recently flagged students first. targetNIS narrows to one student.
func (s *CounselingService) BuildSummaries(ctx context.Context, user *models.User, scope models.AccessScope, targetNIS string) ([]dto.StudentSummary, error) {
	rows, err := s.violations.ListSummaryRows(ctx, scope, targetNIS)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat ringkasan pelanggaran")
	}

	redact := false
	if user.Role == models.RoleTeacher {
		isGuardian, err := s.guardians.IsGuardian(ctx, user.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa akses guru wali")
		}
		redact = !isGuardian
	}

	type accumulator struct {
		summary dto.StudentSummary
		latest  time.Time
	}

	order := []string{}
	byNIS := map[string]*accumulator{}

	for _, row := range rows {
		acc, ok := byNIS[row.NIS]
		if !ok {
			acc = &accumulator{
				summary: dto.StudentSummary{
					NIS:             row.NIS,
					Nama:            row.Nama,
					Kelas:           row.Kelas,
					Angkatan:        row.Angkatan,
					Violations:      []dto.ViolationEntry{},
					Recommendations: []string{},
					StatusLevel:     models.SeverityNone,
					StatusLabel:     models.SeverityLabel(models.SeverityNone),
				},
				latest: row.CreatedAt,
			}
			byNIS[row.NIS] = acc
			order = append(order, row.NIS)
		}

		severity := NormalizeSeverity(row.Kategori)
		entry := s.violationEntry(row, severity)
		acc.summary.Violations = append(acc.summary.Violations, entry)
		if acc.summary.LatestViolation == nil {
			latest := entry
			acc.summary.LatestViolation = &latest
		}

		if !entry.IsResolved {
			switch severity {
			case models.SeverityModerate:
				acc.summary.ActiveCounts.Sedang++
			case models.SeveritySevere:
				acc.summary.ActiveCounts.Berat++
			default:
				acc.summary.ActiveCounts.Ringan++
			}
		}
	}

	results := make([]dto.StudentSummary, 0, len(order))
	for _, nis := range order {
		acc := byNIS[nis]
		summary := acc.summary

		counts := CalculateEffectiveCounts(summary.ActiveCounts)
		summary.EffectiveCounts = counts
		summary.StatusLevel = DetermineStatusLevel(counts)
		summary.StatusLabel = models.SeverityLabel(summary.StatusLevel)
		summary.Recommendations = BuildRecommendations(summary.ActiveCounts, counts)
		summary.CanClear = summary.StatusLevel != models.SeverityNone &&
			summary.ActiveCounts.Total() > 0 &&
			user.CanCounsel()

		if redact {
			summary.DetailRestricted = true
			summary.ActiveCountsHidden = true
			summary.Violations = []dto.ViolationEntry{}
			summary.Recommendations = []string{}
			summary.LatestViolation = nil
			summary.CanClear = false
			summary.ActiveCounts = models.TierCounts{}
			summary.EffectiveCounts = models.EscalationCounts{}
		}

		results = append(results, summary)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return latestTimestamp(results[i]) > latestTimestamp(results[j])
	})
	return results, nil
}

func latestTimestamp(summary dto.StudentSummary) string {
	if summary.LatestViolation == nil || summary.LatestViolation.CreatedAt == nil {
		return ""
	}
	return *summary.LatestViolation.CreatedAt
}

func (s *CounselingService) violationEntry(row models.ViolationRow, severity string) dto.ViolationEntry {
	createdLocal := row.CreatedAt.In(s.loc).Format(time.RFC3339)
	waktu := createdLocal
	if row.Waktu != nil {
		waktu = row.Waktu.In(s.loc).Format(time.RFC3339)
	}
	return dto.ViolationEntry{
		ID:            row.ID,
		Kategori:      severity,
		Jenis:         row.Jenis,
		Status:        row.Status,
		StatusDisplay: models.StatusLabel(row.Status),
		Waktu:         &waktu,
		Tempat:        row.Tempat,
		Detail:        row.Detail,
		Catatan:       row.Catatan,
		TindakLanjut:  row.TindakLanjut,
		CreatedAt:     &createdLocal,
		IsResolved:    row.Status == models.ViolationResolved,
	}
}

// ApplyCounseling moves a student's scoped violations to the target status
// and stamps the counseling note and follow-up label. Only rows that
// genuinely change are written; when nothing changes the result carries
// zero updates and no summary.
func (s *CounselingService) ApplyCounseling(ctx context.Context, user *models.User, scope models.AccessScope, nis string, req dto.CounselingRequest) (*dto.CounselingResult, error) {
	if !user.CanCounsel() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Tidak memiliki akses melakukan pembinaan")
	}

	student, err := s.students.GetByNIS(ctx, nis)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat data siswa")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Siswa tidak ditemukan")
	}

	targetStatus := req.Status
	if targetStatus == "" || targetStatus == models.ViolationReported {
		targetStatus = models.ViolationProcessed
	}
	if targetStatus != models.ViolationProcessed && targetStatus != models.ViolationResolved {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Status pembinaan tidak didukung")
	}
	followUp := followUpByStatus[targetStatus]

	violations, err := s.violations.ListByStudent(ctx, scope, nis)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran siswa")
	}

	var updates []repository.CounselingUpdate
	for _, v := range violations {
		currentStatus := v.Status
		if currentStatus == "" {
			currentStatus = models.ViolationReported
		}
		if targetStatus == models.ViolationProcessed && currentStatus == models.ViolationResolved {
			continue
		}

		changed := false
		update := repository.CounselingUpdate{
			ID:           v.ID,
			Status:       currentStatus,
			TindakLanjut: followUp,
		}
		if currentStatus != targetStatus {
			update.Status = targetStatus
			changed = true
		}
		if req.Catatan != "" && (v.Catatan == nil || *v.Catatan != req.Catatan) {
			note := req.Catatan
			update.Catatan = &note
			changed = true
		}
		if v.TindakLanjut == nil || *v.TindakLanjut != followUp {
			changed = true
		}
		if changed {
			updates = append(updates, update)
		}
	}

	if len(updates) == 0 {
		return &dto.CounselingResult{Updated: 0, Summary: nil}, nil
	}

	if err := s.violations.ApplyCounselingUpdates(ctx, updates); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan pembinaan")
	}
	counselingUpdatesApplied.Add(float64(len(updates)))

	s.logger.Info("counseling applied",
		zap.String("nis", nis),
		zap.String("status", targetStatus),
		zap.String("user_id", user.ID),
		zap.Int("updated", len(updates)),
	)

	summaries, err := s.BuildSummaries(ctx, user, scope, nis)
	if err != nil {
		return nil, err
	}
	result := &dto.CounselingResult{Updated: len(updates)}
	if len(summaries) > 0 {
		result.Summary = &summaries[0]
	}
	return result, nil
}
