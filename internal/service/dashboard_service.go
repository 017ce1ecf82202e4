package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

const recentViolationsLimit = 5

type dashboardViolationReader interface {
	CountAll(ctx context.Context) (int, error)
	CountSince(ctx context.Context, scope models.AccessScope, cutoff time.Time) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
	CountPerDaySince(ctx context.Context, cutoff time.Time) ([]models.DayCount, error)
	ListRecent(ctx context.Context, scope models.AccessScope, limit int) ([]models.ViolationRow, error)
	ListSummaryRows(ctx context.Context, scope models.AccessScope, targetNIS string) ([]models.ViolationRow, error)
}

type dashboardStudentReader interface {
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}

type dashboardAchievementReader interface {
	CountAll(ctx context.Context) (int, error)
	CountPerDaySince(ctx context.Context, cutoff time.Time) ([]models.DayCount, error)
}

// DashboardService compiles the dashboard snapshot. Headline totals and
// charts are school-wide so they stay comparable across roles, while the
// row-level pieces (today's count, recent incidents) are filtered through
// the caller's access scope.
type DashboardService struct {
	violations   dashboardViolationReader
	students     dashboardStudentReader
	achievements dashboardAchievementReader
	users        userReader
	scopes       *ScopeService
	cache        *DashboardCache
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

// NewDashboardService builds a DashboardService. loc is the school's local
// timezone for the today/trend windows.
func NewDashboardService(
	violations dashboardViolationReader,
	students dashboardStudentReader,
	achievements dashboardAchievementReader,
	users userReader,
	scopes *ScopeService,
	cache *DashboardCache,
	loc *time.Location,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		violations:   violations,
		students:     students,
		achievements: achievements,
		users:        users,
		scopes:       scopes,
		cache:        cache,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}

// Stats returns the aggregate snapshot for the caller. Unrestricted callers
// share the cached payload; restricted scopes bypass the cache so one
// teacher's rows never leak to another.
func (s *DashboardService) Stats(ctx context.Context, claims *models.JWTClaims) (*dto.DashboardStats, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
	}
	if user == nil || !user.IsActive {
		return nil, appErrors.ErrUnauthorized
	}
	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}

	if scope.Unrestricted {
		if cached, ok := s.cache.Get(ctx); ok {
			return cached, nil
		}
	}

	totalStudents, err := s.students.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung siswa")
	}
	activeStudents, err := s.students.CountByStatus(ctx, models.StudentActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung siswa aktif")
	}
	totalViolations, err := s.violations.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung pelanggaran")
	}
	byStatus, err := s.violations.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung status pelanggaran")
	}
	byCategory, err := s.violations.CountByCategory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung kategori pelanggaran")
	}
	totalAchievements, err := s.achievements.CountAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung prestasi")
	}

	now := s.now().In(s.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	today, err := s.violations.CountSince(ctx, scope, midnight)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghitung pelanggaran hari ini")
	}
	monthAgo := midnight.AddDate(0, -1, 0)
	trend, err := s.violations.CountPerDaySince(ctx, monthAgo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat tren pelanggaran")
	}
	achievementTrend, err := s.achievements.CountPerDaySince(ctx, monthAgo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat tren prestasi")
	}
	recentRows, err := s.violations.ListRecent(ctx, scope, recentViolationsLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran terbaru")
	}
	recent := make([]dto.RecentViolation, 0, len(recentRows))
	for _, row := range recentRows {
		recent = append(recent, dto.RecentViolation{
			ID:        row.ID,
			NIS:       row.NIS,
			Nama:      row.Nama,
			Kelas:     row.Kelas,
			Jenis:     row.Jenis,
			Kategori:  NormalizeSeverity(row.Kategori),
			Status:    row.Status,
			CreatedAt: row.CreatedAt.In(s.loc).Format(time.RFC3339),
		})
	}

	atRisk, err := s.countStudentsAtRisk(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		TotalStudents:        totalStudents,
		ActiveStudents:       activeStudents,
		TotalViolations:      totalViolations,
		ViolationsToday:      today,
		ViolationsByStatus:   byStatus,
		ViolationsByCategory: byCategory,
		DailyTrend:           trend,
		RecentViolations:     recent,
		TotalAchievements:    totalAchievements,
		AchievementTrend:     achievementTrend,
		StudentsAtRisk:       atRisk,
	}
	if scope.Unrestricted {
		s.cache.Set(ctx, stats)
	}
	return stats, nil
}

// countStudentsAtRisk counts students whose escalated level reaches sedang
// or berat over their active violations.
func (s *DashboardService) countStudentsAtRisk(ctx context.Context) (int, error) {
	rows, err := s.violations.ListSummaryRows(ctx, models.UnrestrictedScope(), "")
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat data eskalasi")
	}

	active := map[string]*models.TierCounts{}
	for _, row := range rows {
		if row.Status == models.ViolationResolved {
			continue
		}
		counts, ok := active[row.NIS]
		if !ok {
			counts = &models.TierCounts{}
			active[row.NIS] = counts
		}
		switch NormalizeSeverity(row.Kategori) {
		case models.SeverityModerate:
			counts.Sedang++
		case models.SeveritySevere:
			counts.Berat++
		default:
			counts.Ringan++
		}
	}

	atRisk := 0
	for _, counts := range active {
		level := DetermineStatusLevel(CalculateEffectiveCounts(*counts))
		if level == models.SeverityModerate || level == models.SeveritySevere {
			atRisk++
		}
	}
	return atRisk, nil
}
