package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

func scopeMatchesNIS(scope models.AccessScope, nis string) bool {
	if scope.Unrestricted {
		return true
	}
	for _, id := range scope.StudentIDs {
		if id == nis {
			return true
		}
	}
	return false
}

type fakeDashboardViolations struct {
	fakeViolationStore
	total      int
	byStatus   map[string]int
	byCategory map[string]int
	trend      []models.DayCount
	recent     []models.ViolationRow
}

func (f *fakeDashboardViolations) CountAll(context.Context) (int, error) {
	return f.total, nil
}

func (f *fakeDashboardViolations) CountSince(_ context.Context, scope models.AccessScope, _ time.Time) (int, error) {
	count := 0
	for _, row := range f.recent {
		if scopeMatchesNIS(scope, row.NIS) {
			count++
		}
	}
	return count, nil
}

func (f *fakeDashboardViolations) CountByStatus(context.Context) (map[string]int, error) {
	return f.byStatus, nil
}

func (f *fakeDashboardViolations) CountByCategory(context.Context) (map[string]int, error) {
	return f.byCategory, nil
}

func (f *fakeDashboardViolations) CountPerDaySince(context.Context, time.Time) ([]models.DayCount, error) {
	return f.trend, nil
}

func (f *fakeDashboardViolations) ListRecent(_ context.Context, scope models.AccessScope, _ int) ([]models.ViolationRow, error) {
	var result []models.ViolationRow
	for _, row := range f.recent {
		if scopeMatchesNIS(scope, row.NIS) {
			result = append(result, row)
		}
	}
	return result, nil
}

type fakeDashboardStudents struct {
	total  int
	active int
}

func (f *fakeDashboardStudents) CountAll(context.Context) (int, error) { return f.total, nil }
func (f *fakeDashboardStudents) CountByStatus(_ context.Context, status string) (int, error) {
	if status == models.StudentActive {
		return f.active, nil
	}
	return 0, nil
}

type fakeDashboardAchievements struct {
	total int
	trend []models.DayCount
}

func (f *fakeDashboardAchievements) CountAll(context.Context) (int, error) { return f.total, nil }

func (f *fakeDashboardAchievements) CountPerDaySince(context.Context, time.Time) ([]models.DayCount, error) {
	return f.trend, nil
}

type fakeUserReader struct {
	users map[string]*models.User
}

func (f *fakeUserReader) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func newDashboardService(
	violations *fakeDashboardViolations,
	students *fakeDashboardStudents,
	achievements *fakeDashboardAchievements,
	users *fakeUserReader,
	scopes *ScopeService,
) *DashboardService {
	if scopes == nil {
		scopes = newScopeService(nil, nil)
	}
	return NewDashboardService(
		violations,
		students,
		achievements,
		users,
		scopes,
		NewDashboardCache(nil, false, time.Minute, zap.NewNop()),
		time.FixedZone("WIB", 7*3600),
		zap.NewNop(),
	)
}

func dashboardAdmin() *fakeUserReader {
	return &fakeUserReader{users: map[string]*models.User{
		"admin-1": {ID: "admin-1", Role: models.RoleAdmin, IsActive: true},
	}}
}

func TestDashboardStatsAggregates(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	violations := &fakeDashboardViolations{
		total:      7,
		byStatus:   map[string]int{"reported": 4, "processed": 2, "resolved": 1},
		byCategory: map[string]int{"ringan": 5, "sedang": 1, "berat": 1},
		trend:      []models.DayCount{{Tanggal: "2026-03-09", Jumlah: 3}, {Tanggal: "2026-03-10", Jumlah: 2}},
	}
	violations.rows = []models.ViolationRow{
		// Budi carries an active berat violation.
		summaryRow("v-1", "1001", "Budi", "berat", models.ViolationReported, base),
		// Citra has one light active violation, below risk level.
		summaryRow("v-2", "1002", "Citra", "ringan", models.ViolationProcessed, base.Add(time.Hour)),
		// Dedi's record is fully resolved.
		summaryRow("v-3", "1003", "Dedi", "sedang", models.ViolationResolved, base.Add(2*time.Hour)),
	}

	violations.recent = violations.rows[:2]

	svc := newDashboardService(
		violations,
		&fakeDashboardStudents{total: 100, active: 95},
		&fakeDashboardAchievements{total: 12, trend: []models.DayCount{{Tanggal: "2026-03-10", Jumlah: 1}}},
		dashboardAdmin(),
		nil,
	)

	stats, err := svc.Stats(context.Background(), &models.JWTClaims{UserID: "admin-1"})

	require.NoError(t, err)
	assert.Equal(t, 100, stats.TotalStudents)
	assert.Equal(t, 95, stats.ActiveStudents)
	assert.Equal(t, 7, stats.TotalViolations)
	assert.Equal(t, 2, stats.ViolationsToday)
	assert.Equal(t, 4, stats.ViolationsByStatus["reported"])
	assert.Equal(t, 5, stats.ViolationsByCategory["ringan"])
	assert.Len(t, stats.DailyTrend, 2)
	require.Len(t, stats.RecentViolations, 2)
	assert.Equal(t, "Budi", stats.RecentViolations[0].Nama)
	assert.Equal(t, 12, stats.TotalAchievements)
	assert.Len(t, stats.AchievementTrend, 1)
	assert.Equal(t, 1, stats.StudentsAtRisk)
}

func TestDashboardStatsScopesRowsToHomeroomClass(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	violations := &fakeDashboardViolations{
		total:      7,
		byStatus:   map[string]int{"reported": 4},
		byCategory: map[string]int{"ringan": 5},
	}
	violations.rows = []models.ViolationRow{
		summaryRow("v-1", "1001", "Budi", "berat", models.ViolationReported, base),
		summaryRow("v-2", "2001", "Citra", "ringan", models.ViolationReported, base.Add(time.Hour)),
	}
	violations.recent = violations.rows

	students := &fakeStudentReader{byClass: map[string][]string{"X IPA 1": {"1001"}}}
	users := &fakeUserReader{users: map[string]*models.User{
		"wali-1": {ID: "wali-1", Role: models.RoleHomeroom, IsActive: true, KelasBinaan: []string{"X IPA 1"}},
	}}
	svc := newDashboardService(
		violations,
		&fakeDashboardStudents{total: 100, active: 95},
		&fakeDashboardAchievements{},
		users,
		newScopeService(students, nil),
	)

	stats, err := svc.Stats(context.Background(), &models.JWTClaims{UserID: "wali-1"})

	require.NoError(t, err)
	// Charts stay school-wide, the row-level feed does not.
	assert.Equal(t, 7, stats.TotalViolations)
	assert.Equal(t, 4, stats.ViolationsByStatus["reported"])
	assert.Equal(t, 1, stats.ViolationsToday)
	require.Len(t, stats.RecentViolations, 1)
	assert.Equal(t, "1001", stats.RecentViolations[0].NIS)
}

func TestDashboardStatsEmptyScopeSeesNoRows(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	violations := &fakeDashboardViolations{total: 3, byStatus: map[string]int{}, byCategory: map[string]int{}}
	violations.rows = []models.ViolationRow{
		summaryRow("v-1", "1001", "Budi", "ringan", models.ViolationReported, base),
	}
	violations.recent = violations.rows

	users := &fakeUserReader{users: map[string]*models.User{
		"wali-2": {ID: "wali-2", Role: models.RoleHomeroom, IsActive: true},
	}}
	svc := newDashboardService(violations, &fakeDashboardStudents{}, &fakeDashboardAchievements{}, users, nil)

	stats, err := svc.Stats(context.Background(), &models.JWTClaims{UserID: "wali-2"})

	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalViolations)
	assert.Equal(t, 0, stats.ViolationsToday)
	assert.Empty(t, stats.RecentViolations)
}

func TestDashboardStatsLightCarryCountsAsRisk(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	violations := &fakeDashboardViolations{byStatus: map[string]int{}, byCategory: map[string]int{}}
	for i := 0; i < 10; i++ {
		violations.rows = append(violations.rows,
			summaryRow("v", "1001", "Budi", "ringan", models.ViolationReported, base))
	}

	svc := newDashboardService(violations, &fakeDashboardStudents{}, &fakeDashboardAchievements{}, dashboardAdmin(), nil)

	stats, err := svc.Stats(context.Background(), &models.JWTClaims{UserID: "admin-1"})

	require.NoError(t, err)
	// Ten light violations escalate to one moderate equivalent.
	assert.Equal(t, 1, stats.StudentsAtRisk)
}

func TestDashboardCacheDisabledIsMiss(t *testing.T) {
	cache := NewDashboardCache(nil, true, time.Minute, zap.NewNop())

	_, ok := cache.Get(context.Background())

	assert.False(t, ok)
	// Writes and invalidations must be safe no-ops without a store.
	cache.Set(context.Background(), &dto.DashboardStats{})
	cache.Invalidate(context.Background())
}
