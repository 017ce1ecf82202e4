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
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/repository"
)

var testLoc = time.FixedZone("WIB", 7*3600)

type fakeViolationStore struct {
	rows       []models.ViolationRow
	violations []models.Violation
	applied    []repository.CounselingUpdate
}

func (f *fakeViolationStore) ListSummaryRows(_ context.Context, scope models.AccessScope, targetNIS string) ([]models.ViolationRow, error) {
	if scope.Empty() {
		return nil, nil
	}
	var result []models.ViolationRow
	for _, row := range f.rows {
		if targetNIS != "" && row.NIS != targetNIS {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

func (f *fakeViolationStore) ListByStudent(_ context.Context, scope models.AccessScope, nis string) ([]models.Violation, error) {
	if scope.Empty() {
		return nil, nil
	}
	var result []models.Violation
	for _, v := range f.violations {
		if v.NISSiswa == nis {
			result = append(result, v)
		}
	}
	return result, nil
}

func (f *fakeViolationStore) ApplyCounselingUpdates(_ context.Context, updates []repository.CounselingUpdate) error {
	f.applied = append(f.applied, updates...)
	for _, u := range updates {
		for i := range f.violations {
			if f.violations[i].ID != u.ID {
				continue
			}
			f.violations[i].Status = u.Status
			if u.Catatan != nil {
				f.violations[i].Catatan = u.Catatan
			}
			followUp := u.TindakLanjut
			f.violations[i].TindakLanjut = &followUp
		}
		for i := range f.rows {
			if f.rows[i].ID != u.ID {
				continue
			}
			f.rows[i].Status = u.Status
			if u.Catatan != nil {
				f.rows[i].Catatan = u.Catatan
			}
			followUp := u.TindakLanjut
			f.rows[i].TindakLanjut = &followUp
		}
	}
	return nil
}

type fakeStudentStore struct {
	students map[string]*models.Student
}

func (f *fakeStudentStore) GetByNIS(_ context.Context, nis string) (*models.Student, error) {
	return f.students[nis], nil
}

func summaryRow(id, nis, nama, kategori, status string, createdAt time.Time) models.ViolationRow {
	waktu := createdAt.Add(-time.Hour)
	return models.ViolationRow{
		ID:        id,
		NIS:       nis,
		Status:    status,
		Waktu:     &waktu,
		CreatedAt: createdAt,
		Tempat:    "Kelas",
		Detail:    "Detail kejadian",
		Jenis:     "Jenis " + kategori,
		Kategori:  kategori,
		Nama:      nama,
		Kelas:     "X IPA 1",
		Angkatan:  "2024",
	}
}

func newCounselingService(store *fakeViolationStore, students *fakeStudentStore, guardians *fakeGuardianReader) *CounselingService {
	if students == nil {
		students = &fakeStudentStore{students: map[string]*models.Student{}}
	}
	if guardians == nil {
		guardians = &fakeGuardianReader{}
	}
	return NewCounselingService(store, students, guardians, testLoc, zap.NewNop())
}

func TestBuildSummariesAggregatesPerStudent(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeViolationStore{rows: []models.ViolationRow{
		summaryRow("v-3", "1002", "Citra", "sedang", models.ViolationReported, base.Add(2*time.Hour)),
		summaryRow("v-2", "1001", "Budi", "Ringan", models.ViolationResolved, base.Add(time.Hour)),
		summaryRow("v-1", "1001", "Budi", "ringan", models.ViolationReported, base),
	}}
	svc := newCounselingService(store, nil, nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	summaries, err := svc.BuildSummaries(context.Background(), admin, models.UnrestrictedScope(), "")

	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Citra has the most recent violation and sorts first.
	assert.Equal(t, "1002", summaries[0].NIS)
	assert.Equal(t, models.TierCounts{Sedang: 1}, summaries[0].ActiveCounts)
	assert.Equal(t, models.SeverityModerate, summaries[0].StatusLevel)
	assert.Equal(t, "Pelanggaran Sedang", summaries[0].StatusLabel)
	assert.True(t, summaries[0].CanClear)

	budi := summaries[1]
	assert.Equal(t, "1001", budi.NIS)
	require.Len(t, budi.Violations, 2)
	// Resolved rows still listed but excluded from active counts.
	assert.Equal(t, models.TierCounts{Ringan: 1}, budi.ActiveCounts)
	assert.Equal(t, models.SeverityLight, budi.StatusLevel)
	require.NotNil(t, budi.LatestViolation)
	assert.Equal(t, "v-2", budi.LatestViolation.ID)
	assert.True(t, budi.LatestViolation.IsResolved)
}

func TestBuildSummariesCleanRecordRecommendation(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeViolationStore{rows: []models.ViolationRow{
		summaryRow("v-1", "1001", "Budi", "ringan", models.ViolationResolved, base),
	}}
	svc := newCounselingService(store, nil, nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	summaries, err := svc.BuildSummaries(context.Background(), admin, models.UnrestrictedScope(), "")

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, models.SeverityNone, summaries[0].StatusLevel)
	assert.Equal(t, "Tidak ada pelanggaran", summaries[0].StatusLabel)
	assert.Equal(t, []string{"Tidak ada pelanggaran aktif. Tetap lakukan pemantauan preventif."}, summaries[0].Recommendations)
	assert.False(t, summaries[0].CanClear)
}

func TestBuildSummariesRedactsForTeacherWithoutGuardianship(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeViolationStore{rows: []models.ViolationRow{
		summaryRow("v-1", "1001", "Budi", "berat", models.ViolationReported, base),
	}}
	svc := newCounselingService(store, nil, &fakeGuardianReader{})

	teacher := &models.User{ID: "guru-1", Role: models.RoleTeacher}
	scope := models.AccessScope{ReporterID: "guru-1"}
	summaries, err := svc.BuildSummaries(context.Background(), teacher, scope, "")

	require.NoError(t, err)
	require.Len(t, summaries, 1)

	got := summaries[0]
	assert.True(t, got.DetailRestricted)
	assert.True(t, got.ActiveCountsHidden)
	assert.Empty(t, got.Violations)
	assert.Empty(t, got.Recommendations)
	assert.Nil(t, got.LatestViolation)
	assert.False(t, got.CanClear)
	assert.Equal(t, models.TierCounts{}, got.ActiveCounts)
	assert.Equal(t, models.EscalationCounts{}, got.EffectiveCounts)
	// Identity and severity level stay visible.
	assert.Equal(t, "Budi", got.Nama)
	assert.Equal(t, models.SeveritySevere, got.StatusLevel)
}

func TestBuildSummariesGuardianTeacherSeesDetails(t *testing.T) {
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	store := &fakeViolationStore{rows: []models.ViolationRow{
		summaryRow("v-1", "1001", "Budi", "ringan", models.ViolationReported, base),
	}}
	guardians := &fakeGuardianReader{guardians: map[string][]string{"guru-1": {"1001"}}}
	svc := newCounselingService(store, nil, guardians)

	teacher := &models.User{ID: "guru-1", Role: models.RoleTeacher}
	scope := models.AccessScope{StudentIDs: []string{"1001"}, ReporterID: "guru-1"}
	summaries, err := svc.BuildSummaries(context.Background(), teacher, scope, "")

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.False(t, summaries[0].DetailRestricted)
	assert.Len(t, summaries[0].Violations, 1)
	// Teachers can see but never clear.
	assert.False(t, summaries[0].CanClear)
}

func counselingFixture(status string, catatan, tindakLanjut *string) *fakeViolationStore {
	created := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	waktu := created.Add(-time.Hour)
	return &fakeViolationStore{
		violations: []models.Violation{{
			ID:            "v-1",
			NISSiswa:      "1001",
			JenisID:       "jp-1",
			PelaporID:     "guru-1",
			WaktuKejadian: waktu,
			Tempat:        "Kelas",
			Status:        status,
			Catatan:       catatan,
			TindakLanjut:  tindakLanjut,
			CreatedAt:     created,
		}},
		rows: []models.ViolationRow{
			summaryRow("v-1", "1001", "Budi", "ringan", status, created),
		},
	}
}

func knownStudents() *fakeStudentStore {
	return &fakeStudentStore{students: map[string]*models.Student{
		"1001": {NIS: "1001", Nama: "Budi", IDKelas: "X IPA 1", Angkatan: "2024", StatusSiswa: models.StudentActive},
	}}
}

func TestApplyCounselingForbiddenRole(t *testing.T) {
	svc := newCounselingService(counselingFixture(models.ViolationReported, nil, nil), knownStudents(), nil)

	teacher := &models.User{ID: "guru-1", Role: models.RoleTeacher}
	_, err := svc.ApplyCounseling(context.Background(), teacher, models.AccessScope{ReporterID: "guru-1"}, "1001", dto.CounselingRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tidak memiliki akses")
}

func TestApplyCounselingVicePrincipalAuthorized(t *testing.T) {
	store := counselingFixture(models.ViolationReported, nil, nil)
	svc := newCounselingService(store, knownStudents(), nil)

	vp := &models.User{ID: "wakasek-1", Role: models.RoleVicePrincipal}
	result, err := svc.ApplyCounseling(context.Background(), vp, models.UnrestrictedScope(), "1001", dto.CounselingRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, models.ViolationProcessed, store.applied[0].Status)
	require.NotNil(t, result.Summary)
	// The violation is processed but still active, so the clear action stays offered.
	assert.True(t, result.Summary.CanClear)
}

func TestApplyCounselingUnknownStudent(t *testing.T) {
	svc := newCounselingService(counselingFixture(models.ViolationReported, nil, nil), knownStudents(), nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	_, err := svc.ApplyCounseling(context.Background(), admin, models.UnrestrictedScope(), "9999", dto.CounselingRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Siswa tidak ditemukan")
}

func TestApplyCounselingRejectsUnsupportedStatus(t *testing.T) {
	svc := newCounselingService(counselingFixture(models.ViolationReported, nil, nil), knownStudents(), nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	_, err := svc.ApplyCounseling(context.Background(), admin, models.UnrestrictedScope(), "1001", dto.CounselingRequest{Status: "archived"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status pembinaan tidak didukung")
}

func TestApplyCounselingDefaultsToProcessed(t *testing.T) {
	store := counselingFixture(models.ViolationReported, nil, nil)
	svc := newCounselingService(store, knownStudents(), nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	result, err := svc.ApplyCounseling(context.Background(), admin, models.UnrestrictedScope(), "1001", dto.CounselingRequest{Catatan: "Sudah dibina"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, store.applied, 1)
	assert.Equal(t, models.ViolationProcessed, store.applied[0].Status)
	require.NotNil(t, store.applied[0].Catatan)
	assert.Equal(t, "Sudah dibina", *store.applied[0].Catatan)
	assert.Equal(t, "Pembinaan diproses", store.applied[0].TindakLanjut)

	require.NotNil(t, result.Summary)
	assert.Equal(t, "1001", result.Summary.NIS)
	require.NotNil(t, result.Summary.LatestViolation)
	assert.Equal(t, models.ViolationProcessed, result.Summary.LatestViolation.Status)
}

func TestApplyCounselingReportedTargetCoercedToProcessed(t *testing.T) {
	store := counselingFixture(models.ViolationReported, nil, nil)
	svc := newCounselingService(store, knownStudents(), nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	result, err := svc.ApplyCounseling(context.Background(), admin, models.UnrestrictedScope(), "1001", dto.CounselingRequest{Status: models.ViolationReported})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, models.ViolationProcessed, store.applied[0].Status)
}

func TestApplyCounselingSkipsResolvedWhenProcessing(t *testing.T) {
	followUp := "Pembinaan selesai"
	store := counselingFixture(models.ViolationResolved, nil, &followUp)
	svc := newCounselingService(store, knownStudents(), nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	result, err := svc.ApplyCounseling(context.Background(), admin, models.UnrestrictedScope(), "1001", dto.CounselingRequest{Status: models.ViolationProcessed})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Nil(t, result.Summary)
	assert.Empty(t, store.applied)
}

func TestApplyCounselingIdempotent(t *testing.T) {
	note := "Sudah dibina"
	followUp := "Pembinaan diproses"
	store := counselingFixture(models.ViolationProcessed, &note, &followUp)
	svc := newCounselingService(store, knownStudents(), nil)

	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	result, err := svc.ApplyCounseling(context.Background(), admin, models.UnrestrictedScope(), "1001", dto.CounselingRequest{
		Status:  models.ViolationProcessed,
		Catatan: note,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Nil(t, result.Summary)
	assert.Empty(t, store.applied)
}

func TestApplyCounselingResolveClearsActiveViolations(t *testing.T) {
	followUp := "Pembinaan diproses"
	store := counselingFixture(models.ViolationProcessed, nil, &followUp)
	svc := newCounselingService(store, knownStudents(), nil)

	counselor := &models.User{ID: "bk-1", Role: models.RoleCounselor}
	scope := models.AccessScope{StudentIDs: []string{"1001"}}
	result, err := svc.ApplyCounseling(context.Background(), counselor, scope, "1001", dto.CounselingRequest{Status: models.ViolationResolved})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, models.ViolationResolved, store.applied[0].Status)
	assert.Equal(t, "Pembinaan selesai", store.applied[0].TindakLanjut)

	require.NotNil(t, result.Summary)
	assert.Equal(t, models.TierCounts{}, result.Summary.ActiveCounts)
	assert.Equal(t, models.SeverityNone, result.Summary.StatusLevel)
	assert.False(t, result.Summary.CanClear)
}

func TestApplyCounselingOutOfScopeSeesNothing(t *testing.T) {
	store := counselingFixture(models.ViolationReported, nil, nil)
	svc := newCounselingService(store, knownStudents(), nil)

	homeroom := &models.User{ID: "wali-1", Role: models.RoleHomeroom}
	result, err := svc.ApplyCounseling(context.Background(), homeroom, models.AccessScope{}, "1001", dto.CounselingRequest{})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)
	assert.Nil(t, result.Summary)
}
