package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

type fakeStudentReader struct {
	byClass map[string][]string
	byGrade map[string][]string
}

func (f *fakeStudentReader) ListNISByClasses(_ context.Context, classNames []string) ([]string, error) {
	var nis []string
	for _, name := range classNames {
		nis = append(nis, f.byClass[name]...)
	}
	return nis, nil
}

func (f *fakeStudentReader) ListNISByGrade(_ context.Context, tingkat string) ([]string, error) {
	return f.byGrade[tingkat], nil
}

type fakeGuardianReader struct {
	guardians map[string][]string
}

func (f *fakeGuardianReader) IsGuardian(_ context.Context, userID string) (bool, error) {
	_, ok := f.guardians[userID]
	return ok, nil
}

func (f *fakeGuardianReader) ListByTeacher(_ context.Context, teacherID string) ([]models.Guardianship, error) {
	var roster []models.Guardianship
	for _, nis := range f.guardians[teacherID] {
		roster = append(roster, models.Guardianship{TeacherID: teacherID, NISSiswa: nis})
	}
	return roster, nil
}

func newScopeService(students *fakeStudentReader, guardians *fakeGuardianReader) *ScopeService {
	if students == nil {
		students = &fakeStudentReader{}
	}
	if guardians == nil {
		guardians = &fakeGuardianReader{}
	}
	return NewScopeService(students, guardians, zap.NewNop())
}

func TestScopeResolveLeadership(t *testing.T) {
	svc := newScopeService(nil, nil)

	for _, role := range []string{models.RoleAdmin, models.RolePrincipal, models.RoleVicePrincipal} {
		scope, err := svc.Resolve(context.Background(), &models.User{ID: "u-1", Role: role})
		require.NoError(t, err)
		assert.True(t, scope.Unrestricted, "role %s should be unrestricted", role)
	}
}

func TestScopeResolveTeacherOwnReports(t *testing.T) {
	svc := newScopeService(nil, nil)

	scope, err := svc.Resolve(context.Background(), &models.User{ID: "guru-1", Role: models.RoleTeacher})

	require.NoError(t, err)
	assert.False(t, scope.Unrestricted)
	assert.Empty(t, scope.StudentIDs)
	assert.Equal(t, "guru-1", scope.ReporterID)
}

func TestScopeResolveTeacherWithGuardianship(t *testing.T) {
	guardians := &fakeGuardianReader{guardians: map[string][]string{"guru-1": {"1001", "1002"}}}
	svc := newScopeService(nil, guardians)

	scope, err := svc.Resolve(context.Background(), &models.User{ID: "guru-1", Role: models.RoleTeacher})

	require.NoError(t, err)
	assert.Equal(t, []string{"1001", "1002"}, scope.StudentIDs)
	assert.Equal(t, "guru-1", scope.ReporterID)
}

func TestScopeResolveHomeroomClasses(t *testing.T) {
	students := &fakeStudentReader{byClass: map[string][]string{
		"X IPA 1": {"1001", "1002"},
		"X IPA 2": {"1003"},
	}}
	svc := newScopeService(students, nil)

	user := &models.User{
		ID:          "wali-1",
		Role:        models.RoleHomeroom,
		KelasBinaan: []string{" X IPA 1 ", "X IPA 2", "  "},
	}
	scope, err := svc.Resolve(context.Background(), user)

	require.NoError(t, err)
	assert.False(t, scope.Unrestricted)
	assert.ElementsMatch(t, []string{"1001", "1002", "1003"}, scope.StudentIDs)
	assert.Empty(t, scope.ReporterID)
}

func TestScopeResolveHomeroomWithoutAssignmentSeesNothing(t *testing.T) {
	svc := newScopeService(nil, nil)

	scope, err := svc.Resolve(context.Background(), &models.User{ID: "wali-2", Role: models.RoleHomeroom})

	require.NoError(t, err)
	assert.True(t, scope.Empty())
}

func TestScopeResolveCounselorGrade(t *testing.T) {
	students := &fakeStudentReader{byGrade: map[string][]string{"X": {"1001", "1004"}}}
	svc := newScopeService(students, nil)

	grade := "  X "
	user := &models.User{ID: "bk-1", Role: models.RoleCounselor, AngkatanBinaan: &grade}
	scope, err := svc.Resolve(context.Background(), user)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1001", "1004"}, scope.StudentIDs)
}

func TestScopeResolveCounselorWithoutCohortSeesNothing(t *testing.T) {
	svc := newScopeService(nil, nil)

	scope, err := svc.Resolve(context.Background(), &models.User{ID: "bk-2", Role: models.RoleCounselor})

	require.NoError(t, err)
	assert.True(t, scope.Empty())
}

func TestScopeResolveGuardianshipWidensRestrictedScope(t *testing.T) {
	students := &fakeStudentReader{byClass: map[string][]string{"XI IPS 1": {"2001"}}}
	guardians := &fakeGuardianReader{guardians: map[string][]string{"wali-3": {"3001", "2001"}}}
	svc := newScopeService(students, guardians)

	user := &models.User{ID: "wali-3", Role: models.RoleHomeroom, KelasBinaan: []string{"XI IPS 1"}}
	scope, err := svc.Resolve(context.Background(), user)

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2001", "3001"}, scope.StudentIDs)
}
