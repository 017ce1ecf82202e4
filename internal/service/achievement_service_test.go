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

type fakeAchievementStore struct {
	byID           map[string]*models.Achievement
	verifiedStatus string
	verifiedBy     string
}

func (f *fakeAchievementStore) Create(_ context.Context, a *models.Achievement) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAchievementStore) GetByID(_ context.Context, id string) (*models.Achievement, error) {
	return f.byID[id], nil
}

func (f *fakeAchievementStore) List(context.Context, models.AccessScope, models.AchievementFilter) ([]models.Achievement, int, error) {
	return nil, 0, nil
}

func (f *fakeAchievementStore) Update(_ context.Context, a *models.Achievement) error {
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAchievementStore) SetVerification(_ context.Context, id, status, verifikatorID string, _ time.Time) error {
	f.verifiedStatus = status
	f.verifiedBy = verifikatorID
	return nil
}

func (f *fakeAchievementStore) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeAchievementStore) Stats(context.Context, models.AccessScope, int, int) (*models.AchievementStats, error) {
	return &models.AchievementStats{}, nil
}

func achievementFixture(status string, verifikatorID *string, verifiedAt *time.Time) *fakeAchievementStore {
	return &fakeAchievementStore{byID: map[string]*models.Achievement{
		"p-1": {
			ID:            "p-1",
			NISSiswa:      "1001",
			PencatatID:    "guru-1",
			Judul:         "Juara 1 Olimpiade Matematika",
			Kategori:      "akademik",
			Poin:          50,
			Status:        status,
			VerifikatorID: verifikatorID,
			VerifiedAt:    verifiedAt,
		},
	}}
}

func newAchievementService(store *fakeAchievementStore, users *fakeUserReader) *AchievementService {
	return NewAchievementService(
		store,
		knownStudents(),
		users,
		newScopeService(nil, nil),
		NewDashboardCache(nil, false, time.Minute, zap.NewNop()),
		zap.NewNop(),
	)
}

func TestVerifyAchievementStampsVerifier(t *testing.T) {
	store := achievementFixture(models.AchievementSubmitted, nil, nil)
	users := &fakeUserReader{users: map[string]*models.User{
		"kepsek-1": {ID: "kepsek-1", Role: models.RolePrincipal, IsActive: true},
	}}
	svc := newAchievementService(store, users)

	got, err := svc.Verify(context.Background(), &models.JWTClaims{UserID: "kepsek-1"}, "p-1",
		dto.VerifyAchievementRequest{Status: models.AchievementVerified})

	require.NoError(t, err)
	assert.Equal(t, models.AchievementVerified, got.Status)
	require.NotNil(t, got.VerifikatorID)
	assert.Equal(t, "kepsek-1", *got.VerifikatorID)
	assert.NotNil(t, got.VerifiedAt)
	assert.Equal(t, models.AchievementVerified, store.verifiedStatus)
	assert.Equal(t, "kepsek-1", store.verifiedBy)
}

func TestVerifyAchievementRevertToSubmittedClearsVerifier(t *testing.T) {
	verifier := "kepsek-1"
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	store := achievementFixture(models.AchievementVerified, &verifier, &at)
	users := &fakeUserReader{users: map[string]*models.User{
		"wakasek-1": {ID: "wakasek-1", Role: models.RoleVicePrincipal, IsActive: true},
	}}
	svc := newAchievementService(store, users)

	got, err := svc.Verify(context.Background(), &models.JWTClaims{UserID: "wakasek-1"}, "p-1",
		dto.VerifyAchievementRequest{Status: models.AchievementSubmitted})

	require.NoError(t, err)
	assert.Equal(t, models.AchievementSubmitted, got.Status)
	assert.Nil(t, got.VerifikatorID)
	assert.Nil(t, got.VerifiedAt)
	assert.Equal(t, models.AchievementSubmitted, store.verifiedStatus)
}

func TestVerifyAchievementForbiddenForNonLeadership(t *testing.T) {
	store := achievementFixture(models.AchievementSubmitted, nil, nil)
	users := &fakeUserReader{users: map[string]*models.User{
		"bk-1": {ID: "bk-1", Role: models.RoleCounselor, IsActive: true},
	}}
	svc := newAchievementService(store, users)

	_, err := svc.Verify(context.Background(), &models.JWTClaims{UserID: "bk-1"}, "p-1",
		dto.VerifyAchievementRequest{Status: models.AchievementVerified})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Hanya pimpinan")
}
