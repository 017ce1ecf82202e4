package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

func TestAchievementRepositorySetVerificationStampsVerifier(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAchievementRepository(db)

	at := time.Now()
	mock.ExpectExec(`UPDATE prestasi SET status = \$1, verifikator_id = \$2, verified_at = \$3, updated_at = \$3 WHERE id = \$4`).
		WithArgs(models.AchievementVerified, "kepsek-1", at, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetVerification(context.Background(), "p-1", models.AchievementVerified, "kepsek-1", at)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAchievementRepositorySetVerificationRevertClearsVerifier(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAchievementRepository(db)

	at := time.Now()
	mock.ExpectExec(`UPDATE prestasi SET status = \$1, verifikator_id = NULL, verified_at = NULL, updated_at = \$2 WHERE id = \$3`).
		WithArgs(models.AchievementSubmitted, at, "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetVerification(context.Background(), "p-1", models.AchievementSubmitted, "kepsek-1", at)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAchievementRepositoryListEmptyScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAchievementRepository(db)

	achievements, total, err := repo.List(context.Background(), models.AccessScope{}, models.AchievementFilter{})

	require.NoError(t, err)
	assert.Empty(t, achievements)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
