package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestViolationRepositoryListEmptyScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	violations, total, err := repo.List(context.Background(), models.AccessScope{}, models.ViolationFilter{})

	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryListSummaryRowsScoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	now := time.Now()
	scope := models.AccessScope{StudentIDs: []string{"1001", "1002"}, ReporterID: "guru-1"}

	rows := sqlmock.NewRows([]string{
		"id", "nis", "status", "waktu", "created_at", "tempat", "detail",
		"catatan", "tindak_lanjut", "jenis", "kategori", "nama", "kelas", "angkatan",
	}).AddRow(
		"v-1", "1001", models.ViolationReported, now, now, "Kantin", "Membuang sampah sembarangan",
		nil, nil, "Membuang sampah", "Ringan", "Budi", "X IPA 1", "2024",
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM pelanggaran p(.|\n)+JOIN siswa s(.|\n)+nis_siswa = ANY\(\$1\) OR p\.pelapor_id = \$2(.|\n)+ORDER BY p\.created_at DESC`).
		WithArgs(sqlmock.AnyArg(), "guru-1").
		WillReturnRows(rows)

	result, err := repo.ListSummaryRows(context.Background(), scope, "")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "1001", result[0].NIS)
	assert.Equal(t, "Ringan", result[0].Kategori)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryListSummaryRowsTargetNIS(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "nis", "status", "waktu", "created_at", "tempat", "detail",
		"catatan", "tindak_lanjut", "jenis", "kategori", "nama", "kelas", "angkatan",
	})

	mock.ExpectQuery(`SELECT(.|\n)+FROM pelanggaran p(.|\n)+WHERE p\.nis_siswa = \$1`).
		WithArgs("1001").
		WillReturnRows(rows)

	result, err := repo.ListSummaryRows(context.Background(), models.UnrestrictedScope(), "1001")

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryListRecentScoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	now := time.Now()
	scope := models.AccessScope{StudentIDs: []string{"1001"}}

	rows := sqlmock.NewRows([]string{
		"id", "nis", "status", "waktu", "created_at", "tempat", "detail",
		"catatan", "tindak_lanjut", "jenis", "kategori", "nama", "kelas", "angkatan",
	}).AddRow(
		"v-1", "1001", models.ViolationReported, now, now, "Kantin", "Terlambat masuk",
		nil, nil, "Terlambat", "Ringan", "Budi", "X IPA 1", "2024",
	)

	mock.ExpectQuery(`SELECT(.|\n)+FROM pelanggaran p(.|\n)+WHERE \(p\.nis_siswa = ANY\(\$1\)\)(.|\n)+ORDER BY p\.created_at DESC(.|\n)+LIMIT \$2`).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnRows(rows)

	result, err := repo.ListRecent(context.Background(), scope, 5)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "1001", result[0].NIS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryListRecentEmptyScope(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	result, err := repo.ListRecent(context.Background(), models.AccessScope{}, 5)

	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryApplyCounselingUpdates(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	note := "Sudah dibina wali kelas"
	updates := []CounselingUpdate{
		{ID: "v-1", Status: models.ViolationProcessed, Catatan: &note, TindakLanjut: "Pembinaan diproses"},
		{ID: "v-2", Status: models.ViolationProcessed, TindakLanjut: "Pembinaan diproses"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE pelanggaran SET status = \$1, catatan_pembinaan = \$2, tindak_lanjut = \$3 WHERE id = \$4`).
		WithArgs(models.ViolationProcessed, note, "Pembinaan diproses", "v-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE pelanggaran SET status = \$1, tindak_lanjut = \$2 WHERE id = \$3`).
		WithArgs(models.ViolationProcessed, "Pembinaan diproses", "v-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ApplyCounselingUpdates(context.Background(), updates)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryApplyCounselingUpdatesNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	err := repo.ApplyCounselingUpdates(context.Background(), nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestViolationRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewViolationRepository(db)

	mock.ExpectExec(`UPDATE pelanggaran SET status = \$1 WHERE id = \$2`).
		WithArgs(models.ViolationResolved, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.ViolationResolved)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
