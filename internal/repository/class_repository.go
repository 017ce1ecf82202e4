package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// ClassRepository persists kelas and tahun_ajaran master rows.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository builds a ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// GetByID fetches one class, or nil when absent.
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	var k models.Class
	err := r.db.GetContext(ctx, &k, `SELECT * FROM kelas WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kelas %s: %w", id, err)
	}
	return &k, nil
}

// GetByName fetches one class by its display name, or nil when absent.
func (r *ClassRepository) GetByName(ctx context.Context, name string) (*models.Class, error) {
	var k models.Class
	err := r.db.GetContext(ctx, &k, `SELECT * FROM kelas WHERE nama_kelas = $1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kelas by name: %w", err)
	}
	return &k, nil
}

// List returns every class ordered by grade then name.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	classes := []models.Class{}
	err := r.db.SelectContext(ctx, &classes, `SELECT * FROM kelas ORDER BY tingkat ASC, nama_kelas ASC`)
	if err != nil {
		return nil, fmt.Errorf("list kelas: %w", err)
	}
	return classes, nil
}

// ListByHomeroom returns the classes supervised by the given teacher NIP.
func (r *ClassRepository) ListByHomeroom(ctx context.Context, nip string) ([]models.Class, error) {
	classes := []models.Class{}
	err := r.db.SelectContext(ctx, &classes, `SELECT * FROM kelas WHERE wali_kelas_nip = $1 ORDER BY nama_kelas ASC`, nip)
	if err != nil {
		return nil, fmt.Errorf("list kelas by wali: %w", err)
	}
	return classes, nil
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, k *models.Class) error {
	query := `
		INSERT INTO kelas (id, nama_kelas, tingkat, wali_kelas_nip, tahun_ajaran, created_at)
		VALUES (:id, :nama_kelas, :tingkat, :wali_kelas_nip, :tahun_ajaran, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, k); err != nil {
		return fmt.Errorf("insert kelas: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a class.
func (r *ClassRepository) Update(ctx context.Context, k *models.Class) error {
	query := `
		UPDATE kelas SET
			nama_kelas = :nama_kelas,
			tingkat = :tingkat,
			wali_kelas_nip = :wali_kelas_nip,
			tahun_ajaran = :tahun_ajaran
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, k)
	if err != nil {
		return fmt.Errorf("update kelas: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a class row.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kelas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete kelas: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountAll counts every class row.
func (r *ClassRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM kelas`); err != nil {
		return 0, fmt.Errorf("count kelas: %w", err)
	}
	return total, nil
}

// ListAcademicYears returns every academic year, newest first.
func (r *ClassRepository) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	years := []models.AcademicYear{}
	err := r.db.SelectContext(ctx, &years, `SELECT * FROM tahun_ajaran ORDER BY tahun DESC, semester DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tahun ajaran: %w", err)
	}
	return years, nil
}

// CreateAcademicYear inserts a new academic year.
func (r *ClassRepository) CreateAcademicYear(ctx context.Context, y *models.AcademicYear) error {
	query := `
		INSERT INTO tahun_ajaran (id, tahun, semester, is_active, created_at)
		VALUES (:id, :tahun, :semester, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, y); err != nil {
		return fmt.Errorf("insert tahun ajaran: %w", err)
	}
	return nil
}

// SetActiveAcademicYear marks one year active and every other inactive.
func (r *ClassRepository) SetActiveAcademicYear(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tahun ajaran tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE tahun_ajaran SET is_active = FALSE`); err != nil {
		return fmt.Errorf("deactivate tahun ajaran: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE tahun_ajaran SET is_active = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate tahun ajaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tahun ajaran tx: %w", err)
	}
	return nil
}
