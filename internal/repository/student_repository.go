package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// StudentRepository persists siswa rows.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository builds a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByNIS fetches one student, or nil when absent.
func (r *StudentRepository) GetByNIS(ctx context.Context, nis string) (*models.Student, error) {
	var s models.Student
	err := r.db.GetContext(ctx, &s, `SELECT * FROM siswa WHERE nis = $1`, nis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get siswa %s: %w", nis, err)
	}
	return &s, nil
}

// List returns students matching the filter with pagination.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(nama) LIKE $%d OR LOWER(nis) LIKE $%d)", len(args), len(args)))
	}
	if filter.IDKelas != "" {
		args = append(args, filter.IDKelas)
		conditions = append(conditions, fmt.Sprintf("id_kelas = $%d", len(args)))
	}
	if filter.Angkatan != "" {
		args = append(args, filter.Angkatan)
		conditions = append(conditions, fmt.Sprintf("angkatan = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status_siswa = $%d", len(args)))
	} else {
		conditions = append(conditions, fmt.Sprintf("status_siswa <> '%s'", models.StudentDeleted))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM siswa"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count siswa: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	query := fmt.Sprintf("SELECT * FROM siswa%s ORDER BY nama ASC LIMIT $%d OFFSET $%d", where, limitPos, offsetPos)

	students := []models.Student{}
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list siswa: %w", err)
	}
	return students, total, nil
}

// Create inserts a new student.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO siswa (nis, nama, id_kelas, angkatan, jenis_kelamin, aktif, status_siswa, created_at)
		VALUES (:nis, :nama, :id_kelas, :angkatan, :jenis_kelamin, :aktif, :status_siswa, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("insert siswa: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a student.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE siswa SET
			nama = :nama,
			id_kelas = :id_kelas,
			angkatan = :angkatan,
			jenis_kelamin = :jenis_kelamin,
			aktif = :aktif,
			status_siswa = :status_siswa
		WHERE nis = :nis`
	res, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return fmt.Errorf("update siswa: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a student as deleted without dropping history.
func (r *StudentRepository) SoftDelete(ctx context.Context, nis string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE siswa SET status_siswa = $1, aktif = FALSE WHERE nis = $2`,
		models.StudentDeleted, nis,
	)
	if err != nil {
		return fmt.Errorf("soft delete siswa: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// HardDelete removes a student and their dependent rows. Used only when the
// student has no discipline or achievement history worth keeping.
func (r *StudentRepository) HardDelete(ctx context.Context, nis string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin hard delete siswa: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM riwayat_kelas WHERE nis_siswa = $1`, nis); err != nil {
		return fmt.Errorf("delete riwayat kelas: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM perwalian WHERE nis_siswa = $1`, nis); err != nil {
		return fmt.Errorf("delete perwalian siswa: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM siswa WHERE nis = $1`, nis)
	if err != nil {
		return fmt.Errorf("hard delete siswa: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// ListNISByClasses returns the NIS of every student in the named classes.
func (r *StudentRepository) ListNISByClasses(ctx context.Context, classNames []string) ([]string, error) {
	if len(classNames) == 0 {
		return nil, nil
	}
	var nis []string
	err := r.db.SelectContext(ctx, &nis, `SELECT nis FROM siswa WHERE id_kelas = ANY($1)`, pq.Array(classNames))
	if err != nil {
		return nil, fmt.Errorf("list nis by kelas: %w", err)
	}
	return nis, nil
}

// ListNISByGrade returns the NIS of every student whose class sits on the
// given grade level, matching tingkat case-insensitively.
func (r *StudentRepository) ListNISByGrade(ctx context.Context, tingkat string) ([]string, error) {
	var nis []string
	query := `
		SELECT s.nis
		FROM siswa s
		JOIN kelas k ON k.nama_kelas = s.id_kelas
		WHERE LOWER(TRIM(k.tingkat)) = LOWER(TRIM($1))`
	if err := r.db.SelectContext(ctx, &nis, query, tingkat); err != nil {
		return nil, fmt.Errorf("list nis by tingkat: %w", err)
	}
	return nis, nil
}

// CountAll counts students excluding soft-deleted rows.
func (r *StudentRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM siswa WHERE status_siswa <> $1`, models.StudentDeleted)
	if err != nil {
		return 0, fmt.Errorf("count siswa: %w", err)
	}
	return total, nil
}

// CountByStatus counts students with the given status.
func (r *StudentRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM siswa WHERE status_siswa = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("count siswa by status: %w", err)
	}
	return total, nil
}
