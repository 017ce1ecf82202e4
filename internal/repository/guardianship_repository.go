package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// GuardianshipRepository persists perwalian rosters, the guru wali access
// list, and the key-value app configuration behind the period gate.
type GuardianshipRepository struct {
	db *sqlx.DB
}

// NewGuardianshipRepository builds a GuardianshipRepository.
func NewGuardianshipRepository(db *sqlx.DB) *GuardianshipRepository {
	return &GuardianshipRepository{db: db}
}

// IsGuardian reports whether the user holds guru wali access.
func (r *GuardianshipRepository) IsGuardian(ctx context.Context, userID string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM guru_wali_access WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("check guru wali access: %w", err)
	}
	return count > 0, nil
}

// ListAccess returns every user ID with guru wali access.
func (r *GuardianshipRepository) ListAccess(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM guru_wali_access`); err != nil {
		return nil, fmt.Errorf("list guru wali access: %w", err)
	}
	return ids, nil
}

// ReplaceAccess swaps the full guru wali access list atomically.
func (r *GuardianshipRepository) ReplaceAccess(ctx context.Context, userIDs []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin access tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM guru_wali_access`); err != nil {
		return fmt.Errorf("clear guru wali access: %w", err)
	}
	for _, id := range userIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO guru_wali_access (user_id) VALUES ($1)`, id); err != nil {
			return fmt.Errorf("insert guru wali access: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit access tx: %w", err)
	}
	return nil
}

// ListByTeacher returns the guardianship roster of one teacher.
func (r *GuardianshipRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Guardianship, error) {
	roster := []models.Guardianship{}
	err := r.db.SelectContext(ctx, &roster,
		`SELECT * FROM perwalian WHERE teacher_id = $1 ORDER BY created_at ASC`, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list perwalian: %w", err)
	}
	return roster, nil
}

// GetByStudent returns the guardianship covering one student, or nil.
func (r *GuardianshipRepository) GetByStudent(ctx context.Context, nis string) (*models.Guardianship, error) {
	var g models.Guardianship
	err := r.db.GetContext(ctx, &g, `SELECT * FROM perwalian WHERE nis_siswa = $1`, nis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get perwalian by siswa: %w", err)
	}
	return &g, nil
}

// Add inserts a guardianship assignment.
func (r *GuardianshipRepository) Add(ctx context.Context, g *models.Guardianship) error {
	query := `
		INSERT INTO perwalian (id, teacher_id, nis_siswa, created_at)
		VALUES (:id, :teacher_id, :nis_siswa, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, g); err != nil {
		return fmt.Errorf("insert perwalian: %w", err)
	}
	return nil
}

// Remove deletes a guardianship assignment, reporting whether it existed.
func (r *GuardianshipRepository) Remove(ctx context.Context, teacherID, nis string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM perwalian WHERE teacher_id = $1 AND nis_siswa = $2`, teacherID, nis)
	if err != nil {
		return false, fmt.Errorf("delete perwalian: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Stats aggregates roster size per guardian teacher.
func (r *GuardianshipRepository) Stats(ctx context.Context) ([]models.GuardianshipStat, error) {
	stats := []models.GuardianshipStat{}
	query := `
		SELECT
			u.id AS teacher_id,
			u.full_name AS teacher_name,
			COUNT(p.id) AS student_count
		FROM users u
		JOIN guru_wali_access a ON a.user_id = u.id
		LEFT JOIN perwalian p ON p.teacher_id = u.id
		GROUP BY u.id, u.full_name
		ORDER BY u.full_name ASC`
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("perwalian stats: %w", err)
	}
	return stats, nil
}

// GetConfig returns the config value for key, or empty string when unset.
func (r *GuardianshipRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM app_config WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig upserts a config value.
func (r *GuardianshipRepository) SetConfig(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_config (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}
