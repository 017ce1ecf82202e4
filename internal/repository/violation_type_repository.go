package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// ViolationTypeRepository persists the jenis_pelanggaran master table.
type ViolationTypeRepository struct {
	db *sqlx.DB
}

// NewViolationTypeRepository builds a ViolationTypeRepository.
func NewViolationTypeRepository(db *sqlx.DB) *ViolationTypeRepository {
	return &ViolationTypeRepository{db: db}
}

// GetByID fetches one violation type, or nil when absent.
func (r *ViolationTypeRepository) GetByID(ctx context.Context, id string) (*models.ViolationType, error) {
	var t models.ViolationType
	err := r.db.GetContext(ctx, &t, `SELECT * FROM jenis_pelanggaran WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get jenis pelanggaran %s: %w", id, err)
	}
	return &t, nil
}

// List returns every violation type grouped by tier.
func (r *ViolationTypeRepository) List(ctx context.Context) ([]models.ViolationType, error) {
	types := []models.ViolationType{}
	err := r.db.SelectContext(ctx, &types, `SELECT * FROM jenis_pelanggaran ORDER BY kategori ASC, nama_pelanggaran ASC`)
	if err != nil {
		return nil, fmt.Errorf("list jenis pelanggaran: %w", err)
	}
	return types, nil
}

// Create inserts a new violation type.
func (r *ViolationTypeRepository) Create(ctx context.Context, t *models.ViolationType) error {
	query := `
		INSERT INTO jenis_pelanggaran (id, nama_pelanggaran, kategori, poin, deskripsi, created_at)
		VALUES (:id, :nama_pelanggaran, :kategori, :poin, :deskripsi, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("insert jenis pelanggaran: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a violation type.
func (r *ViolationTypeRepository) Update(ctx context.Context, t *models.ViolationType) error {
	query := `
		UPDATE jenis_pelanggaran SET
			nama_pelanggaran = :nama_pelanggaran,
			kategori = :kategori,
			poin = :poin,
			deskripsi = :deskripsi
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("update jenis pelanggaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a violation type.
func (r *ViolationTypeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jenis_pelanggaran WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete jenis pelanggaran: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
