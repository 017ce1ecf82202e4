package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

// UserRepository persists user accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository builds a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID fetches one user, or nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// GetByEmail fetches a user by email, or nil when absent.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE LOWER(email) = LOWER($1)`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// GetByNIP fetches a user by NIP, or nil when absent.
func (r *UserRepository) GetByNIP(ctx context.Context, nip string) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, `SELECT * FROM users WHERE nip = $1`, nip)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by nip: %w", err)
	}
	return &u, nil
}

// List returns every user ordered by name.
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY full_name ASC`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListByRole returns users holding the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users WHERE role = $1 ORDER BY full_name ASC`, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, nip, email, full_name, hashed_password, role, is_active, kelas_binaan, angkatan_binaan, created_at)
		VALUES (:id, :nip, :email, :full_name, :hashed_password, :role, :is_active, :kelas_binaan, :angkatan_binaan, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a user.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			nip = :nip,
			email = :email,
			full_name = :full_name,
			role = :role,
			is_active = :is_active,
			kelas_binaan = :kelas_binaan,
			angkatan_binaan = :angkatan_binaan
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdatePassword stores a new password hash for the user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET hashed_password = $1 WHERE id = $2`, hashedPassword, id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user account.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountAll counts every user account.
func (r *UserRepository) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
