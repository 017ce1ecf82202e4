package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type userStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByNIP(ctx context.Context, nip string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
}

// UserService manages staff accounts. All mutations are admin only.
type UserService struct {
	users    userStore
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewUserService builds a UserService.
func NewUserService(users userStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger,
	}
}

func (s *UserService) requireAdmin(ctx context.Context, claims *models.JWTClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
	}
	if user == nil || !user.IsActive {
		return appErrors.ErrUnauthorized
	}
	if user.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "Hanya admin yang dapat mengelola pengguna")
	}
	return nil
}

// List returns every account. Admin only.
func (s *UserService) List(ctx context.Context, claims *models.JWTClaims) ([]models.User, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
	}
	return users, nil
}

// Create registers an account. Admin only.
func (s *UserService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateUserRequest) (*models.User, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data pengguna tidak valid")
	}
	if !models.IsValidRole(req.Role) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Peran tidak dikenal")
	}

	if existing, err := s.users.GetByEmail(ctx, req.Email); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa email")
	} else if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Email sudah terdaftar")
	}
	if existing, err := s.users.GetByNIP(ctx, req.NIP); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa NIP")
	} else if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "NIP sudah terdaftar")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal mengamankan kata sandi")
	}

	user := &models.User{
		ID:             uuid.NewString(),
		NIP:            req.NIP,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: string(hashed),
		Role:           req.Role,
		IsActive:       true,
		KelasBinaan:    req.KelasBinaan,
		AngkatanBinaan: req.AngkatanBinaan,
		CreatedAt:      s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan pengguna")
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// Update edits an account. Admin only.
func (s *UserService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateUserRequest) (*models.User, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data pengguna tidak valid")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
	}
	if user == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Pengguna tidak ditemukan")
	}

	if req.NIP != nil {
		user.NIP = *req.NIP
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !models.IsValidRole(*req.Role) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Peran tidak dikenal")
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.KelasBinaan != nil {
		user.KelasBinaan = req.KelasBinaan
	}
	if req.AngkatanBinaan != nil {
		user.AngkatanBinaan = req.AngkatanBinaan
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan pengguna")
	}
	return user, nil
}

// Delete removes an account. Admin only; self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if claims.UserID == id {
		return appErrors.Clone(appErrors.ErrValidation, "Tidak dapat menghapus akun sendiri")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Pengguna tidak ditemukan")
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}
