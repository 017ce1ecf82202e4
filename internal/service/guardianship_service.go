package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type guardianshipStore interface {
	IsGuardian(ctx context.Context, userID string) (bool, error)
	ListAccess(ctx context.Context) ([]string, error)
	ReplaceAccess(ctx context.Context, userIDs []string) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Guardianship, error)
	GetByStudent(ctx context.Context, nis string) (*models.Guardianship, error)
	Add(ctx context.Context, g *models.Guardianship) error
	Remove(ctx context.Context, teacherID, nis string) (bool, error)
	Stats(ctx context.Context) ([]models.GuardianshipStat, error)
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

// GuardianshipService manages delegated student assignments (perwalian):
// the admin-curated access list, the enrollment window, and per-teacher
// rosters.
type GuardianshipService struct {
	store    guardianshipStore
	students counselingStudentReader
	users    userReader
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewGuardianshipService builds a GuardianshipService.
func NewGuardianshipService(store guardianshipStore, students counselingStudentReader, users userReader, logger *zap.Logger) *GuardianshipService {
	return &GuardianshipService{
		store:    store,
		students: students,
		users:    users,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger,
	}
}

func (s *GuardianshipService) currentUser(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
	}
	if user == nil || !user.IsActive {
		return nil, appErrors.ErrUnauthorized
	}
	return user, nil
}

func (s *GuardianshipService) requireAdmin(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya admin yang dapat mengelola perwalian")
	}
	return user, nil
}

// PeriodActive reports whether the guardianship enrollment window is open.
func (s *GuardianshipService) PeriodActive(ctx context.Context) (bool, error) {
	value, err := s.store.GetConfig(ctx, models.ConfigKeyGuardianshipPeriod)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat konfigurasi perwalian")
	}
	return value == "true", nil
}

// SetPeriod toggles the guardianship enrollment window. Admin only.
func (s *GuardianshipService) SetPeriod(ctx context.Context, claims *models.JWTClaims, active bool) error {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if err := s.store.SetConfig(ctx, models.ConfigKeyGuardianshipPeriod, strconv.FormatBool(active)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan konfigurasi perwalian")
	}
	s.logger.Info("guardianship period toggled", zap.Bool("active", active))
	return nil
}

// ListAccess returns the user IDs eligible to hold guardianships. Admin only.
func (s *GuardianshipService) ListAccess(ctx context.Context, claims *models.JWTClaims) ([]string, error) {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	ids, err := s.store.ListAccess(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat akses guru wali")
	}
	return ids, nil
}

// ReplaceAccess swaps the full guru wali access list. Admin only.
func (s *GuardianshipService) ReplaceAccess(ctx context.Context, claims *models.JWTClaims, req dto.ReplaceGuardianAccessRequest) error {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "daftar akses tidak valid")
	}
	for _, id := range req.UserIDs {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
		}
		if user == nil {
			return appErrors.Clone(appErrors.ErrNotFound, "Pengguna tidak ditemukan: "+id)
		}
	}
	if err := s.store.ReplaceAccess(ctx, req.UserIDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan akses guru wali")
	}
	return nil
}

// Roster returns the current user's guardianship roster.
func (s *GuardianshipService) Roster(ctx context.Context, claims *models.JWTClaims) ([]models.Guardianship, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	roster, err := s.store.ListByTeacher(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat perwalian")
	}
	return roster, nil
}

// AddStudent assigns a student to the current user's roster. Requires guru
// wali access, an open enrollment window, and an unclaimed student.
func (s *GuardianshipService) AddStudent(ctx context.Context, claims *models.JWTClaims, req dto.AddGuardianshipRequest) (*models.Guardianship, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data perwalian tidak valid")
	}

	isGuardian, err := s.store.IsGuardian(ctx, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa akses guru wali")
	}
	if !isGuardian {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Tidak memiliki akses Guru Wali")
	}

	active, err := s.PeriodActive(ctx)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "Periode perwalian sedang ditutup")
	}

	student, err := s.students.GetByNIS(ctx, req.NISSiswa)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat data siswa")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Siswa tidak ditemukan")
	}

	existing, err := s.store.GetByStudent(ctx, req.NISSiswa)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa perwalian siswa")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Siswa sudah memiliki Guru Wali")
	}

	guardianship := &models.Guardianship{
		ID:        uuid.NewString(),
		TeacherID: user.ID,
		NISSiswa:  req.NISSiswa,
		CreatedAt: s.now(),
	}
	if err := s.store.Add(ctx, guardianship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan perwalian")
	}
	s.logger.Info("guardianship added",
		zap.String("teacher_id", user.ID),
		zap.String("nis", req.NISSiswa),
	)
	return guardianship, nil
}

// RemoveStudent drops a student from the current user's roster.
func (s *GuardianshipService) RemoveStudent(ctx context.Context, claims *models.JWTClaims, nis string) error {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return err
	}
	removed, err := s.store.Remove(ctx, user.ID, nis)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghapus perwalian")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "Perwalian tidak ditemukan")
	}
	return nil
}

// Stats aggregates roster size per guardian teacher. Admin only.
func (s *GuardianshipService) Stats(ctx context.Context, claims *models.JWTClaims) ([]models.GuardianshipStat, error) {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat statistik perwalian")
	}
	return stats, nil
}
