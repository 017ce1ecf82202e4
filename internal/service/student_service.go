package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type studentStore interface {
	GetByNIS(ctx context.Context, nis string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	SoftDelete(ctx context.Context, nis string) error
	HardDelete(ctx context.Context, nis string) error
}

type classNameReader interface {
	GetByName(ctx context.Context, name string) (*models.Class, error)
}

type studentViolationCounter interface {
	CountUnresolvedByStudent(ctx context.Context, nis string) (int, error)
}

type studentAchievementCounter interface {
	CountByStudent(ctx context.Context, nis string) (int, error)
}

// StudentService manages the siswa master data.
type StudentService struct {
	students     studentStore
	classes      classNameReader
	users        userReader
	violations   studentViolationCounter
	achievements studentAchievementCounter
	cache        dashboardInvalidator
	validate     *validator.Validate
	now          func() time.Time
	logger       *zap.Logger
}

// NewStudentService builds a StudentService.
func NewStudentService(
	students studentStore,
	classes classNameReader,
	users userReader,
	violations studentViolationCounter,
	achievements studentAchievementCounter,
	cache dashboardInvalidator,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		students:     students,
		classes:      classes,
		users:        users,
		violations:   violations,
		achievements: achievements,
		cache:        cache,
		validate:     validator.New(),
		now:          time.Now,
		logger:       logger,
	}
}

func (s *StudentService) requireAdmin(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
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
	if user.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya admin yang dapat mengelola data siswa")
	}
	return user, nil
}

// Get fetches one student.
func (s *StudentService) Get(ctx context.Context, nis string) (*models.Student, error) {
	student, err := s.students.GetByNIS(ctx, nis)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat siswa")
	}
	if student == nil || student.StatusSiswa == models.StudentDeleted {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Siswa tidak ditemukan")
	}
	return student, nil
}

// List returns students matching the filter with pagination.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat daftar siswa")
	}
	return students, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Create registers a new student. Admin only.
func (s *StudentService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateStudentRequest) (*models.Student, error) {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data siswa tidak valid")
	}

	existing, err := s.students.GetByNIS(ctx, req.NIS)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa NIS")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "NIS sudah terdaftar")
	}

	class, err := s.classes.GetByName(ctx, req.IDKelas)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat kelas")
	}
	if class == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Kelas tidak ditemukan")
	}

	student := &models.Student{
		NIS:          req.NIS,
		Nama:         req.Nama,
		IDKelas:      req.IDKelas,
		Angkatan:     req.Angkatan,
		JenisKelamin: req.JenisKelamin,
		Aktif:        true,
		StatusSiswa:  models.StudentActive,
		CreatedAt:    s.now(),
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan siswa")
	}
	s.cache.Invalidate(ctx)
	s.logger.Info("student registered", zap.String("nis", student.NIS))
	return student, nil
}

// Update edits a student. Admin only.
func (s *StudentService) Update(ctx context.Context, claims *models.JWTClaims, nis string, req dto.UpdateStudentRequest) (*models.Student, error) {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data siswa tidak valid")
	}

	student, err := s.Get(ctx, nis)
	if err != nil {
		return nil, err
	}

	if req.Nama != nil {
		student.Nama = *req.Nama
	}
	if req.IDKelas != nil {
		class, err := s.classes.GetByName(ctx, *req.IDKelas)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat kelas")
		}
		if class == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Kelas tidak ditemukan")
		}
		student.IDKelas = *req.IDKelas
	}
	if req.Angkatan != nil {
		student.Angkatan = *req.Angkatan
	}
	if req.JenisKelamin != nil {
		student.JenisKelamin = *req.JenisKelamin
	}
	if req.StatusSiswa != nil {
		if !models.IsValidStudentStatus(*req.StatusSiswa) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Status siswa tidak valid")
		}
		student.StatusSiswa = *req.StatusSiswa
		student.Aktif = *req.StatusSiswa == models.StudentActive
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan perubahan siswa")
	}
	s.cache.Invalidate(ctx)
	return student, nil
}

// Delete removes a student. Admin only. Students with unresolved violations
// cannot be deleted; students with achievement history are soft-deleted so
// the records keep their subject, everyone else is removed outright.
func (s *StudentService) Delete(ctx context.Context, claims *models.JWTClaims, nis string) error {
	if _, err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if _, err := s.Get(ctx, nis); err != nil {
		return err
	}

	unresolved, err := s.violations.CountUnresolvedByStudent(ctx, nis)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa pelanggaran siswa")
	}
	if unresolved > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "Siswa masih memiliki pelanggaran yang belum diselesaikan")
	}

	achievements, err := s.achievements.CountByStudent(ctx, nis)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa prestasi siswa")
	}

	if achievements > 0 {
		if err := s.students.SoftDelete(ctx, nis); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghapus siswa")
		}
		s.logger.Info("student soft-deleted", zap.String("nis", nis))
	} else {
		if err := s.students.HardDelete(ctx, nis); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghapus siswa")
		}
		s.logger.Info("student deleted", zap.String("nis", nis))
	}
	s.cache.Invalidate(ctx)
	return nil
}
