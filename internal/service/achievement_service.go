package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type achievementStore interface {
	Create(ctx context.Context, a *models.Achievement) error
	GetByID(ctx context.Context, id string) (*models.Achievement, error)
	List(ctx context.Context, scope models.AccessScope, filter models.AchievementFilter) ([]models.Achievement, int, error)
	Update(ctx context.Context, a *models.Achievement) error
	SetVerification(ctx context.Context, id, status, verifikatorID string, at time.Time) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, scope models.AccessScope, topN, recentN int) (*models.AchievementStats, error)
}

// AchievementService manages the prestasi lifecycle: recording, scoped
// listing, and leadership verification.
type AchievementService struct {
	achievements achievementStore
	students     counselingStudentReader
	users        userReader
	scopes       *ScopeService
	cache        dashboardInvalidator
	validate     *validator.Validate
	now          func() time.Time
	logger       *zap.Logger
}

// NewAchievementService builds an AchievementService.
func NewAchievementService(
	achievements achievementStore,
	students counselingStudentReader,
	users userReader,
	scopes *ScopeService,
	cache dashboardInvalidator,
	logger *zap.Logger,
) *AchievementService {
	return &AchievementService{
		achievements: achievements,
		students:     students,
		users:        users,
		scopes:       scopes,
		cache:        cache,
		validate:     validator.New(),
		now:          time.Now,
		logger:       logger,
	}
}

func (s *AchievementService) currentUser(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
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

// Create records a new achievement for an active student.
func (s *AchievementService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateAchievementRequest) (*models.Achievement, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data prestasi tidak valid")
	}

	student, err := s.students.GetByNIS(ctx, req.NISSiswa)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat data siswa")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Siswa tidak ditemukan untuk NIS yang diberikan")
	}
	if student.StatusSiswa != models.StudentActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Prestasi hanya dapat dicatat untuk siswa berstatus aktif")
	}

	snapshot := student.IDKelas
	achievement := &models.Achievement{
		ID:                 uuid.NewString(),
		NISSiswa:           req.NISSiswa,
		KelasSnapshot:      &snapshot,
		PencatatID:         user.ID,
		Judul:              req.Judul,
		Kategori:           req.Kategori,
		Tingkat:            req.Tingkat,
		Poin:               req.Poin,
		TanggalPrestasi:    req.TanggalPrestasi,
		Bukti:              req.Bukti,
		PemberiPenghargaan: req.PemberiPenghargaan,
		Status:             models.AchievementSubmitted,
		CreatedAt:          s.now(),
		UpdatedAt:          s.now(),
	}
	if err := s.achievements.Create(ctx, achievement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan prestasi")
	}

	s.cache.Invalidate(ctx)
	s.logger.Info("achievement recorded",
		zap.String("prestasi_id", achievement.ID),
		zap.String("nis", achievement.NISSiswa),
	)
	return achievement, nil
}

// List returns scoped achievements with pagination metadata.
func (s *AchievementService) List(ctx context.Context, claims *models.JWTClaims, filter models.AchievementFilter) ([]models.Achievement, *models.Pagination, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}

	achievements, total, err := s.achievements.List(ctx, scope, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat prestasi")
	}
	return achievements, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Update edits an achievement's content. Only the recorder or an admin may
// edit; verification fields are untouched here.
func (s *AchievementService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateAchievementRequest) (*models.Achievement, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	achievement, err := s.achievements.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat prestasi")
	}
	if achievement == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Prestasi tidak ditemukan")
	}
	if user.Role != models.RoleAdmin && achievement.PencatatID != user.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya pencatat atau admin yang dapat mengubah prestasi")
	}

	if req.Judul != nil {
		achievement.Judul = *req.Judul
	}
	if req.Kategori != nil {
		achievement.Kategori = *req.Kategori
	}
	if req.Tingkat != nil {
		achievement.Tingkat = req.Tingkat
	}
	if req.Poin != nil {
		achievement.Poin = *req.Poin
	}
	if req.TanggalPrestasi != nil {
		achievement.TanggalPrestasi = *req.TanggalPrestasi
	}
	if req.Bukti != nil {
		achievement.Bukti = req.Bukti
	}
	if req.PemberiPenghargaan != nil {
		achievement.PemberiPenghargaan = req.PemberiPenghargaan
	}
	achievement.UpdatedAt = s.now()

	if err := s.achievements.Update(ctx, achievement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan perubahan prestasi")
	}
	s.cache.Invalidate(ctx)
	return achievement, nil
}

// Stats returns the scoped achievement aggregate.
func (s *AchievementService) Stats(ctx context.Context, claims *models.JWTClaims) (*models.AchievementStats, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}
	stats, err := s.achievements.Stats(ctx, scope, 5, 5)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat ringkasan prestasi")
	}
	return stats, nil
}

// Verify records a verification decision. Leadership only.
func (s *AchievementService) Verify(ctx context.Context, claims *models.JWTClaims, id string, req dto.VerifyAchievementRequest) (*models.Achievement, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !user.IsLeadership() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya pimpinan yang dapat memverifikasi prestasi")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status verifikasi tidak valid")
	}

	achievement, err := s.achievements.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat prestasi")
	}
	if achievement == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Prestasi tidak ditemukan")
	}

	at := s.now()
	if err := s.achievements.SetVerification(ctx, id, req.Status, user.ID, at); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan verifikasi prestasi")
	}

	achievement.Status = req.Status
	if req.Status == models.AchievementVerified || req.Status == models.AchievementRejected {
		achievement.VerifikatorID = &user.ID
		achievement.VerifiedAt = &at
	} else {
		achievement.VerifikatorID = nil
		achievement.VerifiedAt = nil
	}
	achievement.UpdatedAt = at
	s.cache.Invalidate(ctx)
	return achievement, nil
}

// Delete removes an achievement. Only the recorder or an admin may delete.
func (s *AchievementService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return err
	}
	achievement, err := s.achievements.GetByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat prestasi")
	}
	if achievement == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "Prestasi tidak ditemukan")
	}
	if user.Role != models.RoleAdmin && achievement.PencatatID != user.ID {
		return appErrors.Clone(appErrors.ErrForbidden, "Hanya pencatat atau admin yang dapat menghapus prestasi")
	}

	if err := s.achievements.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghapus prestasi")
	}
	s.cache.Invalidate(ctx)
	return nil
}
