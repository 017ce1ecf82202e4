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

type userReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type violationStore interface {
	Create(ctx context.Context, v *models.Violation) error
	GetByID(ctx context.Context, id string) (*models.Violation, error)
	List(ctx context.Context, scope models.AccessScope, filter models.ViolationFilter) ([]models.Violation, int, error)
	Update(ctx context.Context, v *models.Violation) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type violationTypeReader interface {
	GetByID(ctx context.Context, id string) (*models.ViolationType, error)
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// ViolationService handles the pelanggaran lifecycle: reporting, listing
// under access scope, workflow moves, and the summary and counseling
// surfaces built on top.
type ViolationService struct {
	violations violationStore
	students   counselingStudentReader
	types      violationTypeReader
	users      userReader
	scopes     *ScopeService
	counseling *CounselingService
	cache      dashboardInvalidator
	validate   *validator.Validate
	now        func() time.Time
	logger     *zap.Logger
}

// NewViolationService builds a ViolationService.
func NewViolationService(
	violations violationStore,
	students counselingStudentReader,
	types violationTypeReader,
	users userReader,
	scopes *ScopeService,
	counseling *CounselingService,
	cache dashboardInvalidator,
	logger *zap.Logger,
) *ViolationService {
	return &ViolationService{
		violations: violations,
		students:   students,
		types:      types,
		users:      users,
		scopes:     scopes,
		counseling: counseling,
		cache:      cache,
		validate:   validator.New(),
		now:        time.Now,
		logger:     logger,
	}
}

func statusRank(status string) int {
	switch status {
	case models.ViolationProcessed:
		return 1
	case models.ViolationResolved:
		return 2
	default:
		return 0
	}
}

func (s *ViolationService) currentUser(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
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

// Create records a new violation reported by the current user.
func (s *ViolationService) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateViolationRequest) (*models.Violation, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data pelanggaran tidak valid")
	}

	student, err := s.students.GetByNIS(ctx, req.NISSiswa)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat data siswa")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Siswa tidak ditemukan")
	}
	if student.StatusSiswa != models.StudentActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Pelanggaran hanya dapat dicatat untuk siswa berstatus aktif")
	}

	jenis, err := s.types.GetByID(ctx, req.JenisID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat jenis pelanggaran")
	}
	if jenis == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Jenis pelanggaran tidak ditemukan")
	}

	snapshot := student.IDKelas
	violation := &models.Violation{
		ID:             uuid.NewString(),
		NISSiswa:       req.NISSiswa,
		KelasSnapshot:  &snapshot,
		JenisID:        req.JenisID,
		PelaporID:      user.ID,
		WaktuKejadian:  req.WaktuKejadian,
		Tempat:         req.Tempat,
		DetailKejadian: req.DetailKejadian,
		BuktiFoto:      req.BuktiFoto,
		Status:         models.ViolationReported,
		CreatedAt:      s.now(),
	}
	if err := s.violations.Create(ctx, violation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan pelanggaran")
	}

	s.cache.Invalidate(ctx)
	s.logger.Info("violation reported",
		zap.String("violation_id", violation.ID),
		zap.String("nis", violation.NISSiswa),
		zap.String("pelapor_id", user.ID),
	)
	return violation, nil
}

// List returns scoped violations with pagination metadata.
func (s *ViolationService) List(ctx context.Context, claims *models.JWTClaims, filter models.ViolationFilter) ([]models.Violation, *models.Pagination, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, nil, err
	}
	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}

	violations, total, err := s.violations.List(ctx, scope, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran")
	}
	return violations, models.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get fetches one violation the current user is allowed to see.
func (s *ViolationService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Violation, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran")
	}
	if violation == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Pelanggaran tidak ditemukan")
	}

	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}
	if !scope.Allows(violation.NISSiswa, violation.PelaporID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Tidak memiliki akses ke pelanggaran ini")
	}
	return violation, nil
}

// Update edits a violation report. Only the reporter or an admin may edit.
func (s *ViolationService) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationRequest) (*models.Violation, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran")
	}
	if violation == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Pelanggaran tidak ditemukan")
	}
	if user.Role != models.RoleAdmin && violation.PelaporID != user.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Hanya pelapor atau admin yang dapat mengubah laporan")
	}

	if req.JenisID != nil {
		jenis, err := s.types.GetByID(ctx, *req.JenisID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat jenis pelanggaran")
		}
		if jenis == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Jenis pelanggaran tidak ditemukan")
		}
		violation.JenisID = *req.JenisID
	}
	if req.WaktuKejadian != nil {
		violation.WaktuKejadian = *req.WaktuKejadian
	}
	if req.Tempat != nil {
		violation.Tempat = *req.Tempat
	}
	if req.DetailKejadian != nil {
		violation.DetailKejadian = *req.DetailKejadian
	}
	if req.BuktiFoto != nil {
		violation.BuktiFoto = req.BuktiFoto
	}

	if err := s.violations.Update(ctx, violation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan perubahan pelanggaran")
	}
	s.cache.Invalidate(ctx)
	return violation, nil
}

// UpdateStatus moves a violation along its workflow. Restricted to roles
// with counseling authority.
func (s *ViolationService) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationStatusRequest) (*models.Violation, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !user.CanCounsel() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Tidak memiliki akses mengubah status pelanggaran")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status pelanggaran tidak valid")
	}

	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran")
	}
	if violation == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Pelanggaran tidak ditemukan")
	}

	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}
	if !scope.Allows(violation.NISSiswa, violation.PelaporID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Tidak memiliki akses ke pelanggaran ini")
	}

	// The workflow only moves forward. Marking a resolved record as
	// processed is a no-op, not an error.
	if statusRank(req.Status) <= statusRank(violation.Status) {
		return violation, nil
	}

	if err := s.violations.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal mengubah status pelanggaran")
	}
	violation.Status = req.Status
	s.cache.Invalidate(ctx)
	return violation, nil
}

// Delete removes a violation report. Admin only.
func (s *ViolationService) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return err
	}
	if user.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "Hanya admin yang dapat menghapus pelanggaran")
	}

	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pelanggaran")
	}
	if violation == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "Pelanggaran tidak ditemukan")
	}

	if err := s.violations.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menghapus pelanggaran")
	}
	s.cache.Invalidate(ctx)
	return nil
}

// Summaries builds scoped per-student discipline summaries.
func (s *ViolationService) Summaries(ctx context.Context, claims *models.JWTClaims, targetNIS string) ([]dto.StudentSummary, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}
	return s.counseling.BuildSummaries(ctx, user, scope, targetNIS)
}

// Counsel applies a counseling action to one student's violations.
func (s *ViolationService) Counsel(ctx context.Context, claims *models.JWTClaims, nis string, req dto.CounselingRequest) (*dto.CounselingResult, error) {
	user, err := s.currentUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	scope, err := s.scopes.Resolve(ctx, user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menentukan cakupan akses")
	}
	result, err := s.counseling.ApplyCounseling(ctx, user, scope, nis, req)
	if err != nil {
		return nil, err
	}
	if result.Updated > 0 {
		s.cache.Invalidate(ctx)
	}
	return result, nil
}
