package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type violationTypeStore interface {
	GetByID(ctx context.Context, id string) (*models.ViolationType, error)
	List(ctx context.Context) ([]models.ViolationType, error)
	Create(ctx context.Context, t *models.ViolationType) error
	Update(ctx context.Context, t *models.ViolationType) error
	Delete(ctx context.Context, id string) error
}

type classStore interface {
	GetByID(ctx context.Context, id string) (*models.Class, error)
	GetByName(ctx context.Context, name string) (*models.Class, error)
	ListByHomeroom(ctx context.Context, nip string) ([]models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	Create(ctx context.Context, k *models.Class) error
	Update(ctx context.Context, k *models.Class) error
	Delete(ctx context.Context, id string) error
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	CreateAcademicYear(ctx context.Context, y *models.AcademicYear) error
	SetActiveAcademicYear(ctx context.Context, id string) error
}

// MasterDataService manages the jenis_pelanggaran, kelas, and tahun_ajaran
// master tables. Mutations are admin only; reads are open to any
// authenticated user.
type MasterDataService struct {
	types    violationTypeStore
	classes  classStore
	users    userReader
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewMasterDataService builds a MasterDataService.
func NewMasterDataService(types violationTypeStore, classes classStore, users userReader, logger *zap.Logger) *MasterDataService {
	return &MasterDataService{
		types:    types,
		classes:  classes,
		users:    users,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger,
	}
}

func (s *MasterDataService) requireAdmin(ctx context.Context, claims *models.JWTClaims) error {
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
		return appErrors.Clone(appErrors.ErrForbidden, "Hanya admin yang dapat mengelola data master")
	}
	return nil
}

// ListViolationTypes returns the violation type catalogue.
func (s *MasterDataService) ListViolationTypes(ctx context.Context) ([]models.ViolationType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat jenis pelanggaran")
	}
	return types, nil
}

// CreateViolationType adds a violation type. Admin only.
func (s *MasterDataService) CreateViolationType(ctx context.Context, claims *models.JWTClaims, req dto.CreateViolationTypeRequest) (*models.ViolationType, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data jenis pelanggaran tidak valid")
	}

	t := &models.ViolationType{
		ID:        uuid.NewString(),
		Nama:      req.Nama,
		Kategori:  strings.ToLower(req.Kategori),
		Poin:      req.Poin,
		Deskripsi: req.Deskripsi,
		CreatedAt: s.now(),
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan jenis pelanggaran")
	}
	return t, nil
}

// UpdateViolationType edits a violation type. Admin only.
func (s *MasterDataService) UpdateViolationType(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationTypeRequest) (*models.ViolationType, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data jenis pelanggaran tidak valid")
	}

	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat jenis pelanggaran")
	}
	if t == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Jenis pelanggaran tidak ditemukan")
	}

	if req.Nama != nil {
		t.Nama = *req.Nama
	}
	if req.Kategori != nil {
		t.Kategori = strings.ToLower(*req.Kategori)
	}
	if req.Poin != nil {
		t.Poin = *req.Poin
	}
	if req.Deskripsi != nil {
		t.Deskripsi = req.Deskripsi
	}

	if err := s.types.Update(ctx, t); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan jenis pelanggaran")
	}
	return t, nil
}

// DeleteViolationType removes a violation type. Admin only.
func (s *MasterDataService) DeleteViolationType(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if err := s.types.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Jenis pelanggaran tidak ditemukan")
	}
	return nil
}

// requireHomeroomFree enforces the one-class-per-homeroom-teacher rule.
// excludeID skips the class being edited.
func (s *MasterDataService) requireHomeroomFree(ctx context.Context, nip, excludeID string) error {
	if strings.TrimSpace(nip) == "" {
		return nil
	}
	classes, err := s.classes.ListByHomeroom(ctx, nip)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa wali kelas")
	}
	for _, k := range classes {
		if k.ID != excludeID {
			return appErrors.Clone(appErrors.ErrConflict, "Guru sudah menjadi wali kelas pada kelas lain")
		}
	}
	return nil
}

// ListClasses returns every class.
func (s *MasterDataService) ListClasses(ctx context.Context) ([]models.Class, error) {
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat kelas")
	}
	return classes, nil
}

// CreateClass adds a class. Admin only.
func (s *MasterDataService) CreateClass(ctx context.Context, claims *models.JWTClaims, req dto.CreateClassRequest) (*models.Class, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data kelas tidak valid")
	}

	existing, err := s.classes.GetByName(ctx, req.NamaKelas)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memeriksa kelas")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Nama kelas sudah digunakan")
	}
	if req.WaliKelasNIP != nil {
		if err := s.requireHomeroomFree(ctx, *req.WaliKelasNIP, ""); err != nil {
			return nil, err
		}
	}

	k := &models.Class{
		ID:           uuid.NewString(),
		NamaKelas:    req.NamaKelas,
		Tingkat:      req.Tingkat,
		WaliKelasNIP: req.WaliKelasNIP,
		TahunAjaran:  req.TahunAjaran,
		CreatedAt:    s.now(),
	}
	if err := s.classes.Create(ctx, k); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan kelas")
	}
	return k, nil
}

// UpdateClass edits a class. Admin only.
func (s *MasterDataService) UpdateClass(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateClassRequest) (*models.Class, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	k, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat kelas")
	}
	if k == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Kelas tidak ditemukan")
	}

	if req.NamaKelas != nil {
		k.NamaKelas = *req.NamaKelas
	}
	if req.Tingkat != nil {
		k.Tingkat = *req.Tingkat
	}
	if req.WaliKelasNIP != nil {
		if err := s.requireHomeroomFree(ctx, *req.WaliKelasNIP, k.ID); err != nil {
			return nil, err
		}
		k.WaliKelasNIP = req.WaliKelasNIP
	}
	if req.TahunAjaran != nil {
		k.TahunAjaran = *req.TahunAjaran
	}

	if err := s.classes.Update(ctx, k); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan kelas")
	}
	return k, nil
}

// DeleteClass removes a class. Admin only.
func (s *MasterDataService) DeleteClass(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Kelas tidak ditemukan")
	}
	return nil
}

// ListAcademicYears returns every academic year.
func (s *MasterDataService) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	years, err := s.classes.ListAcademicYears(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat tahun ajaran")
	}
	return years, nil
}

// CreateAcademicYear adds an academic year. Admin only.
func (s *MasterDataService) CreateAcademicYear(ctx context.Context, claims *models.JWTClaims, req dto.CreateAcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data tahun ajaran tidak valid")
	}

	y := &models.AcademicYear{
		ID:        uuid.NewString(),
		Tahun:     req.Tahun,
		Semester:  req.Semester,
		IsActive:  false,
		CreatedAt: s.now(),
	}
	if err := s.classes.CreateAcademicYear(ctx, y); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan tahun ajaran")
	}
	return y, nil
}

// ActivateAcademicYear makes one academic year active. Admin only.
func (s *MasterDataService) ActivateAcademicYear(ctx context.Context, claims *models.JWTClaims, id string) error {
	if err := s.requireAdmin(ctx, claims); err != nil {
		return err
	}
	if err := s.classes.SetActiveAcademicYear(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "Tahun ajaran tidak ditemukan")
	}
	return nil
}
