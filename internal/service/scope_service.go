package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
)

type scopeStudentReader interface {
	ListNISByClasses(ctx context.Context, classNames []string) ([]string, error)
	ListNISByGrade(ctx context.Context, tingkat string) ([]string, error)
}

type scopeGuardianReader interface {
	IsGuardian(ctx context.Context, userID string) (bool, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Guardianship, error)
}

// ScopeService resolves which students a user may see. Leadership roles
// see everything; homeroom teachers see their classes, counselors their
// grade level, and subject teachers only their own reports. Guardianship
// rosters widen any restricted scope.
type ScopeService struct {
	students  scopeStudentReader
	guardians scopeGuardianReader
	logger    *zap.Logger
}

// NewScopeService builds a ScopeService.
func NewScopeService(students scopeStudentReader, guardians scopeGuardianReader, logger *zap.Logger) *ScopeService {
	return &ScopeService{students: students, guardians: guardians, logger: logger}
}

// Resolve computes the access scope for a user. A restricted role without
// any assignment or guardianship resolves to an empty scope that matches
// nothing.
func (s *ScopeService) Resolve(ctx context.Context, user *models.User) (models.AccessScope, error) {
	if user.IsLeadership() {
		return models.UnrestrictedScope(), nil
	}

	extraNIS, err := s.guardianNIS(ctx, user.ID)
	if err != nil {
		return models.AccessScope{}, err
	}

	switch user.Role {
	case models.RoleTeacher:
		return models.AccessScope{StudentIDs: extraNIS, ReporterID: user.ID}, nil

	case models.RoleHomeroom:
		classes := trimmedList(user.KelasBinaan)
		var assigned []string
		if len(classes) > 0 {
			assigned, err = s.students.ListNISByClasses(ctx, classes)
			if err != nil {
				return models.AccessScope{}, err
			}
		}
		return models.AccessScope{StudentIDs: mergeNIS(assigned, extraNIS)}, nil

	case models.RoleCounselor:
		var assigned []string
		if user.AngkatanBinaan != nil && strings.TrimSpace(*user.AngkatanBinaan) != "" {
			assigned, err = s.students.ListNISByGrade(ctx, strings.TrimSpace(*user.AngkatanBinaan))
			if err != nil {
				return models.AccessScope{}, err
			}
		}
		return models.AccessScope{StudentIDs: mergeNIS(assigned, extraNIS)}, nil

	default:
		s.logger.Warn("unknown role resolved to empty scope",
			zap.String("user_id", user.ID),
			zap.String("role", user.Role),
		)
		return models.AccessScope{StudentIDs: extraNIS}, nil
	}
}

func (s *ScopeService) guardianNIS(ctx context.Context, userID string) ([]string, error) {
	isGuardian, err := s.guardians.IsGuardian(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !isGuardian {
		return nil, nil
	}
	roster, err := s.guardians.ListByTeacher(ctx, userID)
	if err != nil {
		return nil, err
	}
	nis := make([]string, 0, len(roster))
	for _, g := range roster {
		nis = append(nis, g.NISSiswa)
	}
	return nis, nil
}

func trimmedList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func mergeNIS(lists ...[]string) []string {
	seen := make(map[string]struct{})
	var merged []string
	for _, list := range lists {
		for _, nis := range list {
			if _, ok := seen[nis]; ok {
				continue
			}
			seen[nis] = struct{}{}
			merged = append(merged, nis)
		}
	}
	return merged
}
