package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/config"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type authUserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}

// AuthService issues and validates JWT credentials.
type AuthService struct {
	users    authUserStore
	cfg      config.JWTConfig
	validate *validator.Validate
	now      func() time.Time
	logger   *zap.Logger
}

// NewAuthService builds an AuthService.
func NewAuthService(users authUserStore, cfg config.JWTConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		cfg:      cfg,
		validate: validator.New(),
		now:      time.Now,
		logger:   logger,
	}
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data login tidak valid")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal memuat pengguna")
	}
	if user == nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, appErrors.ErrInactiveAccount
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal membuat token")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	now := s.now()
	claims := models.JWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ParseToken validates a signed token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// CurrentUser loads the full profile behind a token.
func (s *AuthService) CurrentUser(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
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

// ChangePassword rotates the current user's password.
func (s *AuthService) ChangePassword(ctx context.Context, claims *models.JWTClaims, req models.ChangePasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "data kata sandi tidak valid")
	}
	user, err := s.CurrentUser(ctx, claims)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.OldPassword)); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "Kata sandi lama tidak cocok")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal mengamankan kata sandi")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hashed)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "gagal menyimpan kata sandi")
	}
	return nil
}
