package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/crypto/bcrypt"

	"github.com/vietanh2810/pilgrim-api/internal/config"
	"github.com/vietanh2810/pilgrim-api/internal/domain"
	"github.com/vietanh2810/pilgrim-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/pilgrim-api/internal/repository"
)

// passwordPattern needs lookaheads, which the standard regexp package lacks.
const passwordPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

var passwordExp = regexp2.MustCompile(passwordPattern, regexp2.None)

var (
	ErrAdminEmailExists = repository.ErrAdminEmailExists
	ErrAdminNotFound    = repository.ErrAdminNotFound
	ErrWrongPassword    = errors.New("wrong password")
	ErrWeakPassword     = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	ErrInvalidToken     = jwthelper.ErrInvalidToken
)

type AdminRepository interface {
	Create(ctx context.Context, admin domain.Admin) (domain.Admin, error)
	FindByID(ctx context.Context, id uint) (domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (domain.Admin, error)
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type AuthService struct {
	repo AdminRepository
	conf *config.APIConfig
	now  func() time.Time
}

func NewAuthService(repo AdminRepository, conf *config.APIConfig) *AuthService {
	return &AuthService{
		repo: repo,
		conf: conf,
		now:  time.Now,
	}
}

func ValidatePassword(password string) error {
	ok, err := passwordExp.MatchString(password)
	if err != nil {
		return fmt.Errorf("passwordExp.MatchString -> %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %w", ErrValidation, ErrWeakPassword)
	}

	return nil
}

func (s *AuthService) CreateAdmin(ctx context.Context, email, name, password string) (domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(name) == "" {
		return domain.Admin{}, validationErr("email and name are required")
	}
	if err := ValidatePassword(password); err != nil {
		return domain.Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Admin{Email: email, Name: strings.TrimSpace(name), Password: string(hash)})
	if err != nil {
		return domain.Admin{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Admin, error) {
	admin, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return domain.Admin{}, ErrAdminNotFound
		}

		return domain.Admin{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return domain.Admin{}, ErrWrongPassword
	}

	return admin, nil
}

// IssueTokens signs a fresh access/refresh pair for adminID.
func (s *AuthService) IssueTokens(adminID uint, userAgent string) (TokenPair, error) {
	now := s.now()
	key := []byte(s.conf.JWTSigningKey)

	access, accessExp, err := jwthelper.GenerateToken(key, adminID, userAgent, jwthelper.TokenAccess, s.conf.AccessTokenTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwthelper.GenerateToken(access) -> %w", err)
	}
	refresh, refreshExp, err := jwthelper.GenerateToken(key, adminID, userAgent, jwthelper.TokenRefresh, s.conf.RefreshTokenTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("jwthelper.GenerateToken(refresh) -> %w", err)
	}

	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The admin must
// still exist.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, userAgent string) (TokenPair, domain.Admin, error) {
	claims, err := jwthelper.ParseToken([]byte(s.conf.JWTSigningKey), refreshToken, jwthelper.TokenRefresh)
	if err != nil {
		return TokenPair{}, domain.Admin{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	admin, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return TokenPair{}, domain.Admin{}, ErrInvalidToken
		}

		return TokenPair{}, domain.Admin{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	pair, err := s.IssueTokens(admin.ID, userAgent)
	if err != nil {
		return TokenPair{}, domain.Admin{}, err
	}

	return pair, admin, nil
}

func (s *AuthService) GetAdmin(ctx context.Context, id uint) (domain.Admin, error) {
	admin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return admin, nil
}
