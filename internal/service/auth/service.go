// Package auth registers and logs in users and issues, validates and revokes
// their bearer tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/logger"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	"storefront/internal/validation"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = domain.NewError(domain.ErrUnauthorized, "invalid token")
	ErrTokenExpired = domain.NewError(domain.ErrUnauthorized, "token expired")
	ErrTokenRevoked = domain.NewError(domain.ErrUnauthorized, "token revoked")
)

// Service handles registration, login and token checks.
type Service struct {
	users  userrepo.Repository
	tokens *tokenManager
	logger *zap.Logger
}

func New(users userrepo.Repository, revocations tokenrepo.Repository, secret string, ttl time.Duration, l *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:  users,
		tokens: newTokenManager(secret, ttl, revocations),
		logger: logger.OrNop(l),
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,strongpassword"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register creates a USER account and returns it with a fresh token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u, err := s.users.Create(ctx, domain.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Role:         domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", domain.NewError(domain.ErrAlreadyExists, "email already registered")
		}
		return nil, "", err
	}
	token, err := s.tokens.Issue(u, 0)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID))
	return u, token, nil
}

// Login validates credentials and returns the user with an issued token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, string, error) {
	if err := validation.Struct(in); err != nil {
		return nil, "", err
	}
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u, 0)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate returns the claims of a valid, unrevoked token.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	return s.tokens.Validate(ctx, raw)
}

// Me returns the user behind the claims.
func (s *Service) Me(ctx context.Context, c *Claims) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, c.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// Logout revokes the token the claims were read from.
func (s *Service) Logout(ctx context.Context, c *Claims) error {
	if err := s.tokens.Revoke(ctx, c); err != nil {
		return err
	}
	s.logger.Info("token revoked", zap.String("user_id", c.UserID), zap.String("jti", c.ID))
	return nil
}

// IssueToken signs a token for an existing user; ttl <= 0 uses the default.
func (s *Service) IssueToken(ctx context.Context, email string, ttl time.Duration) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(u, ttl)
}

// EnsureAdmin creates an ADMIN account, or promotes and re-keys an existing
// one with the same email.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if err := s.users.UpdatePassword(ctx, existing.ID, string(hashed)); err != nil {
			return nil, err
		}
		if err := s.users.SetRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
			return nil, err
		}
		return s.users.GetByID(ctx, existing.ID)
	case errors.Is(err, domain.ErrNotFound):
		return s.users.Create(ctx, domain.User{
			Email:        in.Email,
			PasswordHash: string(hashed),
			Name:         in.Name,
			Role:         domain.RoleAdmin,
		})
	default:
		return nil, err
	}
}

// SetRole changes the role of the user with the given email.
func (s *Service) SetRole(ctx context.Context, email, role string) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, domain.NewValidationError("role", "must be one of: USER ADMIN")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, u.ID, role); err != nil {
		return nil, err
	}
	u.Role = role
	return u, nil
}

// PurgeRevocations drops revocation rows for tokens that have expired.
func (s *Service) PurgeRevocations(ctx context.Context) (int64, error) {
	return s.tokens.repo.PurgeExpired(ctx, s.tokens.now())
}
