package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/sust-hall/hall-service/internal/domain"
	"github.com/sust-hall/hall-service/internal/repository"
	apperrors "github.com/sust-hall/hall-service/pkg/util/errorutil"
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Compare(hashed, plain string) error
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(user *domain.User) (string, time.Time, error)
}

// AuthService exchanges credentials for access tokens.
type AuthService struct {
	users    repository.UserRepository
	verifier PasswordVerifier
	tokens   TokenIssuer
	logger   *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Verifier PasswordVerifier
	Tokens   TokenIssuer
	Logger   *zap.Logger
}

// LoginResult carries the issued token with the authenticated user.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		verifier: deps.Verifier,
		tokens:   deps.Tokens,
		logger:   logger,
	}
}

// Login authenticates by email and password. Only APPROVED accounts receive
// a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized := domain.NormalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.verifier.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.IsApproved() {
		s.logger.Info("login refused", zap.String("user_id", user.ID), zap.String("status", string(user.AccountStatus)))
		return nil, apperrors.NewForbidden("account is " + string(user.AccountStatus))
	}

	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}
