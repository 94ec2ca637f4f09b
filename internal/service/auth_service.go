package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/auth"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/config"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/domain"
	"github.com/artemdali21-ship-it/shef-montazh-sub002/internal/repository"
	apperrors "github.com/artemdali21-ship-it/shef-montazh-sub002/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   tokens,
		bcryptCost: cfg.BcryptCost,
	}
}

// RegisterInput describes a self-service signup.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
}

// AuthResult is an account with a freshly issued access token.
type AuthResult struct {
	Account     *domain.Account
	AccessToken string
	Token       domain.Token
}

var selfServiceRoles = map[domain.UserRole]bool{
	domain.UserRoleWorker:    true,
	domain.UserRoleClient:    true,
	domain.UserRoleShiftLead: true,
}

// Register creates a marketplace account. Admin and system accounts are provisioned out of band.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if !selfServiceRoles[input.Role] {
		return nil, apperrors.NewValidationError("role cannot be self-registered", map[string]any{"role": input.Role})
	}
	if len(input.Password) < auth.MinPasswordLength {
		return nil, apperrors.NewValidationError("password too short", map[string]any{"min_length": auth.MinPasswordLength})
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return s.issue(account)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	return s.issue(account)
}

func (s *AuthService) issue(account *domain.Account) (*AuthResult, error) {
	raw, meta, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Account: account, AccessToken: raw, Token: meta}, nil
}
