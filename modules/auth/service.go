package auth

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/example/taskboard/domain/user"
)

// ErrInvalidCredentials is returned for a failed login. The message never
// distinguishes an unknown email from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService implements registration, login and token lifecycle on top of
// the account repository.
type AuthService struct {
	repo   *UserRepository
	hasher *CredentialHasher
	tokens *TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *CredentialHasher, tokens *TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new account. Email normalization and password policy
// live in the domain; the hasher re-checks the policy before hashing.
func (s *AuthService) Register(ctx context.Context, rawEmail, password, fullName string) (*domain.User, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	passwordHash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := domain.New(email, fullName, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, rawEmail, password string) (*domain.TokenPair, error) {
	email, err := domain.ParseEmail(rawEmail)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.IssuePair(user.ID, user.Email)
}

// RefreshTokens trades a valid refresh token for a fresh pair. The account
// must still exist.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.tokens.IssuePair(user.ID, user.Email)
}

// ValidateToken verifies an access token and returns the caller identity.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*domain.Claims, error) {
	return s.tokens.VerifyAccess(token)
}

// GetUser retrieves an account by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}
