package auth

import (
	"errors"
	"fmt"
	"time"

	domain "github.com/example/taskboard/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token fails verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

// tokenKind separates the two token roles. Access tokens authenticate
// requests; refresh tokens may only mint new pairs.
type tokenKind string

const (
	kindAccess  tokenKind = "access"
	kindRefresh tokenKind = "refresh"
)

// identityClaims binds a signed token to an account. The account ID rides
// in the registered subject claim.
type identityClaims struct {
	Email string    `json:"email"`
	Kind  tokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing key and lifetimes for issued tokens.
type TokenConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// DefaultTokenConfig returns the development configuration. The secret
// must be overridden through the environment in production.
func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		Secret:     []byte("taskboard-dev-secret-change-me"),
		Issuer:     "taskboard",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// TokenIssuer mints and verifies the HS256 token pairs that carry account
// identity between requests.
type TokenIssuer struct {
	cfg TokenConfig
}

// NewTokenIssuer creates a TokenIssuer with the given configuration.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// IssuePair mints the access/refresh pair for a verified account.
func (i *TokenIssuer) IssuePair(userID string, email domain.Email) (*domain.TokenPair, error) {
	access, err := i.sign(userID, email, kindAccess, i.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := i.sign(userID, email, kindRefresh, i.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(i.cfg.AccessTTL.Seconds()),
		TokenType:    "Bearer",
	}, nil
}

func (i *TokenIssuer) sign(userID string, email domain.Email, kind tokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Email: email.String(),
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
}

// VerifyAccess checks an access token and returns the caller identity.
func (i *TokenIssuer) VerifyAccess(raw string) (*domain.Claims, error) {
	return i.verify(raw, kindAccess)
}

// VerifyRefresh checks a refresh token and returns the caller identity.
func (i *TokenIssuer) VerifyRefresh(raw string) (*domain.Claims, error) {
	return i.verify(raw, kindRefresh)
}

func (i *TokenIssuer) verify(raw string, want tokenKind) (*domain.Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &identityClaims{},
		func(*jwt.Token) (any, error) { return i.cfg.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*identityClaims)
	if !ok || !parsed.Valid || claims.Kind != want {
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
