package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/example/taskboard/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestService builds an AuthService backed by an in-memory database.
// Bcrypt runs at the minimum cost to keep the suite fast.
func newTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := NewUserRepository(db)
	hasher := &CredentialHasher{cost: 4}
	issuer := NewTokenIssuer(TokenConfig{
		Secret:     []byte("test-secret"),
		Issuer:     "test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	})

	return NewAuthService(repo, hasher, issuer)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "sup3rsecret", "Alice Smith")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if user.FullName != "Alice Smith" {
		t.Errorf("expected full name Alice Smith, got %q", user.FullName)
	}
	if user.PasswordHash == "sup3rsecret" {
		t.Error("password must be stored hashed")
	}
	if user.UpdatedAt != nil {
		t.Error("expected UpdatedAt to be nil for a fresh account")
	}

	tokens, err := svc.Login(ctx, "alice@example.com", "sup3rsecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if tokens.TokenType != "Bearer" {
		t.Errorf("expected Bearer token type, got %q", tokens.TokenType)
	}

	claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected claims for user %s, got %s", user.ID, claims.UserID)
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Frank@Example.COM ", "longenough", "Frank")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "frank@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}

	// Login matches regardless of the case the caller typed.
	if _, err := svc.Login(ctx, "FRANK@example.com", "longenough"); err != nil {
		t.Errorf("Login() with differently-cased email error = %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		fullName string
		wantErr  error
	}{
		{"invalid email", "not-an-email", "longenough", "A B", domain.ErrInvalidEmail},
		{"short password", "a@example.com", "short", "A B", domain.ErrWeakPassword},
		{"missing full name", "a@example.com", "longenough", "  ", domain.ErrFullNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.fullName)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob@example.com", "password1", "Bob"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register(ctx, "bob@example.com", "password2", "Bob Again")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists, got %v", err)
	}

	// A differently-cased duplicate normalizes to the same address.
	_, err = svc.Register(ctx, "BOB@example.com", "password3", "Bob Third")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("expected ErrUserExists for cased duplicate, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol@example.com", "rightpass", "Carol"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(ctx, "carol@example.com", "wrongpass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MalformedEmail(t *testing.T) {
	svc := newTestService(t)

	// A malformed address must look exactly like a failed login.
	_, err := svc.Login(context.Background(), "not-an-email", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_RefreshTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "dave@example.com", "password1", "Dave")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	tokens, err := svc.Login(ctx, "dave@example.com", "password1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	refreshed, err := svc.RefreshTokens(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshTokens() error = %v", err)
	}

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("expected refreshed claims for user %s, got %s", user.ID, claims.UserID)
	}

	// An access token must not be accepted as a refresh token.
	if _, err := svc.RefreshTokens(ctx, tokens.AccessToken); err == nil {
		t.Error("expected refresh with access token to fail")
	}
}

func TestAuthService_GetUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, "erin@example.com", "password1", "Erin")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	found, err := svc.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}
	if found.Email != "erin@example.com" {
		t.Errorf("expected email erin@example.com, got %q", found.Email)
	}

	_, err = svc.GetUser(ctx, "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
