package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account in the identity module. Task and project entities
// reference users only by opaque identifier and never consult this table.
// The entity owns its timestamps: UpdatedAt stays nil until the first
// mutation.
type User struct {
	ID           string     `gorm:"primaryKey;type:text"`
	Email        Email      `gorm:"uniqueIndex;not null;type:text"`
	FullName     string     `gorm:"not null;type:text"`
	PasswordHash string     `gorm:"not null;type:text"`
	CreatedAt    time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt    *time.Time `gorm:"autoUpdateTime:false"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// New creates an account from a validated email and an already-hashed
// password. Hashing lives in the auth module; the entity never sees a
// plaintext password.
func New(email Email, fullName, passwordHash string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, ErrFullNameRequired
	}

	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Rename changes the account's display name.
func (u *User) Rename(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return ErrFullNameRequired
	}
	u.FullName = fullName
	u.touch()
	return nil
}

func (u *User) touch() {
	now := time.Now().UTC()
	u.UpdatedAt = &now
}

// TokenPair carries the access and refresh tokens issued for an account.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims is the authenticated caller identity extracted from a verified
// token.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
