package user

import (
	"net/mail"
	"strings"
)

// Email is a normalized, validated email address. Accounts are keyed by
// it, so normalization happens once here rather than at every lookup.
type Email string

// ParseEmail validates and normalizes a raw address. The address must be
// bare (no display name) and is lowercased so lookups are case-insensitive.
func ParseEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", ErrInvalidEmail
	}
	return Email(strings.ToLower(addr.Address)), nil
}

// String returns the normalized address.
func (e Email) String() string {
	return string(e)
}

// Password length bounds. The upper bound is the bcrypt input limit.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

// ValidatePassword checks a plaintext password against the account policy.
func ValidatePassword(plain string) error {
	if len(plain) < MinPasswordLen {
		return ErrWeakPassword
	}
	if len(plain) > MaxPasswordLen {
		return ErrPasswordTooLong
	}
	return nil
}
