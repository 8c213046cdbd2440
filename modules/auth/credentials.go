package auth

import (
	"fmt"

	domain "github.com/example/taskboard/domain/user"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hashing latency against brute-force resistance. 12 is
// roughly a quarter second per hash on current hardware.
const bcryptCost = 12

// CredentialHasher derives and checks bcrypt digests for account
// passwords. The domain password policy is enforced here so no caller can
// persist a hash of a password the policy would reject.
type CredentialHasher struct {
	cost int
}

// NewCredentialHasher creates a hasher at the production cost.
func NewCredentialHasher() *CredentialHasher {
	return &CredentialHasher{cost: bcryptCost}
}

// HashPassword validates the plaintext against the account policy and
// returns its bcrypt digest.
func (h *CredentialHasher) HashPassword(plain string) (string, error) {
	if err := domain.ValidatePassword(plain); err != nil {
		return "", err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether plain matches the stored digest.
func (h *CredentialHasher) CheckPassword(digest, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
