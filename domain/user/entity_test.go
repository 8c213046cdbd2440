package user

import (
	"errors"
	"testing"
)

func TestParseEmail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Email
		wantErr bool
	}{
		{"plain address", "alice@example.com", "alice@example.com", false},
		{"uppercase normalized", "Alice@Example.COM", "alice@example.com", false},
		{"surrounding whitespace", "  bob@example.com  ", "bob@example.com", false},
		{"missing domain", "alice@", "", true},
		{"not an address", "not-an-email", "", true},
		{"display name rejected", "Alice <alice@example.com>", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmail(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmail) {
					t.Errorf("ParseEmail(%q) error = %v, want ErrInvalidEmail", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEmail(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseEmail(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("ValidatePassword() error = %v for valid password", err)
	}
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}

	tooLong := make([]byte, MaxPasswordLen+1)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	if err := ValidatePassword(string(tooLong)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestNewUser(t *testing.T) {
	u, err := New("alice@example.com", "  Alice Smith  ", "hashed")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if u.ID == "" {
		t.Error("expected generated ID")
	}
	if u.FullName != "Alice Smith" {
		t.Errorf("expected trimmed full name, got %q", u.FullName)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if u.UpdatedAt != nil {
		t.Error("expected UpdatedAt to be nil before any mutation")
	}
}

func TestNewUser_FullNameRequired(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := New("alice@example.com", name, "hashed"); !errors.Is(err, ErrFullNameRequired) {
			t.Errorf("New() with name %q error = %v, want ErrFullNameRequired", name, err)
		}
	}
}

func TestUser_Rename(t *testing.T) {
	u, err := New("alice@example.com", "Alice", "hashed")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := u.Rename("Alice B. Smith"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if u.FullName != "Alice B. Smith" {
		t.Errorf("expected renamed account, got %q", u.FullName)
	}
	if u.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be stamped after rename")
	}

	if err := u.Rename("  "); !errors.Is(err, ErrFullNameRequired) {
		t.Errorf("Rename() error = %v, want ErrFullNameRequired", err)
	}
}
