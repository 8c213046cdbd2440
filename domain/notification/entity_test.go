package notification

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	n, err := New("user-1", "  Task assigned  ", " You were assigned T1 ", TypeTaskAssigned)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if n.ID == "" {
		t.Error("expected generated ID")
	}
	if n.Title != "Task assigned" {
		t.Errorf("expected trimmed title, got %q", n.Title)
	}
	if n.Message != "You were assigned T1" {
		t.Errorf("expected trimmed message, got %q", n.Message)
	}
	if n.Read {
		t.Error("expected new notification to be unread")
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		message string
		ntype   Type
		wantErr error
	}{
		{"empty title", "  ", "msg", TypeTaskUpdated, ErrTitleRequired},
		{"empty message", "title", "\t", TypeTaskUpdated, ErrMessageRequired},
		{"unknown type", "title", "msg", Type("spam"), ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New("user-1", tt.title, tt.message, tt.ntype); !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMarkReadUnread(t *testing.T) {
	n, _ := New("user-1", "t", "m", TypeProjectCreated)

	n.MarkRead()
	if !n.Read {
		t.Error("expected notification to be read")
	}

	n.MarkUnread()
	if n.Read {
		t.Error("expected notification to be unread")
	}
}
