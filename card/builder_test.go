package card

import (
	"testing"

	"github.com/google/uuid"
)

func TestBuilder_Defaults(t *testing.T) {
	m, err := NewBuilder(1, 2, uuid.New()).Build()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if m.Uses() != 0 {
		t.Errorf("Expected zero uses by default, got %d", m.Uses())
	}
	if m.CreatedAt().IsZero() || m.UpdatedAt().IsZero() {
		t.Error("Expected timestamps to be initialized")
	}
}

func TestBuilder_Validation(t *testing.T) {
	if _, err := NewBuilder(0, 2, uuid.New()).Build(); err == nil {
		t.Error("Expected error for zero card id")
	}
	if _, err := NewBuilder(1, 2, uuid.Nil).Build(); err == nil {
		t.Error("Expected error for nil tenant id")
	}
}
