package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewItem(t *testing.T) {
	t.Parallel()

	item, err := NewItem(" 勉強 ", "べんきょう", "study", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if item.ID == uuid.Nil {
		t.Error("Expected non-nil UUID")
	}
	if item.Term != "勉強" {
		t.Errorf("Expected trimmed term, got %q", item.Term)
	}
	if item.Category != DefaultCategory {
		t.Errorf("Expected default category, got %q", item.Category)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}

	if _, err := NewItem("", "", "study", "n5"); err != ErrItemTermEmpty {
		t.Errorf("Expected %v, got %v", ErrItemTermEmpty, err)
	}
	if _, err := NewItem("勉強", "", "  ", "n5"); err != ErrItemMeaningEmpty {
		t.Errorf("Expected %v, got %v", ErrItemMeaningEmpty, err)
	}
}
