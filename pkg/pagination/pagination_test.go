package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if NormalizeLimit(0) != DefaultLimit {
		t.Fatal("zero should fall back to default")
	}
	if NormalizeLimit(-5) != DefaultLimit {
		t.Fatal("negative should fall back to default")
	}
	if NormalizeLimit(10) != 10 {
		t.Fatal("in-range limit should pass through")
	}
	if NormalizeLimit(MaxLimit+1) != MaxLimit {
		t.Fatal("limit should be capped at max")
	}
	if LimitWithBuffer(10) != 11 {
		t.Fatal("buffer should add one")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(original))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed == nil {
		t.Fatal("expected cursor")
	}
	if !parsed.CreatedAt.Equal(original.CreatedAt) || parsed.ID != original.ID {
		t.Fatalf("round trip mismatch: %+v", parsed)
	}
}

func TestParseCursorEmptyReturnsNil(t *testing.T) {
	parsed, err := ParseCursor("  ")
	if err != nil || parsed != nil {
		t.Fatalf("blank cursor should be nil/nil, got %+v, %v", parsed, err)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}
