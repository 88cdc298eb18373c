package postgres

import (
	"database/sql"
	"testing"
	"time"
)

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows should classify as not found")
	}
	if isNotFound(sql.ErrConnDone) {
		t.Fatal("other errors should not classify as not found")
	}
}

func TestNullableHelpers(t *testing.T) {
	t.Parallel()

	if got := nullInt64ToPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for invalid NullInt64, got=%v", got)
	}
	if got := nullInt64ToPtr(sql.NullInt64{Int64: 9, Valid: true}); got == nil || *got != 9 {
		t.Fatalf("expected 9, got=%v", got)
	}

	if got := nullIntToPtr(sql.NullInt64{Int64: 4, Valid: true}); got == nil || *got != 4 {
		t.Fatalf("expected 4, got=%v", got)
	}

	if got := nullStringToPtr(sql.NullString{String: "w", Valid: true}); got == nil || *got != "w" {
		t.Fatalf("expected w, got=%v", got)
	}
	if got := nullStringToPtr(sql.NullString{}); got != nil {
		t.Fatalf("expected nil, got=%v", got)
	}

	now := time.Now()
	if got := nullTimeToTimePtr(sql.NullTime{Time: now, Valid: true}); got == nil || !got.Equal(now) {
		t.Fatalf("expected %v, got=%v", now, got)
	}

	if got := nullBoolToPtr(sql.NullBool{Bool: true, Valid: true}); got == nil || !*got {
		t.Fatalf("expected true, got=%v", got)
	}
}
