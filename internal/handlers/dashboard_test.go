package handlers

import (
	"testing"
	"time"
)

func TestStartOfDayUsesLocalMidnight(t *testing.T) {
	zone := time.FixedZone("CST", -6*3600)
	now := time.Date(2026, 9, 1, 1, 30, 0, 0, zone)

	got := startOfDay(now)
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, zone)
	if !got.Equal(want) {
		t.Errorf("startOfDay = %v, want %v", got, want)
	}
	if got.Location() != zone {
		t.Errorf("location = %v, want %v", got.Location(), zone)
	}

	// Truncate on the same instant snaps to the UTC day boundary, which
	// is yesterday evening in this zone.
	if trunc := now.Truncate(24 * time.Hour); trunc.Equal(want) {
		t.Errorf("expected Truncate to differ from local midnight, got %v", trunc)
	}
}
