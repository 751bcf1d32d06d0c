package billing

import (
	"errors"
	"regexp"
	"testing"
	"time"
)

var numberPattern = regexp.MustCompile(`^\d{8}$`)

func TestRandomNumberFormat(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 200; i++ {
		number, err := RandomNumber(now)
		if err != nil {
			t.Fatalf("RandomNumber: %v", err)
		}
		if !numberPattern.MatchString(number) {
			t.Fatalf("number %q does not match YYNNNNNN", number)
		}
		if number[:2] != "26" {
			t.Fatalf("number %q does not start with year 26", number)
		}
	}
}

func TestUniqueNumberRetriesOnCollision(t *testing.T) {
	now := time.Now()
	calls := 0
	exists := func(number string) (bool, error) {
		calls++
		return calls <= 3, nil // first three draws collide
	}

	number, err := UniqueNumber(now, exists)
	if err != nil {
		t.Fatalf("UniqueNumber: %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 existence checks, got %d", calls)
	}
	if !numberPattern.MatchString(number) {
		t.Errorf("number %q does not match YYNNNNNN", number)
	}
}

func TestUniqueNumberGivesUp(t *testing.T) {
	always := func(number string) (bool, error) { return true, nil }

	_, err := UniqueNumber(time.Now(), always)
	if !errors.Is(err, ErrNumberSpaceExhausted) {
		t.Fatalf("expected ErrNumberSpaceExhausted, got %v", err)
	}
}

func TestUniqueNumberPropagatesStoreError(t *testing.T) {
	boom := errors.New("db down")
	failing := func(number string) (bool, error) { return false, boom }

	_, err := UniqueNumber(time.Now(), failing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
