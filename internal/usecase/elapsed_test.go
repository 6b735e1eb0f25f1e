package usecase

import (
	"testing"
	"time"
)

func TestElapsedFirstReadIsWallClockDerived(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewElapsedTracker(base.Add(-125 * time.Second))
	tr.now = func() time.Time { return base }

	if got := tr.Seconds(); got != 125 {
		t.Fatalf("expected 125 on first read, got %d", got)
	}
}

func TestElapsedContinuityAcrossRemount(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := createdAt.Add(125 * time.Second)

	tr := NewElapsedTracker(createdAt)
	tr.now = func() time.Time { return clock }
	if got := tr.Seconds(); got != 125 {
		t.Fatalf("expected 125, got %d", got)
	}

	// A remount constructs a fresh tracker from the same creation timestamp.
	clock = clock.Add(10 * time.Second)
	tr2 := NewElapsedTracker(createdAt)
	tr2.now = func() time.Time { return clock }
	if got := tr2.Seconds(); got != 135 {
		t.Fatalf("expected 135 after remount, got %d", got)
	}
}

func TestElapsedClampsClockSkew(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := NewElapsedTracker(base.Add(30 * time.Second))
	tr.now = func() time.Time { return base }

	if got := tr.Seconds(); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}
