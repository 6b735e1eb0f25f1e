// File: internal/usecase/elapsed.go
package usecase

import "time"

// ElapsedTracker reports whole seconds since a report was created. The value
// is always derived from the wall clock against the fixed creation timestamp,
// never from an in-memory counter, so a restarted view continues from the true
// elapsed value instead of zero.
type ElapsedTracker struct {
	createdAt time.Time
	now       func() time.Time
}

func NewElapsedTracker(createdAt time.Time) *ElapsedTracker {
	return &ElapsedTracker{createdAt: createdAt, now: time.Now}
}

// Seconds returns the elapsed whole seconds, clamped at zero when the
// creation timestamp sits ahead of the local clock.
func (t *ElapsedTracker) Seconds() int {
	d := t.now().Sub(t.createdAt)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
