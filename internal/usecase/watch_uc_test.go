package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/model"
)

func collect(events <-chan WatchEvent) []WatchEvent {
	var out []WatchEvent
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func TestWatchRunsToCompletion(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{
		processing(""),
		processing("main-1"),
		{ID: "r1", Status: model.ReportStatusComplete, ReportData: map[string]any{"report": "done"}},
	}}
	w := NewWatcher(f, "r1", 5*time.Millisecond, time.Second, nop())

	events := collect(w.Watch(context.Background()))
	if len(events) != 3 {
		t.Fatalf("expected 3 snapshot events, got %d", len(events))
	}
	if events[0].Phase != PhaseInitialReview {
		t.Errorf("first event: expected initial review, got %v", events[0].Phase)
	}
	if events[1].Action != ActionNavigateHome {
		t.Errorf("second event: expected bypass action, got %v", events[1].Action)
	}
	last := events[2]
	if !last.Terminal || last.Report.Status != model.ReportStatusComplete {
		t.Errorf("expected terminal complete event, got %+v", last)
	}
	// The bypass consumed the latch, so completion carries no action.
	if last.Action != ActionNone {
		t.Errorf("expected no second navigation, got %v", last.Action)
	}
}

func TestWatchStopsOnTerminalFailure(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{
		{ID: "r1", Status: model.ReportStatusFailed, ErrorMessage: "stage crashed"},
	}}
	w := NewWatcher(f, "r1", 5*time.Millisecond, time.Second, nop())

	events := collect(w.Watch(context.Background()))
	if len(events) != 1 || !events[0].Terminal {
		t.Fatalf("expected single terminal event, got %v", events)
	}
	if events[0].Phase != PhaseFailed {
		t.Errorf("expected failed phase, got %v", events[0].Phase)
	}
}

func TestWatchTimeout(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{processing("main-1")}}
	w := NewWatcher(f, "r1", time.Millisecond, 20*time.Millisecond, nop())

	_, err := WaitForTerminal(w.Watch(context.Background()))
	if !errors.Is(err, domain.ErrWatchTimeout) {
		t.Fatalf("expected ErrWatchTimeout, got %v", err)
	}
}

func TestWatchTeardownOnContextCancel(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{processing("")}}
	w := NewWatcher(f, "r1", time.Millisecond, 0, nop())

	ctx, cancel := context.WithCancel(context.Background())
	events := w.Watch(ctx)
	<-events // first snapshot
	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return // channel closed, no leaked loop
			}
		case <-deadline:
			t.Fatal("watch channel not closed after context cancel")
		}
	}
}

func TestWatchToleratesReadFailures(t *testing.T) {
	f := &fakeReports{getErr: errors.New("backend hiccup")}
	w := NewWatcher(f, "r1", time.Millisecond, 15*time.Millisecond, nop())

	events := collect(w.Watch(context.Background()))
	if len(events) != 1 || !errors.Is(events[0].Err, domain.ErrWatchTimeout) {
		t.Fatalf("expected only the timeout event, got %v", events)
	}
}

func TestWatchFailsFastOnUnknownReport(t *testing.T) {
	f := &fakeReports{} // no snapshots: every read is ErrNotFound
	w := NewWatcher(f, "no-such-report", time.Millisecond, time.Minute, nop())

	events := collect(w.Watch(context.Background()))
	if len(events) != 1 || !errors.Is(events[0].Err, domain.ErrNotFound) {
		t.Fatalf("expected a single not-found event, got %v", events)
	}
	if calls := f.getCalls; calls != 1 {
		t.Fatalf("expected one read before giving up, got %d", calls)
	}
}
