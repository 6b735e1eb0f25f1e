// File: internal/usecase/watch_uc.go
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/adapter"
	"sparlo-benchmark/internal/infra/metrics"
)

// WatchEvent is one observation from the watch loop. Snapshot events carry
// the report, the phase the machine derived from it, and the navigation
// action (if any) that snapshot fired. The final event has Terminal or Err
// set; the channel is closed right after it.
type WatchEvent struct {
	Report   *model.Report
	Phase    Phase
	Action   Action
	Terminal bool
	Err      error
}

// Watcher polls the report service and folds every snapshot through a
// ProgressMachine, in arrival order. It is the only owner of its machine.
type Watcher struct {
	reports  adapter.ReportServiceAdapter
	reportID string
	interval time.Duration
	timeout  time.Duration
	log      *zerolog.Logger
	machine  *ProgressMachine
}

func NewWatcher(reports adapter.ReportServiceAdapter, reportID string, interval, timeout time.Duration, log *zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		reports:  reports,
		reportID: reportID,
		interval: interval,
		timeout:  timeout,
		log:      log,
		machine:  NewProgressMachine(),
	}
}

// Watch starts the poll loop. The returned channel closes when the report
// reaches a terminal status, the timeout elapses, or ctx is cancelled, so the
// consuming view can always tear down without leaking the timer.
func (w *Watcher) Watch(ctx context.Context) <-chan WatchEvent {
	out := make(chan WatchEvent, 8)

	go func() {
		defer close(out)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		var deadline <-chan time.Time
		if w.timeout > 0 {
			timer := time.NewTimer(w.timeout)
			defer timer.Stop()
			deadline = timer.C
		}

		// First snapshot immediately; the view must not sit blank for a full
		// poll interval.
		if done := w.poll(ctx, out); done {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-deadline:
				w.log.Warn().Str("report_id", w.reportID).Msg("watch timed out")
				select {
				case out <- WatchEvent{Err: domain.ErrWatchTimeout}:
				case <-ctx.Done():
				}
				return
			case <-ticker.C:
				if done := w.poll(ctx, out); done {
					return
				}
			}
		}
	}()

	return out
}

// poll fetches one snapshot and publishes it. Returns true when the loop
// should stop.
func (w *Watcher) poll(ctx context.Context, out chan<- WatchEvent) bool {
	report, err := w.reports.GetReport(ctx, w.reportID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		if errors.Is(err, domain.ErrNotFound) {
			// The id does not exist; no amount of polling changes that.
			metrics.IncReportPoll("not_found")
			w.log.Error().Str("report_id", w.reportID).Msg("report does not exist")
			select {
			case out <- WatchEvent{Err: err}:
			case <-ctx.Done():
			}
			return true
		}
		// Transient read failures are logged and retried on the next tick,
		// exactly like a dropped poll.
		metrics.IncReportPoll("error")
		w.log.Warn().Err(err).Str("report_id", w.reportID).Msg("report status read failed")
		return false
	}
	metrics.IncReportPoll(string(report.Status))

	action := w.machine.Evaluate(report)
	ev := WatchEvent{
		Report:   report,
		Phase:    w.machine.Phase(),
		Action:   action,
		Terminal: report.Terminal(),
	}

	w.log.Debug().
		Str("report_id", w.reportID).
		Str("status", string(report.Status)).
		Str("step", report.CurrentStep).
		Str("phase", string(ev.Phase)).
		Msg("report snapshot")

	select {
	case out <- ev:
	case <-ctx.Done():
		return true
	}
	return ev.Terminal
}

// WaitForTerminal drains a watch channel and returns the terminal snapshot.
// A closed channel without a terminal event means the watch was cancelled or
// timed out.
func WaitForTerminal(events <-chan WatchEvent) (*model.Report, error) {
	var last *model.Report
	for ev := range events {
		if ev.Err != nil {
			return last, ev.Err
		}
		last = ev.Report
		if ev.Terminal {
			return ev.Report, nil
		}
	}
	if last == nil {
		return nil, domain.ErrWatchTimeout
	}
	return last, domain.ErrWatchTimeout
}
