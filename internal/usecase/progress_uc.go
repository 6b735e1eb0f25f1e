// File: internal/usecase/progress_uc.go
package usecase

import (
	"time"

	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/infra/metrics"
)

// Phase is the derived view state of a report in flight. It is never stored on
// the report itself; every snapshot is re-evaluated from scratch.
type Phase string

const (
	PhaseInitialReview Phase = "initial_review"
	PhaseMainAnalysis  Phase = "main_analysis"
	PhaseClarifying    Phase = "clarifying"
	PhaseComplete      Phase = "complete"
	PhaseFailed        Phase = "failed"
)

// Action is the side effect a snapshot evaluation asks the caller to perform.
// The caller consumes each action exactly once.
type Action int

const (
	ActionNone Action = iota
	// ActionNavigateHome is the AN0 bypass: the pipeline left initial review
	// without raising a clarification, so the wait screen short-circuits.
	ActionNavigateHome
	// ActionNavigateReport sends the caller to the finished report.
	ActionNavigateReport
)

func (a Action) String() string {
	switch a {
	case ActionNavigateHome:
		return "navigate_home"
	case ActionNavigateReport:
		return "navigate_report"
	default:
		return "none"
	}
}

// ProgressMachine folds report snapshots into a phase and at most one
// navigation action per report lifetime. Redundant re-delivery of a snapshot
// that satisfies a navigation trigger must not navigate twice, so the
// "already navigated" fact is machine state, not a condition re-check.
type ProgressMachine struct {
	phase     Phase
	navigated bool
}

func NewProgressMachine() *ProgressMachine {
	return &ProgressMachine{phase: PhaseInitialReview}
}

// Evaluate consumes one snapshot and returns the action it demands. Only the
// given snapshot's fields are consulted; nothing is merged across snapshots.
func (m *ProgressMachine) Evaluate(r *model.Report) Action {
	switch r.Status {
	case model.ReportStatusError, model.ReportStatusFailed:
		m.phase = PhaseFailed
		return ActionNone

	case model.ReportStatusComplete:
		m.phase = PhaseComplete
		return m.fire(ActionNavigateReport)
	}

	// processing or clarifying: a pending clarification always wins.
	if r.PendingClarification() != nil {
		m.phase = PhaseClarifying
		return ActionNone
	}

	if r.InInitialReview() {
		m.phase = PhaseInitialReview
		return ActionNone
	}

	m.phase = PhaseMainAnalysis
	if r.Status == model.ReportStatusProcessing {
		// Out of initial review with nothing pending: the backend decided no
		// clarification was needed, so the wait screen is bypassed.
		return m.fire(ActionNavigateHome)
	}
	return ActionNone
}

// fire consumes the one-shot navigation latch.
func (m *ProgressMachine) fire(a Action) Action {
	if m.navigated {
		return ActionNone
	}
	m.navigated = true
	metrics.IncNavigation(a.String())
	return a
}

func (m *ProgressMachine) Phase() Phase    { return m.phase }
func (m *ProgressMachine) Navigated() bool { return m.navigated }

// StatusRotationInterval is how often the main-analysis status line advances.
const StatusRotationInterval = 3 * time.Second

var analysisStatusMessages = []string{
	"Mapping the contradiction space",
	"Searching adjacent industries for working mechanisms",
	"Scoring candidate mechanisms against your constraints",
	"Checking patents and prior art",
	"Stress-testing feasibility assumptions",
	"Drafting solution concepts",
}

// StatusRotator cycles the short perceived-progress strings shown during main
// analysis. It never runs during initial review, and a reduced-motion
// preference pins it to the first message.
type StatusRotator struct {
	idx           int
	reducedMotion bool
}

func NewStatusRotator(reducedMotion bool) *StatusRotator {
	return &StatusRotator{reducedMotion: reducedMotion}
}

// Advance moves to the next message. No-op under reduced motion.
func (s *StatusRotator) Advance() {
	if s.reducedMotion {
		return
	}
	s.idx = (s.idx + 1) % len(analysisStatusMessages)
}

func (s *StatusRotator) Current() string {
	return analysisStatusMessages[s.idx]
}
