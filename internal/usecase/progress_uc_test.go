package usecase

import (
	"testing"

	"sparlo-benchmark/internal/domain/model"
)

func answered(q string) model.Clarification {
	a := "answered"
	return model.Clarification{Question: q, Answer: &a}
}

func pending(q string) model.Clarification {
	return model.Clarification{Question: q}
}

func processing(step string, cs ...model.Clarification) *model.Report {
	return &model.Report{ID: "r1", Status: model.ReportStatusProcessing, CurrentStep: step, Clarifications: cs}
}

func TestCompleteNavigatesExactlyOnce(t *testing.T) {
	m := NewProgressMachine()

	done := &model.Report{ID: "r1", Status: model.ReportStatusComplete}
	if got := m.Evaluate(done); got != ActionNavigateReport {
		t.Fatalf("first complete snapshot: expected navigate report, got %v", got)
	}
	// The backend may re-deliver the same terminal snapshot.
	for i := 0; i < 3; i++ {
		if got := m.Evaluate(done); got != ActionNone {
			t.Fatalf("re-delivered snapshot %d: expected none, got %v", i, got)
		}
	}
	if m.Phase() != PhaseComplete {
		t.Errorf("expected complete phase, got %v", m.Phase())
	}
}

func TestInitialReviewBypass(t *testing.T) {
	m := NewProgressMachine()

	if got := m.Evaluate(processing("")); got != ActionNone {
		t.Fatalf("initial review: expected none, got %v", got)
	}
	if m.Phase() != PhaseInitialReview {
		t.Fatalf("expected initial review phase, got %v", m.Phase())
	}

	// Leaving AN0 with no pending clarification bypasses the wait screen.
	if got := m.Evaluate(processing("main-1")); got != ActionNavigateHome {
		t.Fatalf("expected navigate home, got %v", got)
	}
	if m.Phase() != PhaseMainAnalysis {
		t.Errorf("expected main analysis phase, got %v", m.Phase())
	}
	if got := m.Evaluate(processing("main-2")); got != ActionNone {
		t.Errorf("second main snapshot: expected none, got %v", got)
	}

	// The joint latch also covers the later completion.
	if got := m.Evaluate(&model.Report{Status: model.ReportStatusComplete}); got != ActionNone {
		t.Errorf("completion after bypass: expected no second navigation, got %v", got)
	}
}

func TestAN0StepPrefixCountsAsInitialReview(t *testing.T) {
	m := NewProgressMachine()
	if got := m.Evaluate(processing("an0_initial_review")); got != ActionNone {
		t.Fatalf("expected none, got %v", got)
	}
	if m.Phase() != PhaseInitialReview {
		t.Errorf("expected initial review for an0 step, got %v", m.Phase())
	}
}

func TestPendingClarificationWinsOverStep(t *testing.T) {
	m := NewProgressMachine()

	if got := m.Evaluate(processing("main-1", pending("Which alloy?"))); got != ActionNone {
		t.Fatalf("expected none while clarifying, got %v", got)
	}
	if m.Phase() != PhaseClarifying {
		t.Fatalf("expected clarifying phase, got %v", m.Phase())
	}
	if m.Navigated() {
		t.Fatal("clarifying snapshot must not consume the navigation latch")
	}

	// Answered: machine unblocks on the next snapshot.
	if got := m.Evaluate(processing("main-1", answered("Which alloy?"))); got != ActionNavigateHome {
		t.Errorf("expected bypass after answer, got %v", got)
	}
}

func TestClarifyingStatusWithoutPendingIsProcessing(t *testing.T) {
	m := NewProgressMachine()
	r := &model.Report{
		Status:         model.ReportStatusClarifying,
		CurrentStep:    "main-1",
		Clarifications: []model.Clarification{answered("q")},
	}
	m.Evaluate(r)
	if m.Phase() != PhaseMainAnalysis {
		t.Errorf("answered clarification should unblock, got %v", m.Phase())
	}
}

func TestFailureIsTerminalWithoutNavigation(t *testing.T) {
	m := NewProgressMachine()
	for _, status := range []model.ReportStatus{model.ReportStatusError, model.ReportStatusFailed} {
		if got := m.Evaluate(&model.Report{Status: status, ErrorMessage: "boom"}); got != ActionNone {
			t.Errorf("status %s: expected none, got %v", status, got)
		}
		if m.Phase() != PhaseFailed {
			t.Errorf("status %s: expected failed phase, got %v", status, m.Phase())
		}
	}
}

func TestRefusalDetection(t *testing.T) {
	r := &model.Report{
		Status:       model.ReportStatusFailed,
		ErrorMessage: "I cannot assist with the design of this device.",
	}
	if !r.Refused() {
		t.Error("expected refusal subtype")
	}

	r.ErrorMessage = "pipeline stage crashed"
	if r.Refused() {
		t.Error("generic failure misclassified as refusal")
	}

	r.Status = model.ReportStatusComplete
	r.ErrorMessage = "cannot assist with"
	if r.Refused() {
		t.Error("non-failed status can never be a refusal")
	}
}

func TestStatusRotator(t *testing.T) {
	s := NewStatusRotator(false)
	first := s.Current()
	s.Advance()
	if s.Current() == first {
		t.Error("expected rotation to advance")
	}
	for i := 0; i < len(analysisStatusMessages)-1; i++ {
		s.Advance()
	}
	if s.Current() != first {
		t.Error("expected rotation to wrap around")
	}
}

func TestStatusRotatorReducedMotion(t *testing.T) {
	s := NewStatusRotator(true)
	first := s.Current()
	for i := 0; i < 5; i++ {
		s.Advance()
	}
	if s.Current() != first {
		t.Error("reduced motion must suppress rotation")
	}
}
