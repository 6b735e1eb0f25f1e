package usecase

import (
	"context"
	"testing"
	"time"

	"sparlo-benchmark/internal/domain/model"
)

func benchCase() model.BenchmarkCase {
	return model.BenchmarkCase{
		ID:          "case-1",
		ProblemText: "Reduce thermal drift in a precision stage without active cooling.",
		Segment:     "precision-motion",
	}
}

func TestRunCaseHappyPath(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{
		processing(""),
		processing("main-1", pending("Which stage material?")),
		processing("main-2", answered("Which stage material?")),
		{ID: "report-1", Status: model.ReportStatusComplete, ReportData: map[string]any{"report": "sparlo report text"}},
	}}
	eval := &fakeEvaluator{eval: &model.Evaluation{
		Winner:       "sparlo",
		SparloScores: model.Scores{Understanding: 9, Novelty: 8, Relevance: 8, Credibility: 8, Actionability: 7, Citations: 8},
	}}
	results := &memResults{}
	archive := &memArchive{}

	uc := NewBenchmarkUseCase(f, &fakeBaseline{output: "baseline report text"}, eval,
		results, archive, time.Millisecond, time.Second, nop())

	res, err := uc.RunCase(context.Background(), benchCase())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Sparlo.Status != model.RunStatusComplete || res.Sparlo.Output != "sparlo report text" {
		t.Errorf("unexpected sparlo side: %+v", res.Sparlo)
	}
	if res.Baseline.Status != model.RunStatusComplete || res.Baseline.Output != "baseline report text" {
		t.Errorf("unexpected baseline side: %+v", res.Baseline)
	}
	if !res.Evaluated || res.Evaluation.Winner != "sparlo" {
		t.Errorf("expected evaluation recorded, got %+v", res.Evaluation)
	}
	if got := f.recordedAnswers(); len(got) != 1 {
		t.Fatalf("expected one auto-answered clarification, got %v", got)
	}
	if len(results.rows) != 1 {
		t.Errorf("expected one persisted row, got %d", len(results.rows))
	}
	if len(archive.saved) != 1 || archive.saved[0] != "case-1" {
		t.Errorf("expected archived report for case-1, got %v", archive.saved)
	}
}

func TestRunCaseOptionClarificationPicksFirstOption(t *testing.T) {
	withOptions := processing("main-1", model.Clarification{
		Question: "Pick a constraint to prioritize",
		Options: []model.ClarificationOption{
			{ID: "a", Label: "Minimize mass"},
			{ID: "b", Label: "Minimize cost"},
		},
	})
	f := &fakeReports{snapshots: []*model.Report{
		withOptions,
		{ID: "report-1", Status: model.ReportStatusComplete, ReportData: map[string]any{"report": "x"}},
	}}
	uc := NewBenchmarkUseCase(f, &fakeBaseline{output: "y"}, &fakeEvaluator{eval: &model.Evaluation{Winner: "tie"}},
		&memResults{}, &memArchive{}, time.Millisecond, time.Second, nop())

	if _, err := uc.RunCase(context.Background(), benchCase()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.recordedAnswers(); len(got) != 1 || got[0] != "Minimize mass" {
		t.Fatalf("expected first option label submitted, got %v", got)
	}
}

func TestRunCaseTimeoutRecorded(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{processing("main-1")}}
	eval := &fakeEvaluator{}
	uc := NewBenchmarkUseCase(f, &fakeBaseline{output: "y"}, eval,
		&memResults{}, &memArchive{}, time.Millisecond, 20*time.Millisecond, nop())

	res, err := uc.RunCase(context.Background(), benchCase())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sparlo.Status != model.RunStatusTimeout {
		t.Errorf("expected timeout status, got %v", res.Sparlo.Status)
	}
	if eval.calls != 0 {
		t.Error("evaluation must be skipped when a side did not complete")
	}
}

func TestRunCasePipelineFailureRecorded(t *testing.T) {
	f := &fakeReports{snapshots: []*model.Report{
		{ID: "report-1", Status: model.ReportStatusError, ErrorMessage: "I cannot assist with that request."},
	}}
	uc := NewBenchmarkUseCase(f, &fakeBaseline{output: "y"}, &fakeEvaluator{},
		&memResults{}, &memArchive{}, time.Millisecond, time.Second, nop())

	res, err := uc.RunCase(context.Background(), benchCase())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sparlo.Status != model.RunStatusError {
		t.Errorf("expected error status, got %v", res.Sparlo.Status)
	}
	if res.Sparlo.Output != "I cannot assist with that request." {
		t.Errorf("expected error message captured, got %q", res.Sparlo.Output)
	}
}
