package usecase

import (
	"context"
	"sync"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/adapter"
)

// ---- Fakes ----

// fakeReports serves a scripted sequence of snapshots; the last one repeats.
type fakeReports struct {
	mu        sync.Mutex
	snapshots []*model.Report
	getCalls  int
	getErr    error // when set, every GetReport fails with it

	createID  string
	createErr error

	answers    []string
	answerErr  error
	answerGate chan struct{} // when set, AnswerClarification blocks until closed

	streamFn func(ctx context.Context, reportID, message string) (<-chan adapter.StreamEvent, error)
}

func (f *fakeReports) CreateReport(ctx context.Context, designChallenge string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.createID == "" {
		return "report-1", nil
	}
	return f.createID, nil
}

func (f *fakeReports) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if len(f.snapshots) == 0 {
		return nil, domain.ErrNotFound
	}
	i := f.getCalls - 1
	if i >= len(f.snapshots) {
		i = len(f.snapshots) - 1
	}
	return f.snapshots[i], nil
}

func (f *fakeReports) AnswerClarification(ctx context.Context, reportID, answer string) error {
	if f.answerGate != nil {
		<-f.answerGate
	}
	if f.answerErr != nil {
		return f.answerErr
	}
	f.mu.Lock()
	f.answers = append(f.answers, answer)
	f.mu.Unlock()
	return nil
}

func (f *fakeReports) StreamChat(ctx context.Context, reportID, message string) (<-chan adapter.StreamEvent, error) {
	if f.streamFn != nil {
		return f.streamFn(ctx, reportID, message)
	}
	ch := make(chan adapter.StreamEvent)
	close(ch)
	return ch, nil
}

func (f *fakeReports) recordedAnswers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.answers))
	copy(out, f.answers)
	return out
}

type fakeBaseline struct {
	output string
	err    error
}

func (f *fakeBaseline) Generate(ctx context.Context, problemText string) (string, error) {
	return f.output, f.err
}

type fakeEvaluator struct {
	eval  *model.Evaluation
	err   error
	calls int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, c model.BenchmarkCase, sparloOut, baselineOut string) (*model.Evaluation, error) {
	f.calls++
	return f.eval, f.err
}

type memResults struct {
	mu   sync.Mutex
	rows []*model.BenchmarkResult
}

func (m *memResults) Append(ctx context.Context, r *model.BenchmarkResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, r)
	return nil
}

func (m *memResults) List(ctx context.Context) ([]*model.BenchmarkResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.BenchmarkResult(nil), m.rows...), nil
}

type memArchive struct {
	mu    sync.Mutex
	saved []string
}

func (m *memArchive) SaveReport(ctx context.Context, caseID string, report *model.Report, durationSec float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, caseID)
	return nil
}
