// File: internal/usecase/benchmark_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/adapter"
	"sparlo-benchmark/internal/domain/ports/repository"
	"sparlo-benchmark/internal/infra/logging"
	"sparlo-benchmark/internal/infra/metrics"
)

// autoAnswer is submitted when an unattended benchmark run hits a
// clarification that offers no structured options.
const autoAnswer = "Proceed with your best engineering judgment."

// Compile-time check
var _ BenchmarkUseCase = (*benchmarkUC)(nil)

// BenchmarkUseCase runs one problem through the full comparison: Sparlo
// pipeline (watched to a terminal status, clarifications auto-answered),
// baseline model, structured evaluation, persistence.
type BenchmarkUseCase interface {
	RunCase(ctx context.Context, c model.BenchmarkCase) (*model.BenchmarkResult, error)
}

type benchmarkUC struct {
	reports      adapter.ReportServiceAdapter
	baseline     adapter.BaselineModel
	evaluator    adapter.Evaluator
	results      repository.ResultsRepository
	archive      repository.ReportArchive
	pollInterval time.Duration
	watchTimeout time.Duration
	log          *zerolog.Logger
}

func NewBenchmarkUseCase(
	reports adapter.ReportServiceAdapter,
	baseline adapter.BaselineModel,
	evaluator adapter.Evaluator,
	results repository.ResultsRepository,
	archive repository.ReportArchive,
	pollInterval, watchTimeout time.Duration,
	log *zerolog.Logger,
) *benchmarkUC {
	return &benchmarkUC{
		reports:      reports,
		baseline:     baseline,
		evaluator:    evaluator,
		results:      results,
		archive:      archive,
		pollInterval: pollInterval,
		watchTimeout: watchTimeout,
		log:          log,
	}
}

func (b *benchmarkUC) RunCase(ctx context.Context, c model.BenchmarkCase) (*model.BenchmarkResult, error) {
	defer logging.TraceDuration(b.log, "BenchmarkUC.RunCase")()
	result := &model.BenchmarkResult{Case: c, CreatedAt: time.Now()}

	result.SparloReportID, result.Sparlo = b.runSparlo(ctx, c)
	result.Baseline = b.runBaseline(ctx, c)

	metrics.ObserveRunDuration("sparlo", string(result.Sparlo.Status), result.Sparlo.Duration.Seconds())
	metrics.ObserveRunDuration("baseline", string(result.Baseline.Status), result.Baseline.Duration.Seconds())

	if result.Sparlo.Status == model.RunStatusComplete && result.Baseline.Status == model.RunStatusComplete {
		eval, err := b.evaluator.Evaluate(ctx, c, result.Sparlo.Output, result.Baseline.Output)
		if err != nil {
			b.log.Error().Err(err).Str("case_id", c.ID).Msg("evaluation failed")
		} else {
			result.Evaluation = eval
			result.Evaluated = true
			metrics.IncBenchmarkVerdict(eval.Winner)
		}
	}

	if err := b.results.Append(ctx, result); err != nil {
		return result, fmt.Errorf("persist benchmark result: %w", err)
	}
	return result, nil
}

func (b *benchmarkUC) runSparlo(ctx context.Context, c model.BenchmarkCase) (string, model.RunOutput) {
	start := time.Now()
	out := model.RunOutput{Status: model.RunStatusError}

	reportID, err := b.reports.CreateReport(ctx, c.ProblemText)
	if err != nil {
		b.log.Error().Err(err).Str("case_id", c.ID).Msg("report creation failed")
		out.Duration = time.Since(start)
		return "", out
	}
	b.log.Info().Str("case_id", c.ID).Str("report_id", reportID).Msg("sparlo report created")

	clarify := NewClarifyUseCase(b.reports, reportID, b.log)
	watcher := NewWatcher(b.reports, reportID, b.pollInterval, b.watchTimeout, b.log)

	var final *model.Report
	for ev := range watcher.Watch(ctx) {
		if ev.Err != nil {
			if errors.Is(ev.Err, domain.ErrWatchTimeout) {
				out.Status = model.RunStatusTimeout
			} else {
				out.Status = model.RunStatusError
				out.Output = ev.Err.Error()
			}
			out.Duration = time.Since(start)
			return reportID, out
		}
		if ev.Phase == PhaseClarifying {
			b.answerPending(ctx, clarify, ev.Report)
		}
		if ev.Terminal {
			final = ev.Report
			break
		}
	}

	out.Duration = time.Since(start)
	if final == nil {
		out.Status = model.RunStatusTimeout
		return reportID, out
	}

	switch final.Status {
	case model.ReportStatusComplete:
		out.Status = model.RunStatusComplete
		out.Output = reportOutput(final)
		if err := b.archive.SaveReport(ctx, c.ID, final, out.Duration.Seconds()); err != nil {
			b.log.Warn().Err(err).Str("case_id", c.ID).Msg("report archive write failed")
		}
	default:
		if final.Refused() {
			b.log.Warn().Str("case_id", c.ID).Msg("pipeline refused the challenge")
		}
		out.Output = final.ErrorMessage
	}
	return reportID, out
}

// answerPending resolves a mid-run clarification without operator input:
// first structured option when one exists, a fixed freetext answer otherwise.
func (b *benchmarkUC) answerPending(ctx context.Context, clarify ClarifyUseCase, r *model.Report) {
	pending := r.PendingClarification()
	if pending == nil {
		return
	}
	b.log.Info().Str("report_id", r.ID).Str("question", pending.Question).Msg("auto-answering clarification")

	var err error
	if len(pending.Options) > 0 {
		err = clarify.SelectOption(ctx, pending.Options[0].Label)
	} else {
		err = clarify.Submit(ctx, autoAnswer)
	}
	if err != nil {
		// The next snapshot either re-raises the question or the run fails;
		// either way the watch loop decides.
		b.log.Warn().Err(err).Str("report_id", r.ID).Msg("auto-answer failed")
	}
}

func (b *benchmarkUC) runBaseline(ctx context.Context, c model.BenchmarkCase) model.RunOutput {
	start := time.Now()
	text, err := b.baseline.Generate(ctx, c.ProblemText)
	out := model.RunOutput{Duration: time.Since(start)}
	if err != nil {
		b.log.Error().Err(err).Str("case_id", c.ID).Msg("baseline run failed")
		out.Status = model.RunStatusError
		out.Output = err.Error()
		return out
	}
	out.Status = model.RunStatusComplete
	out.Output = text
	return out
}

// reportOutput extracts the finished report text. The payload nests the
// rendered report under "report"; older payloads are the report itself.
func reportOutput(r *model.Report) string {
	if r.ReportData == nil {
		return ""
	}
	if v, ok := r.ReportData["report"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return fmt.Sprint(r.ReportData)
}
