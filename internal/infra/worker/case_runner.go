// File: internal/infra/worker/case_runner.go
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/infra/logging"
	"sparlo-benchmark/internal/usecase"
)

// CaseRunner fans a list of benchmark cases out over the pool and collects
// the per-case results. Each case is an independent end-to-end run; a failed
// case never stops the batch.
type CaseRunner struct {
	bench usecase.BenchmarkUseCase
	log   *zerolog.Logger
}

func NewCaseRunner(bench usecase.BenchmarkUseCase, log *zerolog.Logger) *CaseRunner {
	return &CaseRunner{bench: bench, log: log}
}

// Run submits every case to the pool and blocks until all have finished or
// the context is cancelled. Results come back in case order; a case that
// could not be submitted or persisted still produces an entry.
func (r *CaseRunner) Run(ctx context.Context, pool *Pool, cases []model.BenchmarkCase) []*model.BenchmarkResult {
	results := make([]*model.BenchmarkResult, len(cases))
	var wg sync.WaitGroup

	for i, c := range cases {
		i, c := i, c
		wg.Add(1)
		err := pool.Submit(func(ctx context.Context) error {
			defer wg.Done()
			results[i] = r.runOne(ctx, c)
			return nil
		})
		if err != nil {
			// Saturated queue: run inline rather than dropping the case.
			r.log.Warn().Err(err).Str("case_id", c.ID).Msg("pool submit failed, running inline")
			results[i] = r.runOne(ctx, c)
			wg.Done()
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	return results
}

func (r *CaseRunner) runOne(ctx context.Context, c model.BenchmarkCase) *model.BenchmarkResult {
	ctx = logging.WithCaseID(ctx, c.ID)
	log := logging.With(ctx, r.log)

	start := time.Now()
	log.Info().Msg("benchmark case started")

	res, err := r.bench.RunCase(ctx, c)
	if err != nil {
		log.Error().Err(err).Msg("benchmark case failed")
	}
	if res == nil {
		res = &model.BenchmarkResult{Case: c, CreatedAt: start}
	}
	log.Info().
		Str("sparlo_status", string(res.Sparlo.Status)).
		Str("baseline_status", string(res.Baseline.Status)).
		Bool("evaluated", res.Evaluated).
		Dur("duration", time.Since(start)).
		Msg("benchmark case finished")
	return res
}
