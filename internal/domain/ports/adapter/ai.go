package adapter

import (
	"context"

	"sparlo-benchmark/internal/domain/model"
)

// BaselineModel is the port for the single-shot consultant model that the
// Sparlo pipeline is benchmarked against.
type BaselineModel interface {
	// Generate produces the baseline engineering report for a problem.
	Generate(ctx context.Context, problemText string) (string, error)
}

// Evaluator is the port for the judge model that scores a Sparlo output
// against a baseline output for the same case.
type Evaluator interface {
	Evaluate(ctx context.Context, c model.BenchmarkCase, sparloOut, baselineOut string) (*model.Evaluation, error)
}
