package repository

import (
	"context"

	"sparlo-benchmark/internal/domain/model"
)

// ResultsRepository persists flat per-case benchmark records.
type ResultsRepository interface {
	// Append writes one result row, creating the store on first use.
	Append(ctx context.Context, r *model.BenchmarkResult) error

	// List returns all persisted results in insertion order.
	List(ctx context.Context) ([]*model.BenchmarkResult, error)
}

// ReportArchive stores the full report payload for later inspection,
// independent of the flat results row.
type ReportArchive interface {
	SaveReport(ctx context.Context, caseID string, report *model.Report, durationSec float64) error
}
