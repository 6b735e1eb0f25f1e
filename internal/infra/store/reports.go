package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.ReportArchive = (*ReportDir)(nil)

// ReportDir archives complete report payloads as one JSON file per case,
// alongside the flat CSV row.
type ReportDir struct {
	dir string
}

func NewReportDir(dir string) *ReportDir {
	return &ReportDir{dir: dir}
}

type archivedReport struct {
	CaseID          string         `json:"benchmark_id"`
	SparloReportID  string         `json:"sparlo_report_id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	DurationSeconds float64        `json:"duration_seconds"`
	Status          string         `json:"status"`
	Title           string         `json:"title"`
	ReportData      map[string]any `json:"report_data"`
}

func (s *ReportDir) SaveReport(ctx context.Context, caseID string, report *model.Report, durationSec float64) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(archivedReport{
		CaseID:          caseID,
		SparloReportID:  report.ID,
		GeneratedAt:     time.Now().UTC(),
		DurationSeconds: durationSec,
		Status:          string(report.Status),
		Title:           report.Title,
		ReportData:      report.ReportData,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal archived report: %w", err)
	}

	path := filepath.Join(s.dir, caseID+"_sparlo.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archived report: %w", err)
	}
	return nil
}
