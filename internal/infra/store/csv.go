// Package store persists benchmark output: a flat CSV of per-case results and
// a directory of full report payloads.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/repository"
)

// csvColumns is the flat column set, one row per benchmark case.
var csvColumns = []string{
	"case_id", "created_at", "problem_text", "segment", "problem_summary",
	"prior_art", "domain_spec", "contradiction", "sweetspot_pred", "expected_grade",
	"sparlo_report_id", "sparlo_output", "baseline_output", "sparlo_status", "baseline_status",
	"sparlo_time_sec", "baseline_time_sec",
	"sparlo_understanding", "sparlo_novelty", "sparlo_relevance",
	"sparlo_credibility", "sparlo_actionability", "sparlo_citations", "sparlo_total",
	"baseline_understanding", "baseline_novelty", "baseline_relevance",
	"baseline_credibility", "baseline_actionability", "baseline_citations", "baseline_total",
	"winner", "score_margin", "sparlo_strengths", "baseline_strengths",
	"key_insight", "cross_domain_sparlo", "cross_domain_baseline",
	"cross_domain_list_sparlo", "cross_domain_list_baseline",
	"would_pay", "would_pay_rationale", "verdict_summary", "notes", "evaluated",
}

// Compile-time check
var _ repository.ResultsRepository = (*CSVResults)(nil)

// CSVResults is an append-only CSV results file. The header is written when
// the file is first created and never again.
type CSVResults struct {
	path string
	mu   sync.Mutex
}

func NewCSVResults(path string) *CSVResults {
	return &CSVResults{path: path}
}

func (s *CSVResults) Append(ctx context.Context, r *model.BenchmarkResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, statErr := os.Stat(s.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open results csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(csvColumns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	if err := w.Write(encodeRow(r)); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVResults) List(ctx context.Context) ([]*model.BenchmarkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open results csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read results csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	out := make([]*model.BenchmarkResult, 0, len(records)-1)
	for _, rec := range records[1:] {
		r, err := decodeRow(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func encodeRow(r *model.BenchmarkResult) []string {
	eval := r.Evaluation
	if eval == nil {
		eval = &model.Evaluation{}
	}
	return []string{
		r.Case.ID,
		r.CreatedAt.UTC().Format(time.RFC3339),
		r.Case.ProblemText,
		r.Case.Segment,
		r.Case.ProblemSummary,
		r.Case.PriorArt,
		r.Case.DomainSpec,
		r.Case.Contradiction,
		r.Case.SweetspotPred,
		r.Case.ExpectedGrade,
		r.SparloReportID,
		r.Sparlo.Output,
		r.Baseline.Output,
		string(r.Sparlo.Status),
		string(r.Baseline.Status),
		formatSeconds(r.Sparlo.Duration),
		formatSeconds(r.Baseline.Duration),
		itoa(eval.SparloScores.Understanding), itoa(eval.SparloScores.Novelty),
		itoa(eval.SparloScores.Relevance), itoa(eval.SparloScores.Credibility),
		itoa(eval.SparloScores.Actionability), itoa(eval.SparloScores.Citations),
		itoa(eval.SparloScores.Total()),
		itoa(eval.BaselineScores.Understanding), itoa(eval.BaselineScores.Novelty),
		itoa(eval.BaselineScores.Relevance), itoa(eval.BaselineScores.Credibility),
		itoa(eval.BaselineScores.Actionability), itoa(eval.BaselineScores.Citations),
		itoa(eval.BaselineScores.Total()),
		eval.Winner,
		itoa(eval.ScoreMargin()),
		eval.SparloStrengths,
		eval.BaselineStrengths,
		eval.KeyInsight,
		itoa(eval.CrossDomainSparlo),
		itoa(eval.CrossDomainBaseline),
		strings.Join(eval.CrossDomainListSparlo, "; "),
		strings.Join(eval.CrossDomainListBaseline, "; "),
		strconv.FormatBool(eval.WouldPay),
		eval.WouldPayRationale,
		eval.VerdictSummary,
		eval.Notes,
		strconv.FormatBool(r.Evaluated),
	}
}

func decodeRow(rec []string) (*model.BenchmarkResult, error) {
	if len(rec) != len(csvColumns) {
		return nil, fmt.Errorf("results csv row has %d fields, want %d", len(rec), len(csvColumns))
	}
	createdAt, _ := time.Parse(time.RFC3339, rec[1])

	r := &model.BenchmarkResult{
		Case: model.BenchmarkCase{
			ID:             rec[0],
			ProblemText:    rec[2],
			Segment:        rec[3],
			ProblemSummary: rec[4],
			PriorArt:       rec[5],
			DomainSpec:     rec[6],
			Contradiction:  rec[7],
			SweetspotPred:  rec[8],
			ExpectedGrade:  rec[9],
		},
		CreatedAt:      createdAt,
		SparloReportID: rec[10],
		Sparlo: model.RunOutput{
			Output:   rec[11],
			Status:   model.RunStatus(rec[13]),
			Duration: parseSeconds(rec[15]),
		},
		Baseline: model.RunOutput{
			Output:   rec[12],
			Status:   model.RunStatus(rec[14]),
			Duration: parseSeconds(rec[16]),
		},
		Evaluated: rec[44] == "true",
	}

	if r.Evaluated {
		r.Evaluation = &model.Evaluation{
			SparloScores: model.Scores{
				Understanding: atoi(rec[17]), Novelty: atoi(rec[18]), Relevance: atoi(rec[19]),
				Credibility: atoi(rec[20]), Actionability: atoi(rec[21]), Citations: atoi(rec[22]),
			},
			BaselineScores: model.Scores{
				Understanding: atoi(rec[24]), Novelty: atoi(rec[25]), Relevance: atoi(rec[26]),
				Credibility: atoi(rec[27]), Actionability: atoi(rec[28]), Citations: atoi(rec[29]),
			},
			Winner:              rec[31],
			SparloStrengths:     rec[33],
			BaselineStrengths:   rec[34],
			KeyInsight:          rec[35],
			CrossDomainSparlo:   atoi(rec[36]),
			CrossDomainBaseline: atoi(rec[37]),
			WouldPay:            rec[40] == "true",
			WouldPayRationale:   rec[41],
			VerdictSummary:      rec[42],
			Notes:               rec[43],
		}
		if rec[38] != "" {
			r.Evaluation.CrossDomainListSparlo = strings.Split(rec[38], "; ")
		}
		if rec[39] != "" {
			r.Evaluation.CrossDomainListBaseline = strings.Split(rec[39], "; ")
		}
	}
	return r, nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 1, 64)
}

func parseSeconds(s string) time.Duration {
	f, _ := strconv.ParseFloat(s, 64)
	return time.Duration(f * float64(time.Second))
}
