package model

import "time"

// RunStatus classifies the outcome of one side of a benchmark case.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusError    RunStatus = "error"
	RunStatusTimeout  RunStatus = "timeout"
)

// BenchmarkCase is one engineering problem submitted to both the Sparlo
// pipeline and the baseline model, together with the curation metadata the
// evaluator is given.
type BenchmarkCase struct {
	ID             string
	ProblemText    string
	Segment        string
	ProblemSummary string
	PriorArt       string
	DomainSpec     string
	Contradiction  string
	SweetspotPred  string
	ExpectedGrade  string
}

// RunOutput captures one side's raw output and timing.
type RunOutput struct {
	Output   string
	Status   RunStatus
	Duration time.Duration
}

// Scores holds the six 1-10 evaluation dimensions.
type Scores struct {
	Understanding int `json:"understanding"`
	Novelty       int `json:"novelty"`
	Relevance     int `json:"relevance"`
	Credibility   int `json:"credibility"`
	Actionability int `json:"actionability"`
	Citations     int `json:"citations"`
}

func (s Scores) Total() int {
	return s.Understanding + s.Novelty + s.Relevance + s.Credibility + s.Actionability + s.Citations
}

// Evaluation is the structured verdict produced by the evaluator model over a
// Sparlo output and a baseline output for the same case.
type Evaluation struct {
	SparloScores            Scores            `json:"sparlo_scores"`
	BaselineScores          Scores            `json:"baseline_scores"`
	ScoringRationale        map[string]string `json:"scoring_rationale"`
	Winner                  string            `json:"winner"` // "sparlo" | "baseline" | "tie"
	SparloStrengths         string            `json:"sparlo_strengths"`
	BaselineStrengths       string            `json:"baseline_strengths"`
	KeyInsight              string            `json:"key_insight"`
	CrossDomainSparlo       int               `json:"cross_domain_sparlo"`
	CrossDomainBaseline     int               `json:"cross_domain_baseline"`
	CrossDomainListSparlo   []string          `json:"cross_domain_list_sparlo"`
	CrossDomainListBaseline []string          `json:"cross_domain_list_baseline"`
	WouldPay                bool              `json:"would_pay_for_sparlo"`
	WouldPayRationale       string            `json:"would_pay_rationale"`
	VerdictSummary          string            `json:"verdict_summary"`
	Notes                   string            `json:"notes"`
}

// ScoreMargin is sparlo total minus baseline total.
func (e *Evaluation) ScoreMargin() int {
	return e.SparloScores.Total() - e.BaselineScores.Total()
}

// BenchmarkResult is the flat record persisted per case.
type BenchmarkResult struct {
	Case           BenchmarkCase
	CreatedAt      time.Time
	SparloReportID string
	Sparlo         RunOutput
	Baseline       RunOutput
	Evaluation     *Evaluation
	Evaluated      bool
}
