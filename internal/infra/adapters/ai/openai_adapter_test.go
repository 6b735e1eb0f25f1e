package ai

import (
	"strings"
	"testing"

	"sparlo-benchmark/internal/domain/model"
)

const validEvalJSON = `{
	"sparlo_scores": {"understanding": 9, "novelty": 8, "relevance": 8, "credibility": 7, "actionability": 7, "citations": 8},
	"baseline_scores": {"understanding": 7, "novelty": 5, "relevance": 7, "credibility": 7, "actionability": 6, "citations": 4},
	"winner": "sparlo",
	"cross_domain_sparlo": 4,
	"cross_domain_baseline": 1,
	"cross_domain_list_sparlo": ["Medical blood warmers", "Laboratory hot plates"],
	"would_pay_for_sparlo": true,
	"verdict_summary": "Sparlo cited specific patents."
}`

func TestDecodeEvaluation(t *testing.T) {
	eval, err := decodeEvaluation(validEvalJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Winner != "sparlo" {
		t.Errorf("winner = %q", eval.Winner)
	}
	if got := eval.SparloScores.Total(); got != 47 {
		t.Errorf("sparlo total = %d, want 47", got)
	}
	if got := eval.ScoreMargin(); got != 11 {
		t.Errorf("score margin = %d, want 11", got)
	}
	if !eval.WouldPay {
		t.Error("would_pay_for_sparlo not decoded")
	}
}

func TestDecodeEvaluationToleratesFences(t *testing.T) {
	fenced := "Here is the evaluation:\n```json\n" + validEvalJSON + "\n```\n"
	if _, err := decodeEvaluation(fenced); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeEvaluationRejectsBadWinner(t *testing.T) {
	bad := strings.Replace(validEvalJSON, `"winner": "sparlo"`, `"winner": "claude"`, 1)
	if _, err := decodeEvaluation(bad); err == nil {
		t.Fatal("expected invalid winner to be rejected")
	}
}

func TestDecodeEvaluationRejectsOutOfRangeScore(t *testing.T) {
	bad := strings.Replace(validEvalJSON, `"understanding": 9`, `"understanding": 0`, 1)
	if _, err := decodeEvaluation(bad); err == nil {
		t.Fatal("expected out-of-range score to be rejected")
	}
}

func TestDecodeEvaluationNoJSON(t *testing.T) {
	if _, err := decodeEvaluation("the winner is sparlo"); err == nil {
		t.Fatal("expected error for prose-only response")
	}
}

func TestEvaluationPromptCarriesCaseMetadata(t *testing.T) {
	c := model.BenchmarkCase{
		Segment:       "thermal",
		ProblemText:   "keep the stage at 20C",
		ExpectedGrade: "A",
	}
	p := evaluationPrompt(c, "sparlo out", "baseline out")
	for _, want := range []string{"thermal", "keep the stage at 20C", "OUTPUT A (SPARLO)", "OUTPUT B (BASELINE)"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEvaluationPromptTruncatesHugeOutputs(t *testing.T) {
	huge := strings.Repeat("x", maxEvalInput+500)
	p := evaluationPrompt(model.BenchmarkCase{}, huge, "short")
	if strings.Contains(p, huge) {
		t.Error("expected oversized output to be truncated")
	}
}
