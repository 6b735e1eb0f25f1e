package ai

import (
	"fmt"

	"sparlo-benchmark/internal/domain/model"
)

// engineeringPrompt is the system prompt for the baseline consultant run.
const engineeringPrompt = `You are a senior mechanical engineering consultant with 20+ years
of experience and deep expertise in TRIZ methodology. Your specialty is finding cross-domain
solutions — identifying mechanisms from unrelated industries that can solve novel engineering challenges.

Provide a comprehensive engineering research report:

## 1. Problem Analysis
- Core engineering contradiction
- Key constraints and success metrics
- Relevant TRIZ principles

## 2. Solution Concepts (6-10)
For each: Name, Mechanism (specific), Source Domain, Feasibility (H/M/L), Key Risks, First Test

## 3. Cross-Domain Opportunities
2-3 solutions from unrelated industries with explanation of the analogy

## 4. Recommendations
Top 2-3 to pursue, resources needed, 90-day timeline

Be specific, cite real examples, acknowledge uncertainty.`

// evaluationSchema tells the judge exactly which JSON object to produce. It
// mirrors the fields of model.Evaluation.
const evaluationSchema = `{
  "sparlo_scores": {"understanding": 1-10, "novelty": 1-10, "relevance": 1-10, "credibility": 1-10, "actionability": 1-10, "citations": 1-10},
  "baseline_scores": {"understanding": 1-10, "novelty": 1-10, "relevance": 1-10, "credibility": 1-10, "actionability": 1-10, "citations": 1-10},
  "scoring_rationale": {"understanding": "...", "novelty": "...", "relevance": "...", "credibility": "...", "actionability": "...", "citations": "..."},
  "winner": "sparlo" | "baseline" | "tie",
  "sparlo_strengths": "...",
  "baseline_strengths": "...",
  "key_insight": "...",
  "cross_domain_sparlo": <count>,
  "cross_domain_baseline": <count>,
  "cross_domain_list_sparlo": ["..."],
  "cross_domain_list_baseline": ["..."],
  "would_pay_for_sparlo": true | false,
  "would_pay_rationale": "...",
  "verdict_summary": "...",
  "notes": "..."
}`

// maxEvalInput caps each output fed to the judge, matching the original
// harness's truncation.
const maxEvalInput = 50000

func evaluationPrompt(c model.BenchmarkCase, sparloOut, baselineOut string) string {
	return fmt.Sprintf(`You are an expert engineering consultant evaluating two research outputs for the same problem.
Your evaluation must be thorough, evidence-based, and include specific quotes from each output.

METADATA:
- Segment: %s
- Summary: %s
- Prior Art Level: %s
- Domain Specificity: %s
- Contradiction Clarity: %s
- Sweetspot Prediction: %s
- Expected Grade: %s

PROBLEM:
%s

OUTPUT A (SPARLO):
%s

OUTPUT B (BASELINE):
%s

EVALUATION CRITERIA (Score 1-10 for each dimension):

1. **Understanding** - Did it correctly identify the core engineering contradiction?
2. **Novelty** - Did it surface ideas the user wouldn't easily find themselves?
3. **Relevance** - Are the solutions actually applicable to the stated problem?
4. **Credibility** - Would an experienced engineer take this seriously?
5. **Actionability** - Can the user pursue these solutions with the information given?
6. **Citations** - Are references credible and verifiable? Patent numbers, papers and named
   researchers score higher than generic references.

CROSS-DOMAIN ANALYSIS:
Count and list the distinct cross-domain sources each output draws on (different industries,
fields, or applications).

WOULD PAY $50+ ASSESSMENT:
Does the Sparlo output provide value beyond what a senior engineer could produce with 2 hours of
research?

VERDICT:
Determine the winner by total score and explain why in 2-4 sentences, citing specific evidence.

Respond with ONLY a single JSON object, no surrounding prose, exactly matching this shape:
%s`,
		c.Segment, c.ProblemSummary, c.PriorArt, c.DomainSpec, c.Contradiction,
		c.SweetspotPred, c.ExpectedGrade, c.ProblemText,
		truncate(sparloOut, maxEvalInput), truncate(baselineOut, maxEvalInput),
		evaluationSchema)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
