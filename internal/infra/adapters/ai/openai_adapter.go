// Package ai implements the baseline and evaluator ports on an
// OpenAI-compatible chat completions endpoint.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies both ports
var (
	_ adapter.BaselineModel = (*OpenAIAdapter)(nil)
	_ adapter.Evaluator     = (*OpenAIAdapter)(nil)
)

// OpenAIAdapter runs the baseline consultant report and the structured
// evaluation on a chat completions model. A custom base URL routes the same
// adapter to any OpenAI-compatible provider.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, modelName, baseURL string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if modelName == "" {
		modelName = "gpt-4o"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIAdapter{client: openai.NewClient(opts...), model: modelName}, nil
}

// Generate produces the baseline engineering report for a problem.
func (o *OpenAIAdapter) Generate(ctx context.Context, problemText string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.model),
		MaxCompletionTokens: openai.Int(8192),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(engineeringPrompt),
			openai.UserMessage(problemText),
		},
	})
	if err != nil {
		return "", fmt.Errorf("baseline completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("baseline completion: no choice content")
	}
	return resp.Choices[0].Message.Content, nil
}

// Evaluate scores a Sparlo output against a baseline output for one case.
func (o *OpenAIAdapter) Evaluate(ctx context.Context, c model.BenchmarkCase, sparloOut, baselineOut string) (*model.Evaluation, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.model),
		MaxCompletionTokens: openai.Int(8192),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(evaluationPrompt(c, sparloOut, baselineOut)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("evaluation completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("evaluation completion: no choices")
	}
	return decodeEvaluation(resp.Choices[0].Message.Content)
}

// decodeEvaluation parses the judge's JSON object, tolerating surrounding
// prose or code fences.
func decodeEvaluation(content string) (*model.Evaluation, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("evaluation response contains no JSON object")
	}

	var eval model.Evaluation
	if err := json.Unmarshal([]byte(content[start:end+1]), &eval); err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	if err := validateEvaluation(&eval); err != nil {
		return nil, err
	}
	return &eval, nil
}

func validateEvaluation(e *model.Evaluation) error {
	switch e.Winner {
	case "sparlo", "baseline", "tie":
	default:
		return fmt.Errorf("evaluation winner %q invalid", e.Winner)
	}
	for side, s := range map[string]model.Scores{"sparlo": e.SparloScores, "baseline": e.BaselineScores} {
		for dim, v := range map[string]int{
			"understanding": s.Understanding,
			"novelty":       s.Novelty,
			"relevance":     s.Relevance,
			"credibility":   s.Credibility,
			"actionability": s.Actionability,
			"citations":     s.Citations,
		} {
			if v < 1 || v > 10 {
				return fmt.Errorf("evaluation %s score %q out of range: %d", side, dim, v)
			}
		}
	}
	return nil
}
