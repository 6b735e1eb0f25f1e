// Package sparlo is the HTTP adapter for the report pipeline API. The
// pipeline is an external collaborator: this client only creates reports,
// reads snapshots, answers clarifications, and opens chat streams.
package sparlo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/adapter"
)

const apiKeyHeader = "x-benchmark-api-key"

// Compile-time assurance this adapter satisfies the port
var _ adapter.ReportServiceAdapter = (*Client)(nil)

// Client talks to the benchmark surface of the report API.
type Client struct {
	api *resty.Client
	// stream has no client-level timeout: a chat stream stays open for as
	// long as the model keeps producing tokens, and is bounded by ctx instead.
	stream *resty.Client
	log    *zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	newClient := func() *resty.Client {
		c := resty.New()
		c.SetBaseURL(baseURL)
		c.SetHeader("Content-Type", "application/json")
		c.SetHeader(apiKeyHeader, apiKey)
		return c
	}

	api := newClient()
	api.SetTimeout(timeout)

	stream := newClient()
	stream.SetDoNotParseResponse(true)

	return &Client{api: api, stream: stream, log: log}
}

func (c *Client) CreateReport(ctx context.Context, designChallenge string) (string, error) {
	var out struct {
		ReportID string `json:"reportId"`
	}
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(map[string]string{"designChallenge": designChallenge}).
		SetResult(&out).
		Post("/api/benchmark/reports")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	if !resp.IsSuccess() {
		return "", apiError(resp)
	}
	if out.ReportID == "" {
		return "", fmt.Errorf("create report: empty report id in response")
	}
	return out.ReportID, nil
}

func (c *Client) GetReport(ctx context.Context, reportID string) (*model.Report, error) {
	var report model.Report
	resp, err := c.api.R().
		SetContext(ctx).
		SetResult(&report).
		Get("/api/benchmark/reports/" + reportID)
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", reportID, err)
	}
	if resp.StatusCode() == 404 {
		return nil, domain.ErrNotFound
	}
	if !resp.IsSuccess() {
		return nil, apiError(resp)
	}
	if report.ID == "" {
		report.ID = reportID
	}
	return &report, nil
}

func (c *Client) AnswerClarification(ctx context.Context, reportID, answer string) error {
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(map[string]string{"answer": answer}).
		Post("/api/benchmark/reports/" + reportID + "/clarification")
	if err != nil {
		return fmt.Errorf("answer clarification: %w", err)
	}
	if !resp.IsSuccess() {
		return apiError(resp)
	}
	return nil
}

// apiError converts a non-2xx resty response into a domain.APIError, pulling
// the server's error text and the Retry-After header when present.
func apiError(resp *resty.Response) error {
	msg := serverErrorText(resp.Body())

	retryAfter := 0
	if v := resp.Header().Get("Retry-After"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			retryAfter = n
		}
	}

	return &domain.APIError{
		StatusCode: resp.StatusCode(),
		Message:    msg,
		RetryAfter: retryAfter,
	}
}

// serverErrorText extracts {"error": "..."} bodies, falling back to the raw
// body trimmed to a sane length.
func serverErrorText(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
