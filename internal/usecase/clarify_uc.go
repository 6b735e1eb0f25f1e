// File: internal/usecase/clarify_uc.go
package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/ports/adapter"
	"sparlo-benchmark/internal/infra/metrics"
)

// Compile-time check
var _ ClarifyUseCase = (*clarifyUC)(nil)

// ClarifyUseCase submits the answer for the single pending clarification of a
// report. At most one submission is in flight at a time; a second call while
// one is pending is rejected and callers treat that as a no-op. The handler
// never retries on its own: a failed attempt keeps the draft so the user can
// resubmit without retyping.
type ClarifyUseCase interface {
	Submit(ctx context.Context, answer string) error
	SelectOption(ctx context.Context, optionLabel string) error
	InFlight() bool
	Draft() string
	SetDraft(text string)
}

type clarifyUC struct {
	reports  adapter.ReportServiceAdapter
	reportID string
	log      *zerolog.Logger

	mu       sync.Mutex
	inFlight bool
	draft    string
}

func NewClarifyUseCase(reports adapter.ReportServiceAdapter, reportID string, log *zerolog.Logger) *clarifyUC {
	return &clarifyUC{reports: reports, reportID: reportID, log: log}
}

func (c *clarifyUC) Submit(ctx context.Context, answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return domain.ErrInvalidArgument
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	if err := c.reports.AnswerClarification(ctx, c.reportID, answer); err != nil {
		metrics.IncClarification("error")
		c.log.Error().Err(err).Str("report_id", c.reportID).Msg("clarification submission failed")
		return err
	}

	metrics.IncClarification("ok")
	c.log.Info().Str("report_id", c.reportID).Msg("clarification answered")

	// The next snapshot refresh reflects the answer; locally only the draft
	// is cleared.
	c.mu.Lock()
	c.draft = ""
	c.mu.Unlock()
	return nil
}

// SelectOption funnels a structured choice through the same submission path,
// with the option's label as the answer text.
func (c *clarifyUC) SelectOption(ctx context.Context, optionLabel string) error {
	return c.Submit(ctx, optionLabel)
}

func (c *clarifyUC) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

func (c *clarifyUC) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *clarifyUC) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}
