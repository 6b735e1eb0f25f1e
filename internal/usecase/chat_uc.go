// File: internal/usecase/chat_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/domain/ports/adapter"
	"sparlo-benchmark/internal/infra/metrics"
)

// Compile-time check
var _ ChatUseCase = (*chatUC)(nil)

const genericChatError = "Something went wrong while answering. Please try again."

// ChatUseCase is the follow-up conversation about one report. A single
// submission may be in flight per session; SubmitMessage blocks until the
// assistant turn is finalized (stream end, failure, or cancellation) and never
// returns an error for stream-level failures - those land on the affected
// message instead.
type ChatUseCase interface {
	// SubmitMessage sends a user turn. No-op when the trimmed text is empty
	// or a stream is already running.
	SubmitMessage(ctx context.Context, text string) error
	// CancelStream aborts the in-flight assistant turn, keeping the partial
	// content already streamed.
	CancelStream()
	Messages() []model.ChatMessage
	IsLoading() bool
}

type chatUC struct {
	reports  adapter.ReportServiceAdapter
	reportID string
	log      *zerolog.Logger

	mu       sync.Mutex
	messages []model.ChatMessage
	loading  bool
	cancel   context.CancelFunc
	onChange func()
}

// NewChatUseCase creates a chat session for the given report. onChange, when
// non-nil, is invoked after every transcript mutation so a UI can repaint; it
// runs with no locks held.
func NewChatUseCase(reports adapter.ReportServiceAdapter, reportID string, log *zerolog.Logger, onChange func()) *chatUC {
	return &chatUC{
		reports:  reports,
		reportID: reportID,
		log:      log,
		messages: make([]model.ChatMessage, 0, 8),
		onChange: onChange,
	}
}

func (c *chatUC) SubmitMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true

	streamCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.messages = append(c.messages, model.NewUserMessage(uuid.NewString(), text))
	c.messages = append(c.messages, model.NewAssistantMessage(uuid.NewString()))
	idx := len(c.messages) - 1
	c.mu.Unlock()
	c.notify()

	defer func() {
		cancel()
		c.mu.Lock()
		c.loading = false
		c.cancel = nil
		c.mu.Unlock()
		c.notify()
	}()

	events, err := c.reports.StreamChat(streamCtx, c.reportID, text)
	if err != nil {
		c.failMessage(idx, chatErrorText(err))
		return nil
	}

	for ev := range events {
		switch {
		case ev.Err != nil:
			if errors.Is(ev.Err, context.Canceled) {
				// Expected result of user cancellation, not a failure.
				c.finalizeCancelled(idx)
				return nil
			}
			c.failMessage(idx, chatErrorText(ev.Err))
			return nil
		case ev.Done:
			c.finalizeMessage(idx)
			return nil
		default:
			c.appendChunk(idx, ev.Text)
		}
	}

	// Channel closed without a done event: treat as a natural end.
	c.finalizeMessage(idx)
	return nil
}

func (c *chatUC) CancelStream() {
	// Mark the streaming turn before aborting the transport so a chunk racing
	// the abort can never mutate the message again.
	c.mu.Lock()
	for i := range c.messages {
		if c.messages[i].IsStreaming {
			c.messages[i].IsStreaming = false
			c.messages[i].Cancelled = true
		}
	}
	cancel := c.cancel
	c.mu.Unlock()
	c.notify()

	if cancel != nil {
		cancel()
	}
}

func (c *chatUC) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *chatUC) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *chatUC) appendChunk(idx int, text string) {
	c.mu.Lock()
	if c.messages[idx].Cancelled {
		c.mu.Unlock()
		return
	}
	c.messages[idx].Content += text
	c.mu.Unlock()
	metrics.IncStreamChunk()
	c.notify()
}

func (c *chatUC) finalizeMessage(idx int) {
	c.mu.Lock()
	c.messages[idx].IsStreaming = false
	c.mu.Unlock()
	c.notify()
}

func (c *chatUC) finalizeCancelled(idx int) {
	c.mu.Lock()
	c.messages[idx].IsStreaming = false
	c.messages[idx].Cancelled = true
	c.mu.Unlock()
	c.notify()
}

// failMessage attaches the error to the assistant turn, keeping whatever
// partial content already streamed.
func (c *chatUC) failMessage(idx int, msg string) {
	c.mu.Lock()
	cancelled := c.messages[idx].Cancelled
	if !cancelled {
		c.messages[idx].IsStreaming = false
		c.messages[idx].Error = msg
	}
	c.mu.Unlock()
	if !cancelled {
		c.log.Warn().Str("report_id", c.reportID).Str("error", msg).Msg("chat stream failed")
	}
	c.notify()
}

func (c *chatUC) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// chatErrorText converts a transport failure into the text shown on the
// assistant message.
func chatErrorText(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		if apiErr.RateLimited() {
			metrics.IncRateLimited()
			return fmt.Sprintf("You're sending messages too quickly. Please wait %s and try again.", waitHint(apiErr.RetryAfter))
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return genericChatError
}

// waitHint renders a Retry-After value in seconds as a human wait time. Zero
// means the server sent no header.
func waitHint(seconds int) string {
	if seconds <= 0 {
		return "a few minutes"
	}
	minutes := (seconds + 59) / 60
	if minutes <= 1 {
		return "about 1 minute"
	}
	return fmt.Sprintf("about %d minutes", minutes)
}
