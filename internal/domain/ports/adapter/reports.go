package adapter

import (
	"context"

	"sparlo-benchmark/internal/domain/model"
)

// StreamEvent is one decoded chunk of a report chat stream. Exactly one of
// Text, Done, or Err is meaningful per event; the Done/Err event is always the
// last one delivered.
type StreamEvent struct {
	Text string
	Done bool
	Err  error
}

// ReportServiceAdapter is the port to the Sparlo analysis pipeline. The
// pipeline itself is opaque: the client only ever creates a report, reads
// point-in-time snapshots, answers the pending clarification, and chats about
// the result.
type ReportServiceAdapter interface {
	// CreateReport submits a design challenge and returns the new report id.
	CreateReport(ctx context.Context, designChallenge string) (string, error)

	// GetReport returns the latest snapshot of the report.
	GetReport(ctx context.Context, reportID string) (*model.Report, error)

	// AnswerClarification submits the answer for the currently pending
	// clarification. Safe to retry with the same answer.
	AnswerClarification(ctx context.Context, reportID, answer string) error

	// StreamChat sends a chat message about the report and returns a channel
	// of decoded stream events. The channel is closed after the Done or Err
	// event. Cancelling ctx aborts the underlying transport.
	StreamChat(ctx context.Context, reportID, message string) (<-chan StreamEvent, error)
}
