package sparlo

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"sparlo-benchmark/internal/domain"
	"sparlo-benchmark/internal/domain/ports/adapter"
	"sparlo-benchmark/internal/infra/sse"
)

// StreamChat opens the chat event stream for a report. A non-2xx response is
// returned synchronously as a domain.APIError; after that, stream-level
// failures arrive as the final event on the channel. Cancelling ctx aborts
// the read and surfaces context.Canceled.
func (c *Client) StreamChat(ctx context.Context, reportID, message string) (<-chan adapter.StreamEvent, error) {
	resp, err := c.stream.R().
		SetContext(ctx).
		SetBody(map[string]string{"message": message}).
		Post("/api/benchmark/reports/" + reportID + "/chat")
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w", err)
	}

	raw := resp.RawBody()
	code := resp.RawResponse.StatusCode
	if code < 200 || code > 299 {
		body, _ := io.ReadAll(io.LimitReader(raw, 4096))
		_ = raw.Close()

		retryAfter := 0
		if v := resp.RawResponse.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		return nil, &domain.APIError{
			StatusCode: code,
			Message:    serverErrorText(body),
			RetryAfter: retryAfter,
		}
	}

	out := make(chan adapter.StreamEvent, 16)
	go c.readStream(ctx, raw, out)
	return out, nil
}

func (c *Client) readStream(ctx context.Context, body io.ReadCloser, out chan<- adapter.StreamEvent) {
	defer close(out)
	defer body.Close()

	var dec sse.Decoder
	buf := make([]byte, 4096)

	for {
		n, err := body.Read(buf)
		if n > 0 {
			for _, ev := range dec.Feed(buf[:n]) {
				switch ev.Kind {
				case sse.EventDone:
					out <- adapter.StreamEvent{Done: true}
					return
				case sse.EventText:
					select {
					case out <- adapter.StreamEvent{Text: ev.Text}:
					case <-ctx.Done():
						out <- adapter.StreamEvent{Err: context.Canceled}
						return
					}
				}
			}
		}
		if err != nil {
			switch {
			case ctx.Err() != nil:
				out <- adapter.StreamEvent{Err: context.Canceled}
			case err == io.EOF:
				// Server closed without a done sentinel; the consumer
				// finalizes what it has.
				c.log.Debug().Msg("chat stream ended without done sentinel")
			default:
				out <- adapter.StreamEvent{Err: fmt.Errorf("read chat stream: %w", err)}
			}
			return
		}
	}
}
