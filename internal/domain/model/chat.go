package model

import "time"

// ChatRole distinguishes the two sides of a report conversation.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn in a follow-up conversation about a report. User
// messages are created complete. Assistant messages start empty with
// IsStreaming set, grow as stream chunks arrive, and are finalized either by
// the stream end sentinel or by user cancellation.
type ChatMessage struct {
	ID          string
	Role        ChatRole
	Content     string
	IsStreaming bool
	Cancelled   bool
	Error       string
	Timestamp   time.Time
}

// NewUserMessage creates an immutable user turn.
func NewUserMessage(id, content string) ChatMessage {
	return ChatMessage{
		ID:        id,
		Role:      ChatRoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an empty streaming assistant turn.
func NewAssistantMessage(id string) ChatMessage {
	return ChatMessage{
		ID:          id,
		Role:        ChatRoleAssistant,
		IsStreaming: true,
		Timestamp:   time.Now(),
	}
}
