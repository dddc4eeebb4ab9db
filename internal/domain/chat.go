package domain

import "time"

const (
	ChatHistoryLimit          = 100
	PersistedChatHistoryLimit = 50
)

type ChatMessageType string

const (
	ChatMessageTypeSystem ChatMessageType = "system"
	ChatMessageTypeUser   ChatMessageType = "user"
)

// ChatMessage is a system line or a user line. Username and Avatar are only
// set on user lines.
type ChatMessage struct {
	Type      ChatMessageType `json:"type"`
	Username  string          `json:"username,omitempty"`
	Avatar    string          `json:"avatar,omitempty"`
	Message   string          `json:"message"`
	Timestamp int64           `json:"timestamp"`
}

func NewSystemMessage(text string, at time.Time) ChatMessage {
	return ChatMessage{
		Type:      ChatMessageTypeSystem,
		Message:   text,
		Timestamp: at.UnixMilli(),
	}
}

func NewUserMessage(username, avatar, text string, at time.Time) ChatMessage {
	return ChatMessage{
		Type:      ChatMessageTypeUser,
		Username:  username,
		Avatar:    avatar,
		Message:   text,
		Timestamp: at.UnixMilli(),
	}
}

type Chat struct {
	history []ChatMessage
	limit   int
}

func NewChat(history []ChatMessage, limit int) *Chat {
	c := &Chat{limit: limit}
	for _, msg := range history {
		c.Add(msg)
	}

	return c
}

func (c Chat) Length() int {
	return len(c.history)
}

func (c *Chat) Add(msg ChatMessage) {
	c.history = append(c.history, msg)
	if len(c.history) > c.limit {
		trimmed := make([]ChatMessage, c.limit)
		copy(trimmed, c.history[len(c.history)-c.limit:])
		c.history = trimmed
	}
}

// Last returns a copy of at most n most recent messages.
func (c Chat) Last(n int) []ChatMessage {
	start := 0
	if len(c.history) > n {
		start = len(c.history) - n
	}

	history := make([]ChatMessage, len(c.history)-start)
	copy(history, c.history[start:])

	return history
}
