package conversation

import (
	"errors"
	"strings"
	"time"
)

// Direction of a timeline entry relative to the contact.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Actor identifies who authored a timeline entry.
type Actor string

const (
	ActorContact Actor = "contact"
	ActorAI      Actor = "ai"
	ActorAgent   Actor = "agent"
)

// Message is an immutable timeline entry in a conversation, kept for audit
// purposes.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID int64     `db:"conversation_id"`
	Direction      Direction `db:"direction"`
	Actor          Actor     `db:"actor"`
	Body           string    `db:"body"`
	CreatedAt      time.Time `db:"created_at"`
}

var ErrEmptyMessage = errors.New("conversation: message body is empty")

// NewMessage validates and normalizes a timeline entry before persistence.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == 0 {
		return nil, errors.New("conversation: conversation_id is required")
	}
	m.Body = strings.TrimSpace(m.Body)
	if m.Body == "" {
		return nil, ErrEmptyMessage
	}
	if m.Direction == "" {
		m.Direction = DirectionIn
	}
	if m.Actor == "" {
		m.Actor = ActorContact
	}
	return &m, nil
}
