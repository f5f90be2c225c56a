package usecase

import "time"

// Event is a conversation timeline notification pushed to the operator feed.
type Event struct {
	Type           string    `json:"type"`
	CompanyID      int64     `json:"company_id"`
	ConversationID int64     `json:"conversation_id"`
	Phone          string    `json:"phone"`
	Actor          string    `json:"actor"`
	Body           string    `json:"body,omitempty"`
	At             time.Time `json:"at"`
}

// Publisher fans timeline events out to whoever is watching. Implementations
// must be non-blocking best-effort; a nil Publisher disables publishing.
type Publisher interface {
	Publish(event Event)
}
