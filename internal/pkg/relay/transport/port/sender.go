package port

import "context"

// Sender delivers one text message to a WhatsApp contact. Phone is already
// normalized to bare digits; adapters apply their own wire formatting.
type Sender interface {
	// Send delivers text to phone. Implementations return an error describing
	// the upstream failure; callers map it to a gateway error.
	Send(ctx context.Context, phone string, text string) error

	// Name identifies the backing gateway for logs and responses.
	Name() string
}
