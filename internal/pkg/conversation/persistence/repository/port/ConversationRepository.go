package repository

import (
	"context"
	"errors"
	"time"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
)

// ErrNotFound is returned when a lookup finds no conversation row.
var ErrNotFound = errors.New("conversation not found")

// LockResult reports the outcome of a cooldown or suppression write. Both
// values come from the store's own clock, never the client's.
type LockResult struct {
	ConversationID  int64
	CooldownMinutes int
	NextAllowedAt   time.Time
}

// ConversationRepository defines persistence operations for the conversation
// store. The store is the single source of truth: all time comparisons are
// anchored on its clock, and every mutation that must be race-free (upsert on
// first contact, monotonic human-block extension) is a single atomic statement.
type ConversationRepository interface {
	GetByID(ctx context.Context, id int64) (*conversation.Conversation, error)

	// GetByCompanyPhoneWithNow fetches the conversation together with the
	// store's current instant, read in the same query so gating decisions
	// never mix clocks. Returns ErrNotFound when no row exists.
	GetByCompanyPhoneWithNow(ctx context.Context, companyID int64, phone string) (*conversation.Conversation, time.Time, error)

	// UpsertOnInbound creates the conversation on first contact or refreshes
	// last-message bookkeeping on an existing one. Idempotent under concurrent
	// first messages for the same (company, phone).
	UpsertOnInbound(ctx context.Context, companyID int64, phone string, name *string, body string) (*conversation.Conversation, error)

	// Lock sets ai_last_reply_at = now() and ai_next_allowed_at = now() +
	// minutes, establishing the next gating deadline after an AI reply.
	Lock(ctx context.Context, id int64, minutes int) (*LockResult, error)

	// Suppress sets ai_next_allowed_at = now() + minutes for the company+phone
	// pair regardless of any prior AI reply.
	Suppress(ctx context.Context, companyID int64, phone string, minutes int) (*LockResult, error)

	// ExtendHumanBlock records a human agent reply: creates the conversation if
	// absent and advances ai_next_allowed_at to GREATEST(current, now() +
	// human_block_minutes) in one statement so concurrent extensions never
	// retreat the deadline. Lookup is by phone alone; the inbox platform does
	// not carry a company id at this boundary.
	ExtendHumanBlock(ctx context.Context, phone string, name *string, body string) (*conversation.Conversation, error)

	AppendMessage(ctx context.Context, m conversation.Message) (int64, error)
}
