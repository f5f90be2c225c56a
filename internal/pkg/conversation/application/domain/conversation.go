package conversation

import "time"

const (
	// MinCooldownMinutes is the defensive floor applied wherever a cooldown or
	// human-block value is read for decision-making. Stored values below the
	// floor are left untouched.
	MinCooldownMinutes = 5

	DefaultCooldownMinutes   = 120
	DefaultHumanBlockMinutes = 60

	StatusOpen = "open"
)

// Conversation is the per-contact, per-company state record tracking AI and
// human reply timing. Rows are keyed by (company_id, phone) with phone stored
// digits-only; they are created lazily on first inbound message or first
// detected human reply, never pre-provisioned.
type Conversation struct {
	ID        int64   `db:"id"`
	CompanyID int64   `db:"company_id"`
	Phone     string  `db:"phone"`
	Name      *string `db:"name"`
	Status    string  `db:"status"`

	AIEnabled         bool       `db:"ai_enabled"`
	AICooldownMinutes int        `db:"ai_cooldown_minutes"`
	AINextAllowedAt   *time.Time `db:"ai_next_allowed_at"`
	AILastReplyAt     *time.Time `db:"ai_last_reply_at"`

	HumanLastReplyAt  *time.Time `db:"human_last_reply_at"`
	HumanBlockMinutes int        `db:"human_block_minutes"`

	LastMessageAt   *time.Time `db:"last_message_at"`
	LastMessageText *string    `db:"last_message_text"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// EffectiveCooldownMinutes clamps the stored cooldown to the floor.
func (c *Conversation) EffectiveCooldownMinutes() int {
	if c.AICooldownMinutes < MinCooldownMinutes {
		return MinCooldownMinutes
	}
	return c.AICooldownMinutes
}

// EffectiveHumanBlockMinutes clamps the stored human-block window. A zero (or
// negative) value disables human blocking entirely; any positive value below
// the floor is raised to it.
func (c *Conversation) EffectiveHumanBlockMinutes() int {
	if c.HumanBlockMinutes <= 0 {
		return 0
	}
	if c.HumanBlockMinutes < MinCooldownMinutes {
		return MinCooldownMinutes
	}
	return c.HumanBlockMinutes
}
