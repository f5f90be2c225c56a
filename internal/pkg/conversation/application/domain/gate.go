package conversation

import "time"

// Reason is the verdict code attached to every gating decision.
type Reason string

const (
	ReasonNewConversation Reason = "new_conversation"
	ReasonAIDisabled      Reason = "ai_disabled"
	ReasonAICooldown      Reason = "ai_cooldown"
	ReasonHumanBlock      Reason = "human_block"
	ReasonOK              Reason = "ok"
)

// Decision is the allow/deny verdict produced before the AI is permitted to
// send a message. Denial is a normal outcome, not an error.
type Decision struct {
	Allow  bool
	Reason Reason

	ConversationID    *int64
	CooldownMinutes   int
	HumanBlockMinutes int

	// WaitUntil is the instant that must elapse before the AI may speak.
	// Nil when the decision is an allow.
	WaitUntil *time.Time
}

// Decide evaluates the gating rules in strict order against the given instant;
// the first matching rule wins. now must come from the same clock that wrote
// the conversation's timestamps (the store's clock), otherwise skew between
// writer and reader produces inconsistent verdicts.
func Decide(conv *Conversation, now time.Time) Decision {
	if conv == nil {
		return Decision{Allow: true, Reason: ReasonNewConversation}
	}

	d := Decision{
		ConversationID:    &conv.ID,
		CooldownMinutes:   conv.EffectiveCooldownMinutes(),
		HumanBlockMinutes: conv.EffectiveHumanBlockMinutes(),
	}

	if !conv.AIEnabled {
		d.Reason = ReasonAIDisabled
		return d
	}

	if conv.AINextAllowedAt != nil && now.Before(*conv.AINextAllowedAt) {
		d.Reason = ReasonAICooldown
		d.WaitUntil = conv.AINextAllowedAt
		return d
	}

	if conv.HumanLastReplyAt != nil && d.HumanBlockMinutes > 0 {
		until := conv.HumanLastReplyAt.Add(time.Duration(d.HumanBlockMinutes) * time.Minute)
		if now.Before(until) {
			d.Reason = ReasonHumanBlock
			d.WaitUntil = &until
			return d
		}
	}

	d.Allow = true
	d.Reason = ReasonOK
	return d
}
