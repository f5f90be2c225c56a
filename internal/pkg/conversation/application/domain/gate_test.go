package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ts(t time.Time) *time.Time { return &t }

func baseConv() *Conversation {
	return &Conversation{
		ID:                42,
		CompanyID:         1,
		Phone:             "11999998888",
		Status:            StatusOpen,
		AIEnabled:         true,
		AICooldownMinutes: DefaultCooldownMinutes,
		HumanBlockMinutes: DefaultHumanBlockMinutes,
	}
}

func TestDecide_NoConversation(t *testing.T) {
	d := Decide(nil, now)
	assert.True(t, d.Allow)
	assert.Equal(t, ReasonNewConversation, d.Reason)
	assert.Nil(t, d.ConversationID)
	assert.Nil(t, d.WaitUntil)
}

func TestDecide_AIDisabledWinsOverEverything(t *testing.T) {
	conv := baseConv()
	conv.AIEnabled = false
	// cooldown and human block both active; disabled must still win
	conv.AINextAllowedAt = ts(now.Add(30 * time.Minute))
	conv.HumanLastReplyAt = ts(now.Add(-time.Minute))

	d := Decide(conv, now)
	assert.False(t, d.Allow)
	assert.Equal(t, ReasonAIDisabled, d.Reason)
}

func TestDecide_Cooldown(t *testing.T) {
	conv := baseConv()
	conv.AINextAllowedAt = ts(now.Add(119 * time.Minute))

	d := Decide(conv, now)
	assert.False(t, d.Allow)
	assert.Equal(t, ReasonAICooldown, d.Reason)
	require.NotNil(t, d.WaitUntil)
	assert.Equal(t, *conv.AINextAllowedAt, *d.WaitUntil)

	// the exact instant is no longer "before", so the gate opens
	d = Decide(conv, now.Add(119*time.Minute))
	assert.True(t, d.Allow)
	assert.Equal(t, ReasonOK, d.Reason)
}

func TestDecide_CooldownTakesPrecedenceOverHumanBlock(t *testing.T) {
	conv := baseConv()
	conv.AINextAllowedAt = ts(now.Add(10 * time.Minute))
	conv.HumanLastReplyAt = ts(now.Add(-time.Minute))

	d := Decide(conv, now)
	assert.Equal(t, ReasonAICooldown, d.Reason)
}

func TestDecide_HumanBlock(t *testing.T) {
	conv := baseConv()
	conv.HumanLastReplyAt = ts(now.Add(-30 * time.Minute))

	d := Decide(conv, now)
	assert.False(t, d.Allow)
	assert.Equal(t, ReasonHumanBlock, d.Reason)
	require.NotNil(t, d.WaitUntil)
	assert.Equal(t, conv.HumanLastReplyAt.Add(60*time.Minute), *d.WaitUntil)

	// window elapsed
	d = Decide(conv, now.Add(31*time.Minute))
	assert.True(t, d.Allow)
	assert.Equal(t, ReasonOK, d.Reason)
}

func TestDecide_HumanBlockDisabledByZeroMinutes(t *testing.T) {
	conv := baseConv()
	conv.HumanBlockMinutes = 0
	conv.HumanLastReplyAt = ts(now.Add(-time.Minute))

	d := Decide(conv, now)
	assert.True(t, d.Allow)
	assert.Equal(t, ReasonOK, d.Reason)
}

func TestDecide_ExpiredCooldownAllows(t *testing.T) {
	conv := baseConv()
	conv.AINextAllowedAt = ts(now.Add(-time.Second))

	d := Decide(conv, now)
	assert.True(t, d.Allow)
	assert.Equal(t, ReasonOK, d.Reason)
}

func TestEffectiveCooldownMinutes_Floor(t *testing.T) {
	tests := []struct {
		stored int
		want   int
	}{
		{2, 5},
		{0, 5},
		{-10, 5},
		{5, 5},
		{120, 120},
	}
	for _, tt := range tests {
		conv := baseConv()
		conv.AICooldownMinutes = tt.stored
		assert.Equal(t, tt.want, conv.EffectiveCooldownMinutes(), "stored=%d", tt.stored)
		// the stored value is never rewritten
		assert.Equal(t, tt.stored, conv.AICooldownMinutes)
	}
}

func TestEffectiveHumanBlockMinutes(t *testing.T) {
	conv := baseConv()

	conv.HumanBlockMinutes = 0
	assert.Equal(t, 0, conv.EffectiveHumanBlockMinutes())

	conv.HumanBlockMinutes = 3
	assert.Equal(t, 5, conv.EffectiveHumanBlockMinutes())

	conv.HumanBlockMinutes = 60
	assert.Equal(t, 60, conv.EffectiveHumanBlockMinutes())
}

func TestNewMessage(t *testing.T) {
	m, err := NewMessage(Message{ConversationID: 1, Body: "  oi  "})
	require.NoError(t, err)
	assert.Equal(t, "oi", m.Body)
	assert.Equal(t, DirectionIn, m.Direction)
	assert.Equal(t, ActorContact, m.Actor)

	_, err = NewMessage(Message{ConversationID: 1, Body: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = NewMessage(Message{Body: "oi"})
	assert.Error(t, err)
}
