package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
)

// These tests pin the human-block extension contract the SQL adapter
// implements with GREATEST + CASE in a single statement.

func TestExtendHumanBlock_MonotonicDeadline(t *testing.T) {
	repo := newFakeRepo(testNow)
	far := testNow.Add(6 * time.Hour)
	repo.put(&conversation.Conversation{
		CompanyID: 1, Phone: "11999998888",
		AIEnabled: true, AICooldownMinutes: 120, HumanBlockMinutes: 60,
		AINextAllowedAt: &far,
	})

	conv, err := repo.ExtendHumanBlock(context.Background(), "11999998888", nil, "oi")
	require.NoError(t, err)
	require.NotNil(t, conv.AINextAllowedAt)
	assert.Equal(t, far, *conv.AINextAllowedAt, "a later existing deadline must never retreat")
	require.NotNil(t, conv.HumanLastReplyAt)
	assert.Equal(t, testNow, *conv.HumanLastReplyAt)
}

func TestExtendHumanBlock_AdvancesPastUnsetDeadline(t *testing.T) {
	repo := newFakeRepo(testNow)
	repo.put(&conversation.Conversation{
		CompanyID: 1, Phone: "11999998888",
		AIEnabled: true, AICooldownMinutes: 120, HumanBlockMinutes: 60,
	})

	conv, err := repo.ExtendHumanBlock(context.Background(), "11999998888", nil, "oi")
	require.NoError(t, err)
	require.NotNil(t, conv.AINextAllowedAt)
	assert.Equal(t, testNow.Add(60*time.Minute), *conv.AINextAllowedAt)

	// second application at the same instant must not move the deadline
	again, err := repo.ExtendHumanBlock(context.Background(), "11999998888", nil, "oi de novo")
	require.NoError(t, err)
	assert.Equal(t, *conv.AINextAllowedAt, *again.AINextAllowedAt)
}

func TestExtendHumanBlock_CreatesOnFirstContact(t *testing.T) {
	repo := newFakeRepo(testNow)

	name := "Joao"
	conv, err := repo.ExtendHumanBlock(context.Background(), "5511912345678", &name, "respondi eu mesmo")
	require.NoError(t, err)
	assert.Equal(t, conversation.DefaultHumanBlockMinutes, conv.HumanBlockMinutes)
	require.NotNil(t, conv.AINextAllowedAt)
	assert.Equal(t, testNow.Add(time.Duration(conversation.DefaultHumanBlockMinutes)*time.Minute), *conv.AINextAllowedAt)
}

func TestExtendHumanBlock_ZeroMinutesLeavesDeadlineAlone(t *testing.T) {
	repo := newFakeRepo(testNow)
	repo.put(&conversation.Conversation{
		CompanyID: 1, Phone: "11999998888",
		AIEnabled: true, AICooldownMinutes: 120, HumanBlockMinutes: 0,
	})

	conv, err := repo.ExtendHumanBlock(context.Background(), "11999998888", nil, "oi")
	require.NoError(t, err)
	// block disabled: now+0 never beats an unset-or-later deadline
	if conv.AINextAllowedAt != nil {
		assert.False(t, conv.AINextAllowedAt.After(testNow))
	}
	require.NotNil(t, conv.HumanLastReplyAt, "the reply itself is still recorded")
}
