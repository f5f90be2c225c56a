package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	qport "zapcrm/internal/infrastructure/queue/port"
	chatwoot "zapcrm/internal/pkg/chatwoot/application/domain"
	conversation "zapcrm/internal/pkg/conversation/application/domain"
	"zapcrm/internal/pkg/conversation/application/task"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtendRepo struct {
	repository.ConversationRepository

	extendedPhone string
	extendedName  *string
	extendedBody  string
	returned      *conversation.Conversation
	err           error
}

func (f *fakeExtendRepo) ExtendHumanBlock(ctx context.Context, phone string, name *string, body string) (*conversation.Conversation, error) {
	f.extendedPhone = phone
	f.extendedName = name
	f.extendedBody = body
	if f.err != nil {
		return nil, f.err
	}
	return f.returned, nil
}

type fakeQueue struct {
	tasks []qport.Task
	opts  []qport.EnqueueOption
	err   error
}

func (f *fakeQueue) Enqueue(ctx context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.tasks = append(f.tasks, t)
	f.opts = append(f.opts, opts...)
	return "task-1", nil
}

func (f *fakeQueue) Close() error { return nil }

type capturingPublisher struct {
	events []convusecase.Event
}

func (c *capturingPublisher) Publish(e convusecase.Event) { c.events = append(c.events, e) }

func payloadFrom(t *testing.T, raw string) chatwoot.Payload {
	t.Helper()
	var p chatwoot.Payload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

const agentReply = `{
	"event": "message_created",
	"message_type": "outgoing",
	"private": false,
	"content": "Ola, vou te ajudar com o pedido",
	"sender": {"type": "user", "name": "Carla"},
	"conversation": {"meta": {"sender": {"phone_number": "+55 11 91234-5678", "name": "Joao"}}}
}`

func TestHumanReply_ExtendsBlockAndEnqueuesTimeline(t *testing.T) {
	next := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeExtendRepo{returned: &conversation.Conversation{
		ID:              7,
		CompanyID:       1,
		Phone:           "5511912345678",
		AINextAllowedAt: &next,
	}}
	queue := &fakeQueue{}
	pub := &capturingPublisher{}
	uc := NewHumanReplyUseCase(repo, queue, pub, nil)

	out, err := uc.Execute(context.Background(), payloadFrom(t, agentReply))
	require.NoError(t, err)
	assert.True(t, out.Handled)
	assert.Equal(t, int64(7), out.ConversationID)
	require.NotNil(t, out.NextAllowedAt)
	assert.True(t, out.NextAllowedAt.Equal(next))

	assert.Equal(t, "5511912345678", repo.extendedPhone)
	require.NotNil(t, repo.extendedName)
	assert.Equal(t, "Joao", *repo.extendedName)

	require.Len(t, queue.tasks, 1)
	assert.Equal(t, task.AppendTimelineTaskType, queue.tasks[0].Type)
	var p task.AppendTimelineTaskPayload
	require.NoError(t, json.Unmarshal(queue.tasks[0].Payload, &p))
	assert.Equal(t, int64(1), p.CompanyID)
	assert.Equal(t, "agent", p.Actor)
	assert.Equal(t, "out", p.Direction)
	require.Len(t, queue.opts, 1)
	assert.Equal(t, task.TimelineQueue, queue.opts[0].Queue)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "human.reply", pub.events[0].Type)
	assert.Equal(t, "agent", pub.events[0].Actor)
}

func TestHumanReply_SkipsIgnoredEvents(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		skip string
	}{
		{"incoming message", `{"event":"message_created","message_type":"incoming","content":"oi"}`, chatwoot.SkipNotOutgoing},
		{"private note", `{"event":"message_created","message_type":"outgoing","private":true,"content":"nota"}`, chatwoot.SkipPrivateNote},
		{"bot sender", `{"event":"message_created","message_type":"outgoing","sender":{"type":"agent_bot"},"content":"auto"}`, chatwoot.SkipBotSender},
		{"no phone anywhere", `{"event":"message_created","message_type":"outgoing","content":"oi"}`, chatwoot.SkipNoPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeExtendRepo{}
			uc := NewHumanReplyUseCase(repo, &fakeQueue{}, nil, nil)

			out, err := uc.Execute(context.Background(), payloadFrom(t, tt.raw))
			require.NoError(t, err)
			assert.False(t, out.Handled)
			assert.Equal(t, tt.skip, out.Skip)
			assert.Empty(t, repo.extendedPhone, "store must not be touched for skipped events")
		})
	}
}

func TestHumanReply_QueueFailureDoesNotFailWebhook(t *testing.T) {
	repo := &fakeExtendRepo{returned: &conversation.Conversation{ID: 3, CompanyID: 1, Phone: "5511912345678"}}
	uc := NewHumanReplyUseCase(repo, &fakeQueue{err: errors.New("broker down")}, nil, nil)

	out, err := uc.Execute(context.Background(), payloadFrom(t, agentReply))
	require.NoError(t, err)
	assert.True(t, out.Handled)
}

func TestHumanReply_RepoErrorIsPersistence(t *testing.T) {
	repo := &fakeExtendRepo{err: errors.New("connection refused")}
	uc := NewHumanReplyUseCase(repo, nil, nil, nil)

	_, err := uc.Execute(context.Background(), payloadFrom(t, agentReply))
	require.Error(t, err)
	assert.ErrorIs(t, err, convusecase.ErrPersistence)
}
