package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	qport "zapcrm/internal/infrastructure/queue/port"
	chatwoot "zapcrm/internal/pkg/chatwoot/application/domain"
	conversation "zapcrm/internal/pkg/conversation/application/domain"
	"zapcrm/internal/pkg/conversation/application/task"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
)

// HumanReplyOutput reports what the webhook did with an event. Skipped events
// are still acknowledged upstream; Skip carries the classification reason.
type HumanReplyOutput struct {
	Handled        bool       `json:"handled"`
	Skip           string     `json:"skip,omitempty"`
	ConversationID int64      `json:"conversation_id,omitempty"`
	NextAllowedAt  *time.Time `json:"next_allowed_at,omitempty"`
}

// HumanReplyUseCase turns inbox webhook events into AI suppression: a genuine
// human agent message extends the conversation's human-block window. Timeline
// recording is offloaded to the queue so webhook latency stays flat.
type HumanReplyUseCase struct {
	Repo      repository.ConversationRepository
	Queue     qport.Client
	Publisher convusecase.Publisher
	Log       *slog.Logger
}

func NewHumanReplyUseCase(repo repository.ConversationRepository, queue qport.Client, pub convusecase.Publisher, log *slog.Logger) *HumanReplyUseCase {
	return &HumanReplyUseCase{Repo: repo, Queue: queue, Publisher: pub, Log: log}
}

func (uc *HumanReplyUseCase) Execute(ctx context.Context, p chatwoot.Payload) (*HumanReplyOutput, error) {
	ok, skip := chatwoot.ClassifyHumanReply(p)
	if !ok {
		return &HumanReplyOutput{Skip: skip}, nil
	}

	digits, found := chatwoot.ExtractPhone(p)
	if !found {
		return &HumanReplyOutput{Skip: chatwoot.SkipNoPhone}, nil
	}

	var name *string
	if n, has := chatwoot.ExtractName(p); has {
		name = &n
	}
	body, _ := chatwoot.ExtractContent(p)

	conv, err := uc.Repo.ExtendHumanBlock(ctx, digits, name, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", convusecase.ErrPersistence, err)
	}

	uc.enqueueTimeline(ctx, conv.CompanyID, digits, body)

	if uc.Publisher != nil {
		uc.Publisher.Publish(convusecase.Event{
			Type:           "human.reply",
			CompanyID:      conv.CompanyID,
			ConversationID: conv.ID,
			Phone:          conv.Phone,
			Actor:          string(conversation.ActorAgent),
			Body:           body,
			At:             time.Now().UTC(),
		})
	}

	return &HumanReplyOutput{
		Handled:        true,
		ConversationID: conv.ID,
		NextAllowedAt:  conv.AINextAllowedAt,
	}, nil
}

// enqueueTimeline is best-effort: the suppression write already landed, so a
// queue outage must not fail the webhook.
func (uc *HumanReplyUseCase) enqueueTimeline(ctx context.Context, companyID int64, digits, body string) {
	if uc.Queue == nil {
		return
	}
	t, err := task.NewAppendTimelineTask(task.AppendTimelineTaskPayload{
		CompanyID: companyID,
		Phone:     digits,
		Direction: string(conversation.DirectionOut),
		Actor:     string(conversation.ActorAgent),
		Body:      body,
	})
	if err == nil {
		_, err = uc.Queue.Enqueue(ctx, t, qport.EnqueueOption{Queue: task.TimelineQueue, MaxRetry: 3})
	}
	if err != nil && uc.Log != nil {
		uc.Log.Warn("timeline enqueue failed", "phone", digits, "error", err)
	}
}
