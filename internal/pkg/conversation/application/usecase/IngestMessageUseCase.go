package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
	"zapcrm/pkg/phone"
)

// IngestMessageInput carries one chat message to be recorded against a
// conversation, creating the conversation on first contact. Direction/Actor
// default to an inbound contact message.
type IngestMessageInput struct {
	CompanyID int64
	Phone     string
	Name      string
	Body      string
	Direction conversation.Direction
	Actor     conversation.Actor
}

type IngestMessageOutput struct {
	Conversation *conversation.Conversation
	MessageID    int64
}

// IngestMessageUseCase upserts the conversation, appends the timeline entry
// and notifies the operator feed.
type IngestMessageUseCase struct {
	Repo      repository.ConversationRepository
	Publisher Publisher
}

func NewIngestMessageUseCase(repo repository.ConversationRepository, pub Publisher) *IngestMessageUseCase {
	return &IngestMessageUseCase{Repo: repo, Publisher: pub}
}

func (uc *IngestMessageUseCase) Execute(ctx context.Context, in IngestMessageInput) (*IngestMessageOutput, error) {
	if in.CompanyID <= 0 {
		return nil, fmt.Errorf("company_id is required")
	}
	digits := phone.Digits(in.Phone)
	if digits == "" {
		return nil, fmt.Errorf("phone is required")
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, fmt.Errorf("message is required")
	}

	var name *string
	if n := strings.TrimSpace(in.Name); n != "" {
		name = &n
	}

	conv, err := uc.Repo.UpsertOnInbound(ctx, in.CompanyID, digits, name, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg, err := conversation.NewMessage(conversation.Message{
		ConversationID: conv.ID,
		Direction:      in.Direction,
		Actor:          in.Actor,
		Body:           body,
	})
	if err != nil {
		return nil, err
	}

	msgID, err := uc.Repo.AppendMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Publisher != nil {
		uc.Publisher.Publish(Event{
			Type:           "message." + string(msg.Direction),
			CompanyID:      conv.CompanyID,
			ConversationID: conv.ID,
			Phone:          conv.Phone,
			Actor:          string(msg.Actor),
			Body:           body,
			At:             time.Now().UTC(),
		})
	}

	return &IngestMessageOutput{Conversation: conv, MessageID: msgID}, nil
}
