package usecase

import (
	"context"
	"log/slog"
	"strings"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	convusecase "zapcrm/internal/pkg/conversation/application/usecase"
	"zapcrm/internal/pkg/relay/transport/port"
	"zapcrm/pkg/apperrors"
	"zapcrm/pkg/phone"
)

type SendMessageInput struct {
	CompanyID int64
	Phone     string
	Text      string
	// Actor defaults to the AI responder; human-initiated sends pass "agent".
	Actor string
}

type SendMessageOutput struct {
	Gateway        string
	Phone          string
	ConversationID int64
	MessageID      int64
}

// SendMessageUseCase relays one outbound text through the WhatsApp gateway and
// records it on the conversation timeline. Delivery is the hard part; timeline
// recording after a confirmed send is best-effort.
type SendMessageUseCase struct {
	Sender port.Sender
	Ingest *convusecase.IngestMessageUseCase
	Log    *slog.Logger
}

func NewSendMessageUseCase(sender port.Sender, ingest *convusecase.IngestMessageUseCase, log *slog.Logger) *SendMessageUseCase {
	return &SendMessageUseCase{Sender: sender, Ingest: ingest, Log: log}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if uc.Sender == nil {
		return nil, apperrors.Internal("no outbound gateway configured", nil)
	}
	if in.CompanyID <= 0 {
		return nil, apperrors.InvalidArg("company_id is required")
	}
	digits := phone.Digits(in.Phone)
	if !phone.Valid(digits) {
		return nil, apperrors.InvalidArg("phone is invalid")
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, apperrors.InvalidArg("text is required")
	}

	if err := uc.Sender.Send(ctx, digits, text); err != nil {
		return nil, apperrors.Upstream("message delivery failed", err)
	}

	out := &SendMessageOutput{Gateway: uc.Sender.Name(), Phone: digits}
	if uc.Ingest == nil {
		return out, nil
	}

	actor := conversation.ActorAI
	if in.Actor != "" {
		actor = conversation.Actor(in.Actor)
	}
	rec, err := uc.Ingest.Execute(ctx, convusecase.IngestMessageInput{
		CompanyID: in.CompanyID,
		Phone:     digits,
		Body:      text,
		Direction: conversation.DirectionOut,
		Actor:     actor,
	})
	if err != nil {
		if uc.Log != nil {
			uc.Log.Warn("outbound message delivered but not recorded", "phone", digits, "error", err)
		}
		return out, nil
	}
	out.ConversationID = rec.Conversation.ID
	out.MessageID = rec.MessageID
	return out, nil
}
