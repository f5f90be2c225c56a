package usecase

import (
	"context"
	"errors"
	"fmt"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
	"zapcrm/pkg/phone"
)

// LockCooldownInput resolves the conversation either by internal id or by
// company+phone. OverrideMinutes, when set, replaces the conversation's own
// configured cooldown and must be positive.
type LockCooldownInput struct {
	ConversationID  int64
	CompanyID       int64
	Phone           string
	OverrideMinutes *int
}

// ErrConversationNotFound is surfaced when the lock target does not exist;
// locking never creates conversations.
var ErrConversationNotFound = errors.New("conversation not found")

// LockCooldownUseCase extends ai_next_allowed_at after an AI reply. It is
// meant to be called exactly once per AI-authored message, immediately after
// sending it.
type LockCooldownUseCase struct {
	Repo repository.ConversationRepository
}

func NewLockCooldownUseCase(repo repository.ConversationRepository) *LockCooldownUseCase {
	return &LockCooldownUseCase{Repo: repo}
}

func (uc *LockCooldownUseCase) Execute(ctx context.Context, in LockCooldownInput) (*repository.LockResult, error) {
	if in.OverrideMinutes != nil && *in.OverrideMinutes <= 0 {
		return nil, fmt.Errorf("cooldown_minutes must be a positive integer")
	}

	conv, err := uc.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	minutes := conv.EffectiveCooldownMinutes()
	if in.OverrideMinutes != nil {
		minutes = *in.OverrideMinutes
		if minutes < conversation.MinCooldownMinutes {
			minutes = conversation.MinCooldownMinutes
		}
	}

	res, err := uc.Repo.Lock(ctx, conv.ID, minutes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return res, nil
}

func (uc *LockCooldownUseCase) resolve(ctx context.Context, in LockCooldownInput) (*conversation.Conversation, error) {
	var (
		conv *conversation.Conversation
		err  error
	)
	switch {
	case in.ConversationID > 0:
		conv, err = uc.Repo.GetByID(ctx, in.ConversationID)
	case in.CompanyID > 0 && phone.Digits(in.Phone) != "":
		conv, _, err = uc.Repo.GetByCompanyPhoneWithNow(ctx, in.CompanyID, phone.Digits(in.Phone))
	default:
		return nil, fmt.Errorf("conversation_id or company_id+phone is required")
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return conv, nil
}
