package usecase

import (
	"context"
	"errors"
	"fmt"

	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
	"zapcrm/pkg/phone"
)

// SuppressInput silences the AI for an existing conversation for a
// caller-chosen number of minutes, independent of any AI reply.
type SuppressInput struct {
	CompanyID int64
	Phone     string
	Minutes   int
}

// SuppressUseCase is the operator-facing "mute the AI now" entry point. Unlike
// the reply-triggered lock, the window is caller-supplied rather than derived
// from the conversation's stored cooldown.
type SuppressUseCase struct {
	Repo repository.ConversationRepository
}

func NewSuppressUseCase(repo repository.ConversationRepository) *SuppressUseCase {
	return &SuppressUseCase{Repo: repo}
}

func (uc *SuppressUseCase) Execute(ctx context.Context, in SuppressInput) (*repository.LockResult, error) {
	if in.CompanyID <= 0 {
		return nil, fmt.Errorf("company_id is required")
	}
	digits := phone.Digits(in.Phone)
	if digits == "" {
		return nil, fmt.Errorf("phone is required")
	}
	if in.Minutes <= 0 {
		return nil, fmt.Errorf("minutes must be a positive integer")
	}

	res, err := uc.Repo.Suppress(ctx, in.CompanyID, digits, in.Minutes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return res, nil
}
