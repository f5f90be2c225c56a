package usecase

import (
	"context"
	"errors"
	"fmt"

	conversation "zapcrm/internal/pkg/conversation/application/domain"
	repository "zapcrm/internal/pkg/conversation/persistence/repository/port"
	"zapcrm/pkg/phone"
)

// GateCheckInput identifies the conversation to evaluate. Phone may arrive in
// any formatting; it is normalized to digits before lookup.
type GateCheckInput struct {
	CompanyID int64
	Phone     string
}

// GateCheckUseCase answers "may the AI respond to this contact right now".
// It never errors for a deny; denial is a normal decision with a reason code.
type GateCheckUseCase struct {
	Repo repository.ConversationRepository
}

func NewGateCheckUseCase(repo repository.ConversationRepository) *GateCheckUseCase {
	return &GateCheckUseCase{Repo: repo}
}

// Execute fetches the conversation together with the store's clock and runs
// the pure decision rules against that instant.
func (uc *GateCheckUseCase) Execute(ctx context.Context, in GateCheckInput) (*conversation.Decision, error) {
	if in.CompanyID <= 0 {
		return nil, fmt.Errorf("company_id is required")
	}
	digits := phone.Digits(in.Phone)
	if digits == "" {
		return nil, fmt.Errorf("phone is required")
	}

	conv, dbNow, err := uc.Repo.GetByCompanyPhoneWithNow(ctx, in.CompanyID, digits)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			d := conversation.Decide(nil, dbNow)
			return &d, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	d := conversation.Decide(conv, dbNow)
	return &d, nil
}
