package usecase

import (
	"context"
	"errors"
	"strings"

	crm "zapcrm/internal/pkg/crm/application/domain"
	repository "zapcrm/internal/pkg/crm/persistence/repository/port"
	"zapcrm/pkg/apperrors"
)

type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type CreateOrderInput struct {
	CompanyID int64            `json:"company_id"`
	ClientID  int64            `json:"client_id"`
	Items     []OrderItemInput `json:"items"`
}

// CreateOrderUseCase creates an order with price snapshots taken inside the
// repository transaction.
type CreateOrderUseCase struct {
	Repo repository.CrmRepository
}

func NewCreateOrderUseCase(repo repository.CrmRepository) *CreateOrderUseCase {
	return &CreateOrderUseCase{Repo: repo}
}

func (uc *CreateOrderUseCase) Execute(ctx context.Context, in CreateOrderInput) (*crm.Order, error) {
	if in.CompanyID <= 0 {
		return nil, apperrors.InvalidArg("company_id is required")
	}
	if in.ClientID <= 0 {
		return nil, apperrors.InvalidArg("client_id is required")
	}
	if len(in.Items) == 0 {
		return nil, apperrors.InvalidArg("at least one item is required")
	}
	items := make([]repository.NewOrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return nil, apperrors.InvalidArg("items need a product_id and a positive quantity")
		}
		items = append(items, repository.NewOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := uc.Repo.CreateOrder(ctx, in.CompanyID, in.ClientID, items)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrClientNotFound):
			return nil, apperrors.NotFound("client not found")
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, apperrors.NotFound("product not found or inactive")
		default:
			return nil, apperrors.Internal("order creation failed", err)
		}
	}
	return order, nil
}

type LogInteractionInput struct {
	CompanyID int64  `json:"company_id"`
	ClientID  int64  `json:"client_id"`
	Kind      string `json:"kind"`
	Body      string `json:"body"`
}

// LogInteractionUseCase appends a CRM touchpoint for a client.
type LogInteractionUseCase struct {
	Repo repository.CrmRepository
}

func NewLogInteractionUseCase(repo repository.CrmRepository) *LogInteractionUseCase {
	return &LogInteractionUseCase{Repo: repo}
}

func (uc *LogInteractionUseCase) Execute(ctx context.Context, in LogInteractionInput) (*crm.Interaction, error) {
	if in.CompanyID <= 0 {
		return nil, apperrors.InvalidArg("company_id is required")
	}
	if in.ClientID <= 0 {
		return nil, apperrors.InvalidArg("client_id is required")
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, apperrors.InvalidArg("body is required")
	}
	kind := strings.TrimSpace(in.Kind)
	if kind == "" {
		kind = "note"
	}

	if _, err := uc.Repo.GetClient(ctx, in.CompanyID, in.ClientID); err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return nil, apperrors.NotFound("client not found")
		}
		return nil, apperrors.Internal("client lookup failed", err)
	}

	out, err := uc.Repo.LogInteraction(ctx, crm.Interaction{
		CompanyID: in.CompanyID,
		ClientID:  in.ClientID,
		Kind:      kind,
		Body:      body,
	})
	if err != nil {
		return nil, apperrors.Internal("interaction insert failed", err)
	}
	return out, nil
}
