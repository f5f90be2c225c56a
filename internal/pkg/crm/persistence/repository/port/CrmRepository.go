package repository

import (
	"context"
	"errors"

	crm "zapcrm/internal/pkg/crm/application/domain"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
)

// NewOrderItem is the caller's view of one order line; unit price is looked up
// and snapshotted by the repository inside the order transaction.
type NewOrderItem struct {
	ProductID int64
	Quantity  int
}

// CrmRepository defines persistence for the CRM tool surface. Order creation
// is a single transaction: any failure rolls back the order header and all
// item rows.
type CrmRepository interface {
	SearchClients(ctx context.Context, companyID int64, query string, limit int) ([]crm.Client, error)
	UpsertClient(ctx context.Context, c crm.Client) (*crm.Client, error)
	GetClient(ctx context.Context, companyID, clientID int64) (*crm.Client, error)

	ListProducts(ctx context.Context, companyID int64, activeOnly bool) ([]crm.Product, error)

	CreateOrder(ctx context.Context, companyID, clientID int64, items []NewOrderItem) (*crm.Order, error)

	LogInteraction(ctx context.Context, i crm.Interaction) (*crm.Interaction, error)
}
