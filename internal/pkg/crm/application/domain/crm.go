package crm

import "time"

// Client is a company-scoped CRM contact, unique per (company_id, phone).
type Client struct {
	ID        int64     `db:"id"`
	CompanyID int64     `db:"company_id"`
	Phone     string    `db:"phone"`
	Name      *string   `db:"name"`
	Email     *string   `db:"email"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Product struct {
	ID         int64     `db:"id"`
	CompanyID  int64     `db:"company_id"`
	Name       string    `db:"name"`
	PriceCents int64     `db:"price_cents"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
}

// OrderItem snapshots the product price at order time so later price changes
// do not rewrite history.
type OrderItem struct {
	ID             int64 `db:"id"`
	OrderID        int64 `db:"order_id"`
	ProductID      int64 `db:"product_id"`
	Quantity       int   `db:"quantity"`
	UnitPriceCents int64 `db:"unit_price_cents"`
}

type Order struct {
	ID         int64       `db:"id"`
	CompanyID  int64       `db:"company_id"`
	ClientID   int64       `db:"client_id"`
	Status     string      `db:"status"`
	TotalCents int64       `db:"total_cents"`
	Items      []OrderItem `db:"-"`
	CreatedAt  time.Time   `db:"created_at"`
}

const OrderStatusPending = "pending"

// Interaction is a free-form CRM touchpoint (call, note, AI summary) logged
// against a client.
type Interaction struct {
	ID        int64     `db:"id"`
	CompanyID int64     `db:"company_id"`
	ClientID  int64     `db:"client_id"`
	Kind      string    `db:"kind"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}
