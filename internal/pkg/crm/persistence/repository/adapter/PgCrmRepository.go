package adapter

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	crm "zapcrm/internal/pkg/crm/application/domain"
	repository "zapcrm/internal/pkg/crm/persistence/repository/port"
)

const clientColumns = `id, company_id, phone, name, email, notes, created_at, updated_at`

// PgCrmRepository persists CRM entities in Postgres.
type PgCrmRepository struct {
	pool *pgxpool.Pool
}

func NewPgCrmRepository(pool *pgxpool.Pool) *PgCrmRepository {
	return &PgCrmRepository{pool: pool}
}

var _ repository.CrmRepository = (*PgCrmRepository)(nil)

func (r *PgCrmRepository) SearchClients(ctx context.Context, companyID int64, query string, limit int) ([]crm.Client, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientColumns+`
		   FROM clients
		  WHERE company_id = $1
		    AND (phone LIKE '%' || $2 || '%' OR name ILIKE '%' || $2 || '%')
		  ORDER BY updated_at DESC
		  LIMIT $3`,
		companyID, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "crmRepo.SearchClients.Query")
	}
	defer rows.Close()

	var out []crm.Client
	for rows.Next() {
		var c crm.Client
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Phone, &c.Name, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "crmRepo.SearchClients.Scan")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "crmRepo.SearchClients.Rows")
}

func (r *PgCrmRepository) UpsertClient(ctx context.Context, c crm.Client) (*crm.Client, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO clients (company_id, phone, name, email, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now())
		 ON CONFLICT (company_id, phone) DO UPDATE SET
		   name = COALESCE(EXCLUDED.name, clients.name),
		   email = COALESCE(EXCLUDED.email, clients.email),
		   notes = COALESCE(EXCLUDED.notes, clients.notes),
		   updated_at = now()
		 RETURNING `+clientColumns,
		c.CompanyID, c.Phone, c.Name, c.Email, c.Notes)

	var out crm.Client
	if err := row.Scan(&out.ID, &out.CompanyID, &out.Phone, &out.Name, &out.Email, &out.Notes, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, errors.Wrap(err, "crmRepo.UpsertClient.Scan")
	}
	return &out, nil
}

func (r *PgCrmRepository) GetClient(ctx context.Context, companyID, clientID int64) (*crm.Client, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE company_id = $1 AND id = $2`,
		companyID, clientID)

	var c crm.Client
	if err := row.Scan(&c.ID, &c.CompanyID, &c.Phone, &c.Name, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrClientNotFound
		}
		return nil, errors.Wrap(err, "crmRepo.GetClient.Scan")
	}
	return &c, nil
}

func (r *PgCrmRepository) ListProducts(ctx context.Context, companyID int64, activeOnly bool) ([]crm.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_id, name, price_cents, active, created_at
		   FROM products
		  WHERE company_id = $1 AND ($2 = false OR active)
		  ORDER BY name`,
		companyID, activeOnly)
	if err != nil {
		return nil, errors.Wrap(err, "crmRepo.ListProducts.Query")
	}
	defer rows.Close()

	var out []crm.Product
	for rows.Next() {
		var p crm.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.Name, &p.PriceCents, &p.Active, &p.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "crmRepo.ListProducts.Scan")
		}
		out = append(out, p)
	}
	return out, errors.Wrap(rows.Err(), "crmRepo.ListProducts.Rows")
}

// CreateOrder inserts the order header and items in one transaction, reading
// each product's current price inside the transaction for the snapshot. Any
// failure rolls the whole order back.
func (r *PgCrmRepository) CreateOrder(ctx context.Context, companyID, clientID int64, items []repository.NewOrderItem) (*crm.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "crmRepo.CreateOrder.Begin")
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE company_id = $1 AND id = $2)`,
		companyID, clientID).Scan(&exists); err != nil {
		return nil, errors.Wrap(err, "crmRepo.CreateOrder.ClientCheck")
	}
	if !exists {
		return nil, repository.ErrClientNotFound
	}

	order := &crm.Order{CompanyID: companyID, ClientID: clientID, Status: crm.OrderStatusPending}
	if err := tx.QueryRow(ctx,
		`INSERT INTO orders (company_id, client_id, status, total_cents, created_at)
		 VALUES ($1, $2, $3, 0, now())
		 RETURNING id, created_at`,
		companyID, clientID, order.Status).Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "crmRepo.CreateOrder.InsertOrder")
	}

	var total int64
	for _, it := range items {
		var price int64
		err := tx.QueryRow(ctx,
			`SELECT price_cents FROM products WHERE company_id = $1 AND id = $2 AND active`,
			companyID, it.ProductID).Scan(&price)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProductNotFound
		}
		if err != nil {
			return nil, errors.Wrap(err, "crmRepo.CreateOrder.PriceLookup")
		}

		item := crm.OrderItem{OrderID: order.ID, ProductID: it.ProductID, Quantity: it.Quantity, UnitPriceCents: price}
		if err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPriceCents).Scan(&item.ID); err != nil {
			return nil, errors.Wrap(err, "crmRepo.CreateOrder.InsertItem")
		}
		total += price * int64(it.Quantity)
		order.Items = append(order.Items, item)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE orders SET total_cents = $1 WHERE id = $2`, total, order.ID); err != nil {
		return nil, errors.Wrap(err, "crmRepo.CreateOrder.UpdateTotal")
	}
	order.TotalCents = total

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "crmRepo.CreateOrder.Commit")
	}
	return order, nil
}

func (r *PgCrmRepository) LogInteraction(ctx context.Context, i crm.Interaction) (*crm.Interaction, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO interactions (company_id, client_id, kind, body, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, created_at`,
		i.CompanyID, i.ClientID, i.Kind, i.Body)
	if err := row.Scan(&i.ID, &i.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "crmRepo.LogInteraction.Scan")
	}
	return &i, nil
}
