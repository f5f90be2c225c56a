package usecase

import (
	"context"
	"strings"
	"time"

	crm "zapcrm/internal/pkg/crm/application/domain"
	repository "zapcrm/internal/pkg/crm/persistence/repository/port"
)

// fakeCrmRepo is an in-memory CrmRepository mirroring the SQL adapter's
// contract closely enough for use case tests.
type fakeCrmRepo struct {
	clients      []crm.Client
	products     []crm.Product
	orders       []crm.Order
	interactions []crm.Interaction
	nextID       int64

	listCalls int
	failWith  error
}

func newFakeCrmRepo() *fakeCrmRepo { return &fakeCrmRepo{nextID: 1} }

func (f *fakeCrmRepo) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeCrmRepo) SearchClients(ctx context.Context, companyID int64, query string, limit int) ([]crm.Client, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if limit <= 0 {
		limit = 20
	}
	var out []crm.Client
	for _, c := range f.clients {
		if c.CompanyID != companyID {
			continue
		}
		name := ""
		if c.Name != nil {
			name = *c.Name
		}
		if strings.Contains(c.Phone, query) || strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCrmRepo) UpsertClient(ctx context.Context, c crm.Client) (*crm.Client, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.clients {
		existing := &f.clients[i]
		if existing.CompanyID == c.CompanyID && existing.Phone == c.Phone {
			if c.Name != nil {
				existing.Name = c.Name
			}
			if c.Email != nil {
				existing.Email = c.Email
			}
			if c.Notes != nil {
				existing.Notes = c.Notes
			}
			existing.UpdatedAt = time.Now()
			out := *existing
			return &out, nil
		}
	}
	c.ID = f.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.clients = append(f.clients, c)
	out := c
	return &out, nil
}

func (f *fakeCrmRepo) GetClient(ctx context.Context, companyID, clientID int64) (*crm.Client, error) {
	for _, c := range f.clients {
		if c.CompanyID == companyID && c.ID == clientID {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrClientNotFound
}

func (f *fakeCrmRepo) ListProducts(ctx context.Context, companyID int64, activeOnly bool) ([]crm.Product, error) {
	f.listCalls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []crm.Product
	for _, p := range f.products {
		if p.CompanyID == companyID && (!activeOnly || p.Active) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCrmRepo) CreateOrder(ctx context.Context, companyID, clientID int64, items []repository.NewOrderItem) (*crm.Order, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, err := f.GetClient(ctx, companyID, clientID); err != nil {
		return nil, err
	}
	order := crm.Order{ID: f.id(), CompanyID: companyID, ClientID: clientID, Status: crm.OrderStatusPending, CreatedAt: time.Now()}
	var total int64
	for _, it := range items {
		var price int64
		found := false
		for _, p := range f.products {
			if p.CompanyID == companyID && p.ID == it.ProductID && p.Active {
				price = p.PriceCents
				found = true
				break
			}
		}
		if !found {
			return nil, repository.ErrProductNotFound
		}
		order.Items = append(order.Items, crm.OrderItem{
			ID: f.id(), OrderID: order.ID, ProductID: it.ProductID,
			Quantity: it.Quantity, UnitPriceCents: price,
		})
		total += price * int64(it.Quantity)
	}
	order.TotalCents = total
	f.orders = append(f.orders, order)
	out := order
	return &out, nil
}

func (f *fakeCrmRepo) LogInteraction(ctx context.Context, i crm.Interaction) (*crm.Interaction, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	i.ID = f.id()
	i.CreatedAt = time.Now()
	f.interactions = append(f.interactions, i)
	out := i
	return &out, nil
}

// fakeCache is a map-backed Cache covering what the product listing needs.
type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{values: map[string]string{}} }

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", errMiss{}
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

func (f *fakeCache) Del(ctx context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }
func (f *fakeCache) Close() error                   { return nil }

type errMiss struct{}

func (errMiss) Error() string { return "miss" }
