package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps every collection in process memory. Values are copied in
// and out, so callers never share state with the store.
type Memory struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]User
	products map[uuid.UUID]Product
	order    []uuid.UUID // product insertion order
	orders   map[uuid.UUID]Order
}

// NewMemory creates empty in-memory repositories.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[uuid.UUID]User),
		products: make(map[uuid.UUID]Product),
		orders:   make(map[uuid.UUID]Order),
	}
}

// Repositories exposes the store through the repository interfaces.
func (m *Memory) Repositories() Repositories {
	return Repositories{
		Users:    memoryUsers{m},
		Products: memoryProducts{m},
		Orders:   memoryOrders{m},
	}
}

type memoryUsers struct{ m *Memory }

func (r memoryUsers) ByID(_ context.Context, id uuid.UUID) (User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r memoryUsers) ByEmail(_ context.Context, email string) (User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (r memoryUsers) ByResetToken(_ context.Context, token string) (User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	if token == "" {
		return User{}, ErrNotFound
	}
	for _, u := range r.m.users {
		if u.ResetToken == token {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (r memoryUsers) Create(_ context.Context, u User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicateEmail
		}
	}
	r.m.users[u.ID] = cloneUser(u)
	return nil
}

func (r memoryUsers) Update(_ context.Context, u User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[u.ID]; !ok {
		return ErrNotFound
	}
	r.m.users[u.ID] = cloneUser(u)
	return nil
}

// DeleteUser removes a user, as an operator would.
func (m *Memory) DeleteUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
}

type memoryProducts struct{ m *Memory }

func (r memoryProducts) List(_ context.Context, skip, limit int) ([]Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var out []Product
	for i, id := range r.m.order {
		if i < skip {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, r.m.products[id])
	}
	return out, nil
}

func (r memoryProducts) ListByOwner(_ context.Context, userID uuid.UUID) ([]Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var out []Product
	for _, id := range r.m.order {
		if p := r.m.products[id]; p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memoryProducts) ByIDs(_ context.Context, ids []uuid.UUID) ([]Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var out []Product
	for _, id := range ids {
		if p, ok := r.m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memoryProducts) Count(context.Context) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	return int64(len(r.m.products)), nil
}

func (r memoryProducts) ByID(_ context.Context, id uuid.UUID) (Product, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	p, ok := r.m.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r memoryProducts) Create(_ context.Context, p Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.products[p.ID] = p
	r.m.order = append(r.m.order, p.ID)
	return nil
}

func (r memoryProducts) Update(_ context.Context, p Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[p.ID]; !ok {
		return ErrNotFound
	}
	r.m.products[p.ID] = p
	return nil
}

func (r memoryProducts) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.products, id)
	r.m.order = slices.DeleteFunc(r.m.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

type memoryOrders struct{ m *Memory }

func (r memoryOrders) Create(_ context.Context, o Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o.Items = slices.Clone(o.Items)
	r.m.orders[o.ID] = o
	return nil
}

func (r memoryOrders) ByID(_ context.Context, id uuid.UUID) (Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	o, ok := r.m.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (r memoryOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]Order, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var out []Order
	for _, o := range r.m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b Order) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func cloneUser(u User) User {
	u.PasswordHash = slices.Clone(u.PasswordHash)
	u.Cart.Items = slices.Clone(u.Cart.Items)
	return u
}
