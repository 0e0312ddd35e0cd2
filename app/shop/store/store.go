// Package store persists the shop's users, products and orders.
//
// Every repository has a MongoDB implementation for production and an
// in-memory one for tests and local runs. Missing documents are reported
// as ErrNotFound.
package store

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository stores users.
type UserRepository interface {
	ByID(ctx context.Context, id uuid.UUID) (User, error)
	ByEmail(ctx context.Context, email string) (User, error)
	ByResetToken(ctx context.Context, token string) (User, error)
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
}

// ProductRepository stores the catalog.
type ProductRepository interface {
	// List returns products in creation order, skipping skip and returning at most limit.
	List(ctx context.Context, skip, limit int) ([]Product, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]Product, error)
	// ByIDs returns the products that still exist, in no particular order.
	ByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	ByID(ctx context.Context, id uuid.UUID) (Product, error)
	Create(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository stores orders.
type OrderRepository interface {
	Create(ctx context.Context, o Order) error
	ByID(ctx context.Context, id uuid.UUID) (Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
}

// Repositories bundles one implementation of each repository.
type Repositories struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
}
