package order

import (
	"context"
	"time"
)

// Repository persists Order aggregates.
// Methods called with a transactional ctx join that transaction.
type Repository interface {
	// Save inserts a new order with all its items and assigns identities,
	// or writes status and updated_at of an existing one.
	Save(ctx context.Context, order *Order) error

	// FindByID returns NewOrderNotFoundError when no row exists.
	FindByID(ctx context.Context, id int64) (*Order, error)

	// Find returns orders newest first, items included.
	Find(ctx context.Context, criteria Criteria) ([]*Order, error)

	// Delete removes the order and its items.
	Delete(ctx context.Context, id int64) error
}

// Criteria filters an order listing. Zero values are ignored.
type Criteria struct {
	UserID int64
	Status Status
	// Date restricts to orders created on that calendar day (UTC).
	Date  time.Time
	Limit int
}

// Specification folds the criteria into a specification for in-memory evaluation.
func (c Criteria) Specification() Spec {
	var specs []Spec
	if c.UserID > 0 {
		specs = append(specs, ByUser(c.UserID))
	}
	if c.Status != "" {
		specs = append(specs, ByStatus(c.Status))
	}
	if !c.Date.IsZero() {
		specs = append(specs, CreatedOn(c.Date))
	}
	return allOf(specs...)
}
