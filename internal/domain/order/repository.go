package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByBuyer finds all orders owned by a buyer account
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error)

	// FindAll finds all orders with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save saves an order (insert or update)
	Save(ctx context.Context, o *Order) error

	// Count returns the total count of orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
