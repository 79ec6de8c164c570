package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// Repository defines the interface for document persistence
type Repository interface {
	// FindByID finds a document by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByOrder finds all documents for an order, newest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Document, error)

	// FindByOrderAndType finds the most recent document of a given type for
	// an order. Returns nil (no error) when none exists.
	FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType Type) (*Document, error)

	// FindByOrders finds all documents belonging to any of the given orders,
	// newest first
	FindByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]Document, error)

	// FindAll finds all documents with optional filtering
	FindAll(ctx context.Context, filter Filter) ([]Document, error)

	// Save saves a document (insert or update)
	Save(ctx context.Context, doc *Document) error

	// Count returns the total count of documents matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Filter extends the standard filter with document specific criteria
type Filter struct {
	shared.Filter
	Type   *Type
	Status *Status
}

// NumberAllocator reserves document numbers. Implementations must be safe
// under concurrent allocation across processes.
type NumberAllocator interface {
	// NextNumber atomically reserves and formats the next number for the
	// given document type in the current year
	NextNumber(ctx context.Context, docType Type) (string, error)
}
