package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// OrderFilter narrows order listings.
// Search matches the customer name or email.
type OrderFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     OrderStatus
	From       *time.Time
	To         *time.Time
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its details and customer projection
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForCustomer finds an order only when it belongs to the customer
	FindByIDForCustomer(ctx context.Context, customerID, id uuid.UUID) (*Order, error)

	// FindAll lists order headers matching the filter
	FindAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)

	// FindRecent returns the newest orders
	FindRecent(ctx context.Context, limit int) ([]Order, error)

	// FindDetail finds a single order detail with product and color names
	FindDetail(ctx context.Context, detailID uuid.UUID) (*OrderDetail, error)

	// Create inserts the order header and all of its details
	Create(ctx context.Context, order *Order) error

	// UpdateHeader persists status, payment method and notes only while the
	// stored version still equals expectedVersion
	UpdateHeader(ctx context.Context, order *Order, expectedVersion int) error

	// Delete removes the order and its details
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all orders
	Count(ctx context.Context) (int64, error)
}
