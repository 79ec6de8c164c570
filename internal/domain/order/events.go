package order

import (
	"github.com/google/uuid"
	"github.com/primeapparel/backend/internal/domain/shared"
)

// Event types
const (
	EventOrderShipped       = "order.shipped"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderShippedEvent is raised when an AWB is recorded against an order
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	AWBURL string `json:"awb_url"`
}

// NewOrderShippedEvent creates a new order shipped event
func NewOrderShippedEvent(orderID uuid.UUID, awbURL string) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderShipped, "Order", orderID),
		AWBURL:          awbURL,
	}
}

// OrderStatusChangedEvent is raised on a lifecycle status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new status changed event
func NewOrderStatusChangedEvent(orderID uuid.UUID, oldStatus, newStatus Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderStatusChanged, "Order", orderID),
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
