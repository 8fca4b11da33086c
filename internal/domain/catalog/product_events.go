package catalog

import (
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// AggregateTypeProduct identifies product events
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated            = "ProductCreated"
	EventTypeProductPublicationChanged = "ProductPublicationChanged"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
	}
}

// ProductPublicationChangedEvent is published when a product is published or hidden
type ProductPublicationChangedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	IsPublished bool      `json:"is_published"`
}

// NewProductPublicationChangedEvent creates a new ProductPublicationChangedEvent
func NewProductPublicationChangedEvent(p *Product) *ProductPublicationChangedEvent {
	return &ProductPublicationChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPublicationChanged, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		IsPublished:     p.IsPublished,
	}
}
