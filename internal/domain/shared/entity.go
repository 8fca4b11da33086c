package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and timestamps every stored entity has
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity creates an entity with a fresh id, stamped now (UTC)
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch refreshes the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// EventSource is implemented by aggregates that buffer domain events until
// the surrounding use case publishes them.
type EventSource interface {
	PullEvents() []DomainEvent
}

// BaseAggregateRoot adds the optimistic lock version and the pending event
// buffer. Version starts at 1 and is checked by repositories on update.
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	events  []DomainEvent
}

// NewBaseAggregateRoot creates a version 1 aggregate with no pending events
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// GetVersion returns the version the aggregate was loaded or last saved with
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// MarkModified records a state change
func (a *BaseAggregateRoot) MarkModified() {
	a.Touch()
	a.Version++
}

// Record buffers an event for publication
func (a *BaseAggregateRoot) Record(event DomainEvent) {
	a.events = append(a.events, event)
}

// PendingEvents returns a copy of the buffered events
func (a *BaseAggregateRoot) PendingEvents() []DomainEvent {
	return append([]DomainEvent(nil), a.events...)
}

// PullEvents returns the buffered events and empties the buffer
func (a *BaseAggregateRoot) PullEvents() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
