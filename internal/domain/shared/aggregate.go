package shared

import "github.com/google/uuid"

// AggregateRoot is an owned entity that versions its state and records the
// domain events produced by its state changes.
type AggregateRoot interface {
	Entity
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	PullDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot carries the optimistic-lock version and pending events.
// Repositories bump Version on every successful update.
type BaseAggregateRoot struct {
	OwnedEntity
	Version      int
	domainEvents []DomainEvent
}

// AddDomainEvent queues event for publication after commit.
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the pending events without clearing them.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// PullDomainEvents returns the pending events and clears the queue.
func (a *BaseAggregateRoot) PullDomainEvents() []DomainEvent {
	events := a.domainEvents
	a.domainEvents = nil
	return events
}

func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot starts a version-1 aggregate owned by principalID.
func NewBaseAggregateRoot(principalID uuid.UUID) BaseAggregateRoot {
	return BaseAggregateRoot{
		OwnedEntity: NewOwnedEntity(principalID),
		Version:     1,
	}
}
