package invoicing

import (
	"context"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
)

// UnitOfWork bounds a sequence of repository operations in one transaction.
//
// Nothing is durable unless Commit is called. Close must be deferred right after the scope
// is opened: it rolls back whatever was not committed and never hides the caller's error.
// Scopes do not nest.
type UnitOfWork interface {
	// Payers returns the payer repository bound to this scope
	Payers() invoicing.PayerRepository
	// Orders returns the order repository bound to this scope
	Orders() invoicing.OrderRepository
	// Sequences returns the numbering sequence repository bound to this scope
	Sequences() invoicing.SequenceRepository

	// Commit durably persists every change made since the scope was opened or last committed
	Commit() error
	// Rollback discards every change made since the scope was opened or last committed
	Rollback() error
	// Close ends the scope, rolling back anything not committed
	Close() error

	// Collect queues domain events to be published once the handler succeeds
	Collect(events ...shared.DomainEvent)
	// Events returns the queued domain events
	Events() []shared.DomainEvent
}

// UnitOfWorkFactory opens unit of work scopes
type UnitOfWorkFactory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// WithUnitOfWork opens a scope, runs fn inside it and closes the scope.
// fn's error is returned unchanged; fn must call Commit itself for changes to persist.
func WithUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) (err error) {
	uow, err := factory.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := uow.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(uow)
}

// EventCollector is a helper for UnitOfWork implementations
type EventCollector struct {
	events []shared.DomainEvent
}

// Collect queues events
func (c *EventCollector) Collect(events ...shared.DomainEvent) {
	c.events = append(c.events, events...)
}

// Events returns the queued events
func (c *EventCollector) Events() []shared.DomainEvent {
	return c.events
}

// collectFrom moves pending events from an aggregate into the unit of work
func collectFrom(uow UnitOfWork, agg shared.AggregateRoot) {
	uow.Collect(agg.GetDomainEvents()...)
	agg.ClearDomainEvents()
}
