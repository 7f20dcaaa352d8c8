package event

import (
	"context"
	"fmt"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers domain events synchronously to the subscribed handlers.
// A failing or panicking handler is logged and does not stop delivery to the others,
// and Publish never reports handler failures to the publisher.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	logger    *zap.Logger
	delivered metric.Int64Counter
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	delivered, err := otel.Meter("github.com/facturator/backend/internal/infrastructure/event").
		Int64Counter("facturator.events.delivered",
			metric.WithDescription("Domain events delivered to handlers"))
	if err != nil {
		log.Warn("Failed to create event delivery counter", zap.Error(err))
	}
	return &InMemoryEventBus{
		registry:  NewHandlerRegistry(),
		logger:    log,
		delivered: delivered,
	}
}

// Publish hands every event to its handlers in registration order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.Handlers(event.EventType()) {
			outcome := "ok"
			if err := b.dispatch(ctx, handler, event); err != nil {
				outcome = "error"
				logger.Enrich(ctx, b.logger).Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
			if b.delivered != nil {
				b.delivered.Add(ctx, 1, metric.WithAttributes(
					attribute.String("event_type", event.EventType()),
					attribute.String("outcome", outcome),
				))
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, defaulting to the handler's own types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start implements shared.EventBus; delivery is synchronous so there is nothing to start
func (b *InMemoryEventBus) Start(context.Context) error {
	b.logger.Info("Event bus started")
	return nil
}

// Stop implements shared.EventBus
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.logger.Info("Event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
