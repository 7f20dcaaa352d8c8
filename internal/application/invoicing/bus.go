package invoicing

import (
	"context"
	"time"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/facturator/backend/internal/application/invoicing"

// MessageBus dispatches commands to their handlers.
//
// Every dispatch opens one unit of work, hands it to the handler and closes it afterwards.
// Handler errors are logged and returned unchanged; the bus never retries.
type MessageBus struct {
	uowFactory UnitOfWorkFactory
	handlers   *CommandHandlers
	events     shared.EventPublisher
	logger     *zap.Logger

	tracer   trace.Tracer
	commands metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMessageBus creates a MessageBus. events may be nil.
func NewMessageBus(uowFactory UnitOfWorkFactory, handlers *CommandHandlers, events shared.EventPublisher, logger *zap.Logger) *MessageBus {
	meter := otel.Meter(instrumentationName)
	commands, err := meter.Int64Counter("facturator.bus.commands",
		metric.WithDescription("Commands dispatched by the message bus"))
	if err != nil {
		logger.Warn("Failed to create bus command counter", zap.Error(err))
	}
	duration, err := meter.Float64Histogram("facturator.bus.duration",
		metric.WithDescription("Command handling duration"),
		metric.WithUnit("ms"))
	if err != nil {
		logger.Warn("Failed to create bus duration histogram", zap.Error(err))
	}

	return &MessageBus{
		uowFactory: uowFactory,
		handlers:   handlers,
		events:     events,
		logger:     logger,
		tracer:     otel.Tracer(instrumentationName),
		commands:   commands,
		duration:   duration,
	}
}

// Handle opens a unit of work and dispatches msg to its handler.
// The result is a single-element slice holding the handler's return value.
func (b *MessageBus) Handle(ctx context.Context, msg any) ([]any, error) {
	cmd, ok := msg.(invoicing.Command)
	if !ok || cmd == nil {
		err := errUnknownCommand(msg)
		b.logger.Error("Message is not a command", zap.Error(err))
		return nil, err
	}

	uow, err := b.uowFactory.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := uow.Close(); closeErr != nil {
			b.logger.Warn("Failed to close unit of work", zap.String("command", cmd.CommandName()), zap.Error(closeErr))
		}
	}()

	return b.Dispatch(ctx, cmd, uow)
}

// Dispatch runs cmd's handler inside an already opened unit of work.
func (b *MessageBus) Dispatch(ctx context.Context, cmd invoicing.Command, uow UnitOfWork) ([]any, error) {
	name := cmd.CommandName()
	ctx, span := b.tracer.Start(ctx, "bus."+name, trace.WithAttributes(attribute.String("command", name)))
	defer span.End()

	start := time.Now()
	b.logger.Debug("Handling command", zap.String("command", name))

	result, err := cmd.Accept(ctx, &commandDispatcher{handlers: b.handlers, uow: uow})
	b.record(ctx, name, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.Error("Exception happened while handling command",
			zap.String("command", name),
			zap.Error(err),
		)
		return nil, err
	}

	if b.events != nil {
		if events := uow.Events(); len(events) > 0 {
			if pubErr := b.events.Publish(ctx, events...); pubErr != nil {
				b.logger.Warn("Failed to publish domain events", zap.String("command", name), zap.Error(pubErr))
			}
		}
	}

	return []any{result}, nil
}

func (b *MessageBus) record(ctx context.Context, name string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("outcome", outcome),
	)
	if b.commands != nil {
		b.commands.Add(ctx, 1, attrs)
	}
	if b.duration != nil {
		b.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	}
}

// commandDispatcher routes every command variant to its handler
type commandDispatcher struct {
	handlers *CommandHandlers
	uow      UnitOfWork
}

var _ invoicing.CommandVisitor = (*commandDispatcher)(nil)

func (d *commandDispatcher) VisitAddPayer(ctx context.Context, cmd invoicing.AddPayer) (any, error) {
	return d.handlers.AddPayer(ctx, d.uow, cmd)
}

func (d *commandDispatcher) VisitUpdatePayer(ctx context.Context, cmd invoicing.UpdatePayer) (any, error) {
	return d.handlers.UpdatePayer(ctx, d.uow, cmd)
}

func (d *commandDispatcher) VisitDeletePayer(ctx context.Context, cmd invoicing.DeletePayer) (any, error) {
	return d.handlers.DeletePayer(ctx, d.uow, cmd)
}

func (d *commandDispatcher) VisitAddOrder(ctx context.Context, cmd invoicing.AddOrder) (any, error) {
	return d.handlers.AddOrder(ctx, d.uow, cmd)
}

func (d *commandDispatcher) VisitUpdateOrder(ctx context.Context, cmd invoicing.UpdateOrder) (any, error) {
	return d.handlers.UpdateOrder(ctx, d.uow, cmd)
}

func (d *commandDispatcher) VisitDeleteOrder(ctx context.Context, cmd invoicing.DeleteOrder) (any, error) {
	return d.handlers.DeleteOrder(ctx, d.uow, cmd)
}

func (d *commandDispatcher) VisitUploadOrders(ctx context.Context, cmd invoicing.UploadOrders) (any, error) {
	return d.handlers.UploadOrders(ctx, d.uow, cmd)
}
