package telemetry

import (
	"context"
	"fmt"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics turns invoicing domain events into counters.
// It is subscribed to the event bus like any other handler.
type BusinessMetrics struct {
	payersRegistered metric.Int64Counter
	ordersUploaded   metric.Int64Counter
	uploadedAmount   metric.Float64Counter
	uploads          metric.Int64Counter
}

// NewBusinessMetrics creates the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	payersRegistered, err := meter.Int64Counter("facturator.payers.registered",
		metric.WithDescription("Payers stored, labelled by whether the name was already in use"))
	if err != nil {
		return nil, &MetricsError{Metric: "facturator.payers.registered", Err: err}
	}
	ordersUploaded, err := meter.Int64Counter("facturator.orders.uploaded",
		metric.WithDescription("Orders created from bank statements, labelled by allocation"))
	if err != nil {
		return nil, &MetricsError{Metric: "facturator.orders.uploaded", Err: err}
	}
	uploadedAmount, err := meter.Float64Counter("facturator.orders.uploaded_amount",
		metric.WithDescription("Sum of order quantities created from bank statements"),
		metric.WithUnit("EUR"))
	if err != nil {
		return nil, &MetricsError{Metric: "facturator.orders.uploaded_amount", Err: err}
	}
	uploads, err := meter.Int64Counter("facturator.statements.uploaded",
		metric.WithDescription("Bank statements turned into orders"))
	if err != nil {
		return nil, &MetricsError{Metric: "facturator.statements.uploaded", Err: err}
	}

	return &BusinessMetrics{
		payersRegistered: payersRegistered,
		ordersUploaded:   ordersUploaded,
		uploadedAmount:   uploadedAmount,
		uploads:          uploads,
	}, nil
}

// EventTypes implements shared.EventHandler
func (m *BusinessMetrics) EventTypes() []string {
	return []string{
		invoicing.EventTypePayerRegistered,
		invoicing.EventTypeRepeatedPayer,
		invoicing.EventTypeOrdersUploaded,
	}
}

// Handle implements shared.EventHandler
func (m *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *invoicing.PayerRegisteredEvent:
		m.payersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.Bool("repeated", false)))
	case *invoicing.RepeatedPayerEvent:
		m.payersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.Bool("repeated", true)))
	case *invoicing.OrdersUploadedEvent:
		m.uploads.Add(ctx, 1)
		allocated := e.Count - e.Unallocated
		if allocated > 0 {
			m.ordersUploaded.Add(ctx, int64(allocated), metric.WithAttributes(attribute.Bool("allocated", true)))
		}
		if e.Unallocated > 0 {
			m.ordersUploaded.Add(ctx, int64(e.Unallocated), metric.WithAttributes(attribute.Bool("allocated", false)))
		}
		m.uploadedAmount.Add(ctx, e.Total.InexactFloat64())
	}
	return nil
}

// MetricsError reports an instrument that could not be created
type MetricsError struct {
	Metric string
	Err    error
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("failed to create metric %s: %v", e.Metric, e.Err)
}

func (e *MetricsError) Unwrap() error {
	return e.Err
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
