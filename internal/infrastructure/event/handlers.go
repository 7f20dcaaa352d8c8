package event

import (
	"context"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RepeatedPayerNotifier warns when a payer is registered under a name another payer
// already uses. Matching by name becomes ambiguous from then on.
type RepeatedPayerNotifier struct {
	logger *zap.Logger
}

// NewRepeatedPayerNotifier creates a RepeatedPayerNotifier
func NewRepeatedPayerNotifier(log *zap.Logger) *RepeatedPayerNotifier {
	return &RepeatedPayerNotifier{logger: log}
}

// EventTypes implements shared.EventHandler
func (n *RepeatedPayerNotifier) EventTypes() []string {
	return []string{invoicing.EventTypeRepeatedPayer}
}

// Handle implements shared.EventHandler
func (n *RepeatedPayerNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*invoicing.RepeatedPayerEvent)
	if !ok {
		return nil
	}
	logger.Enrich(ctx, n.logger).Warn("Payer name is already in use",
		zap.String("name", e.Name),
		zap.String("payer_id", e.PayerID.String()),
		zap.String("existing_id", e.ExistingID.String()),
	)
	return nil
}

// UploadAuditLogger records every bank statement upload
type UploadAuditLogger struct {
	logger *zap.Logger
}

// NewUploadAuditLogger creates an UploadAuditLogger
func NewUploadAuditLogger(log *zap.Logger) *UploadAuditLogger {
	return &UploadAuditLogger{logger: log}
}

// EventTypes implements shared.EventHandler
func (a *UploadAuditLogger) EventTypes() []string {
	return []string{invoicing.EventTypeOrdersUploaded}
}

// Handle implements shared.EventHandler
func (a *UploadAuditLogger) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*invoicing.OrdersUploadedEvent)
	if !ok {
		return nil
	}
	fields := []zap.Field{
		zap.Int("count", e.Count),
		zap.Int("unallocated", e.Unallocated),
		zap.String("total", e.Total.String()),
	}
	if e.FirstNumber != "" {
		fields = append(fields,
			zap.String("first_number", e.FirstNumber),
			zap.String("last_number", e.LastNumber),
		)
	}
	logger.Enrich(ctx, a.logger).Info("Orders uploaded", fields...)
	return nil
}

// RegisterInvoicingHandlers subscribes the invoicing event handlers to bus
func RegisterInvoicingHandlers(bus shared.EventSubscriber, log *zap.Logger) {
	bus.Subscribe(NewRepeatedPayerNotifier(log))
	bus.Subscribe(NewUploadAuditLogger(log))
}
