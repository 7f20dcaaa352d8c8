package invoicing

import (
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypePayerRegistered = "PayerRegistered"
	EventTypeRepeatedPayer   = "RepeatedPayer"
	EventTypeOrdersUploaded  = "OrdersUploaded"
)

// PayerRegisteredEvent is published when a new payer is stored
type PayerRegisteredEvent struct {
	shared.BaseDomainEvent
	PayerID uuid.UUID `json:"payer_id"`
	Name    string    `json:"name"`
}

// NewPayerRegisteredEvent creates a new PayerRegisteredEvent
func NewPayerRegisteredEvent(p *Payer) *PayerRegisteredEvent {
	return &PayerRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePayerRegistered, AggregateTypePayer, p.ID),
		PayerID:         p.ID,
		Name:            p.Name,
	}
}

// RepeatedPayerEvent is published when a payer is registered under a name already in use
type RepeatedPayerEvent struct {
	shared.BaseDomainEvent
	PayerID    uuid.UUID `json:"payer_id"`
	ExistingID uuid.UUID `json:"existing_id"`
	Name       string    `json:"name"`
}

// NewRepeatedPayerEvent creates a new RepeatedPayerEvent
func NewRepeatedPayerEvent(p, existing *Payer) *RepeatedPayerEvent {
	return &RepeatedPayerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRepeatedPayer, AggregateTypePayer, p.ID),
		PayerID:         p.ID,
		ExistingID:      existing.ID,
		Name:            p.Name,
	}
}

// OrdersUploadedEvent is published after a bank statement produced new orders
type OrdersUploadedEvent struct {
	shared.BaseDomainEvent
	Count       int             `json:"count"`
	Unallocated int             `json:"unallocated"`
	Total       decimal.Decimal `json:"total"`
	FirstNumber string          `json:"first_number,omitempty"`
	LastNumber  string          `json:"last_number,omitempty"`
}

// NewOrdersUploadedEvent summarises an uploaded batch
func NewOrdersUploadedEvent(orders []*InvoiceOrder) *OrdersUploadedEvent {
	e := &OrdersUploadedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrdersUploaded, AggregateTypeOrder, uuid.Nil),
		Count:           len(orders),
		Total:           decimal.Zero,
	}
	for i, o := range orders {
		e.Total = e.Total.Add(o.Quantity)
		if o.PayerID == nil {
			e.Unallocated++
		}
		if o.Number == nil {
			continue
		}
		if i == 0 {
			e.FirstNumber = *o.Number
		}
		e.LastNumber = *o.Number
	}
	return e
}
