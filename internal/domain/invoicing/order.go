package invoicing

import (
	"time"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type name used by order events
const AggregateTypeOrder = "InvoiceOrder"

// DateLayout is the wire format of order dates
const DateLayout = "2006-01-02"

// InvoiceOrder is a billable event associated with a payer
type InvoiceOrder struct {
	shared.BaseAggregateRoot
	PayerName string
	Date      time.Time
	Quantity  decimal.Decimal
	Number    *string
	PayerID   *uuid.UUID

	payer *Payer
}

// NewInvoiceOrder creates an order; the payer name is stored uppercased
func NewInvoiceOrder(id uuid.UUID, payerName string, date time.Time, quantity decimal.Decimal, number *string) *InvoiceOrder {
	return &InvoiceOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(id),
		PayerName:         NormalizeName(payerName),
		Date:              truncateDate(date),
		Quantity:          quantity,
		Number:            number,
	}
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AllocatePayer links the order to a payer. A nil payer unlinks it.
func (o *InvoiceOrder) AllocatePayer(p *Payer) {
	o.payer = p
	if p == nil {
		o.PayerID = nil
		return
	}
	id := p.ID
	o.PayerID = &id
}

// AllocatedPayer returns the linked payer, if loaded
func (o *InvoiceOrder) AllocatedPayer() *Payer {
	return o.payer
}

// HasNumber reports whether an invoice number was assigned
func (o *InvoiceOrder) HasNumber() bool {
	return o.Number != nil
}

// AssignNumber sets the invoice number. A number, once assigned, is immutable.
func (o *InvoiceOrder) AssignNumber(number string) error {
	if o.Number != nil {
		return alreadyNumbered(*o.Number)
	}
	o.Number = &number
	return nil
}

func alreadyNumbered(number string) error {
	return shared.NewDomainError(shared.CodeAlreadyNumbered,
		"Order number is already associated with an invoice: "+number)
}

// SameNaturalKey compares orders by (payer_name, date, quantity, number).
// Maps and sets must key orders by ID instead.
func (o *InvoiceOrder) SameNaturalKey(other *InvoiceOrder) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.PayerName == other.PayerName &&
		o.Date.Equal(other.Date) &&
		o.Quantity.Equal(other.Quantity) &&
		equalNumber(o.Number, other.Number)
}

func equalNumber(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Lines computes the pricing lines of the order with the default tiers
func (o *InvoiceOrder) Lines() ([]Line, error) {
	return CalculateLines(o.Quantity)
}

// OrderPatch is a partial update; only present fields are written
type OrderPatch struct {
	PayerName shared.Optional[string]
	Date      shared.Optional[time.Time]
	Quantity  shared.Optional[decimal.Decimal]
	Number    shared.Optional[string]
}

// Apply writes the present fields of the patch onto the order.
// A number different from the assigned one fails with ALREADY_NUMBERED and leaves the order
// untouched; repeating the assigned number is a no-op.
// Re-allocating the payer after a name change is the caller's job.
func (o *InvoiceOrder) Apply(patch OrderPatch) error {
	number, setNumber := patch.Number.Get()
	if setNumber && o.Number != nil {
		if *o.Number != number {
			return alreadyNumbered(*o.Number)
		}
		setNumber = false
	}

	if name, ok := patch.PayerName.Get(); ok {
		o.PayerName = NormalizeName(name)
	}
	if date, ok := patch.Date.Get(); ok {
		o.Date = truncateDate(date)
	}
	patch.Quantity.ApplyTo(&o.Quantity)
	if setNumber {
		if err := o.AssignNumber(number); err != nil {
			return err
		}
	}
	o.Touch()
	return nil
}

// OrderView is the flat representation returned by handlers
type OrderView struct {
	ID        uuid.UUID       `json:"id"`
	PayerName string          `json:"payer_name"`
	Date      string          `json:"date"`
	Quantity  decimal.Decimal `json:"quantity"`
	Number    *string         `json:"number"`
	PayerID   *uuid.UUID      `json:"payer_id"`
}

// View returns the flat representation of the order
func (o *InvoiceOrder) View() OrderView {
	return OrderView{
		ID:        o.ID,
		PayerName: o.PayerName,
		Date:      o.Date.Format(DateLayout),
		Quantity:  o.Quantity,
		Number:    o.Number,
		PayerID:   o.PayerID,
	}
}

// OrderDescriptor describes invoice orders to generic repositories
type OrderDescriptor struct{}

// EntityName returns the entity name
func (OrderDescriptor) EntityName() string { return "invoice order" }

// DefaultFilterField returns the column used by Get
func (OrderDescriptor) DefaultFilterField() string { return "payer_name" }
