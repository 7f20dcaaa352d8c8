package invoicing

import (
	"context"

	"github.com/facturator/backend/internal/domain/shared"
)

// PayerRepository gives access to payers inside a unit of work
type PayerRepository interface {
	shared.Repository[Payer]
}

// OrderRepository gives access to invoice orders inside a unit of work.
// Orders are returned with their allocated payer loaded.
type OrderRepository interface {
	shared.Repository[InvoiceOrder]
}

// SequenceRepository persists invoice numbering high-water marks
type SequenceRepository interface {
	// Find returns the sequence for prefix, or nil if none was stored
	Find(ctx context.Context, prefix string) (*Sequence, error)
	// Save upserts the sequence
	Save(ctx context.Context, seq *Sequence) error
}
