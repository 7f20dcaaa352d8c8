package invoicing

import (
	"fmt"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Line is one billable line of an invoice
type Line struct {
	Units    decimal.Decimal `json:"units"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// PriceTiers holds the two unit prices used to split a quantity into lines.
// First must be lower than Second.
type PriceTiers struct {
	First  decimal.Decimal
	Second decimal.Decimal
}

// DefaultPriceTiers returns the 50/60 tiers
func DefaultPriceTiers() PriceTiers {
	return PriceTiers{
		First:  decimal.NewFromInt(50),
		Second: decimal.NewFromInt(60),
	}
}

// CalculateLines splits qty into lines with the default tiers
func CalculateLines(qty decimal.Decimal) ([]Line, error) {
	return DefaultPriceTiers().Lines(qty)
}

// Lines splits qty into at most two lines.
//
// The second-tier unit count is (qty mod First) / (Second - First); the first tier takes
// whatever quantity remains. A tier with zero units is omitted.
func (t PriceTiers) Lines(qty decimal.Decimal) ([]Line, error) {
	if t.First.GreaterThanOrEqual(t.Second) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity,
			fmt.Sprintf("first tier price %s must be lower than second tier price %s", t.First, t.Second))
	}
	if qty.LessThan(t.First) {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity,
			fmt.Sprintf("quantity %s must be at least %s", qty, t.First))
	}

	diff := t.Second.Sub(t.First)

	type2No := qty.Mod(t.First).Div(diff)
	type2Qty := type2No.Mul(t.Second)

	type1Qty := qty.Sub(type2Qty)
	type1No := type1Qty.Div(t.First)

	lines := make([]Line, 0, 2)
	if !type1No.IsZero() {
		lines = append(lines, Line{Units: type1No, Price: t.First, Subtotal: type1Qty})
	}
	if !type2No.IsZero() {
		lines = append(lines, Line{Units: type2No, Price: t.Second, Subtotal: type2Qty})
	}
	return lines, nil
}
