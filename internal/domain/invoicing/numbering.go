package invoicing

import "fmt"

// FormatCode formats an invoice code as {prefix}-{number:04d}
func FormatCode(prefix string, number int64) string {
	return fmt.Sprintf("%s-%04d", prefix, number)
}

// CodeGenerator yields sequential invoice codes.
// It is not safe for concurrent use; build one per batch.
type CodeGenerator struct {
	prefix string
	last   int64
}

// NewCodeGenerator creates a generator whose first code is start+1
func NewCodeGenerator(prefix string, start int64) *CodeGenerator {
	return &CodeGenerator{prefix: prefix, last: start}
}

// Next increments the counter and returns the formatted code
func (g *CodeGenerator) Next() string {
	g.last++
	return FormatCode(g.prefix, g.last)
}

// Last returns the last issued number, or the start if nothing was issued
func (g *CodeGenerator) Last() int64 {
	return g.last
}

// Prefix returns the fixed part of the generated codes
func (g *CodeGenerator) Prefix() string {
	return g.prefix
}

// AssociateNumber assigns the next code to the order.
// An order that already carries a number is left untouched and ALREADY_NUMBERED is returned.
func AssociateNumber(order *InvoiceOrder, gen *CodeGenerator) error {
	if order.HasNumber() {
		return alreadyNumbered(*order.Number)
	}
	return order.AssignNumber(gen.Next())
}

// Sequence is the persisted high-water mark of a code prefix
type Sequence struct {
	Prefix    string
	LastValue int64
}
