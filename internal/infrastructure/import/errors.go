package statementimport

import (
	"fmt"

	"github.com/facturator/backend/internal/domain/shared"
)

// RowError locates a parsing failure inside the statement table.
// Row is the 1-based position of the row in the table.
type RowError struct {
	Row     int
	Column  string
	Message string
	Value   string
}

// Error implements the error interface
func (e RowError) Error() string {
	switch {
	case e.Column != "" && e.Value != "":
		return fmt.Sprintf("row %d, column '%s': %s (got %q)", e.Row, e.Column, e.Message, e.Value)
	case e.Column != "":
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	default:
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
}

// invalidStatement wraps cause as an INVALID_STATEMENT domain error
func invalidStatement(message string, cause error) error {
	return shared.Wrap(shared.CodeInvalidStatement, message, cause)
}

// invalidRow reports a malformed cell
func invalidRow(row int, column, message, value string) error {
	return invalidStatement("Bank statement could not be parsed", RowError{
		Row:     row,
		Column:  column,
		Message: message,
		Value:   value,
	})
}
