package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets errors.Is(err, shared.ErrNotFound) match errors built with a custom message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a domain error carrying an underlying cause
func Wrap(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error codes
const (
	CodeInvalidCommand      = "INVALID_COMMAND"
	CodeNotFound            = "NOT_FOUND"
	CodeNotUnique           = "NOT_UNIQUE"
	CodeAlreadyNumbered     = "ALREADY_NUMBERED"
	CodeIntegrityViolation  = "INTEGRITY_VIOLATION"
	CodeUnrecognizedMessage = "UNRECOGNIZED_MESSAGE"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInvalidStatement    = "INVALID_STATEMENT"
	CodeDuplicateUpload     = "DUPLICATE_UPLOAD"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
)

// Common domain errors
var (
	ErrInvalidCommand      = NewDomainError(CodeInvalidCommand, "Command is missing required fields")
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrNotUnique           = NewDomainError(CodeNotUnique, "More than one resource matched")
	ErrAlreadyNumbered     = NewDomainError(CodeAlreadyNumbered, "Order number is already associated with an invoice")
	ErrIntegrityViolation  = NewDomainError(CodeIntegrityViolation, "Operation violates a referential constraint")
	ErrUnrecognizedMessage = NewDomainError(CodeUnrecognizedMessage, "No handler registered for message")
	ErrInvalidQuantity     = NewDomainError(CodeInvalidQuantity, "Invalid quantity")
	ErrInvalidStatement    = NewDomainError(CodeInvalidStatement, "Bank statement could not be parsed")
	ErrDuplicateUpload     = NewDomainError(CodeDuplicateUpload, "Statement has already been uploaded")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)
