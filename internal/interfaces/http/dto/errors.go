package dto

import (
	"net/http"

	"github.com/facturator/backend/internal/domain/shared"
)

// Codes raised by the HTTP layer itself. Domain failures keep their shared.Code* value.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeRequestTooLarge = "REQUEST_TOO_LARGE"
	CodeInternal        = "INTERNAL_ERROR"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeNotUnique:           http.StatusConflict,
	shared.CodeIntegrityViolation:  http.StatusNotAcceptable,
	shared.CodeInvalidCommand:      http.StatusBadRequest,
	shared.CodeInvalidQuantity:     http.StatusBadRequest,
	shared.CodeInvalidStatement:    http.StatusBadRequest,
	shared.CodeInvalidInput:        http.StatusBadRequest,
	shared.CodeAlreadyNumbered:     http.StatusConflict,
	shared.CodeDuplicateUpload:     http.StatusConflict,
	shared.CodeAlreadyExists:       http.StatusConflict,
	shared.CodeUnauthorized:        http.StatusUnauthorized,
	shared.CodeUnrecognizedMessage: http.StatusInternalServerError,

	CodeBadRequest:      http.StatusBadRequest,
	CodeValidation:      http.StatusBadRequest,
	CodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	CodeInternal:        http.StatusInternalServerError,
	CodeUnavailable:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
