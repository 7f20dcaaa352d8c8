package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeIntegrityViolation, http.StatusNotAcceptable},
		{shared.CodeInvalidCommand, http.StatusBadRequest},
		{shared.CodeInvalidQuantity, http.StatusBadRequest},
		{shared.CodeInvalidStatement, http.StatusBadRequest},
		{shared.CodeInvalidInput, http.StatusBadRequest},
		{shared.CodeAlreadyNumbered, http.StatusConflict},
		{shared.CodeDuplicateUpload, http.StatusConflict},
		{shared.CodeAlreadyExists, http.StatusConflict},
		{shared.CodeNotUnique, http.StatusConflict},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{CodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestSuccessResponse_JSON(t *testing.T) {
	raw, err := json.Marshal(NewSuccessResponse(MessageData{Message: "ok"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"message":"ok"}}`, string(raw))
}

func TestErrorResponse_JSON(t *testing.T) {
	raw, err := json.Marshal(NewErrorResponseWithRequestID(shared.CodeNotFound, "Payer not found", "req-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Payer not found","request_id":"req-1"}}`, string(raw))
}

func TestValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "name", Message: "This field is required"},
	})
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 1)
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(resp.Error.Code))
}

func TestUpdatePayerRequest_OptionalFields(t *testing.T) {
	var req UpdatePayerRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"ana","city":null}`), &req))

	name, ok := req.Name.Get()
	assert.True(t, ok)
	assert.Equal(t, "ana", name)
	assert.False(t, req.City.IsPresent())
	assert.False(t, req.NIF.IsPresent())
}
