package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", shared.NewDomainError(shared.CodeNotFound, "Order not found"), http.StatusNotFound, "NOT_FOUND", "Order not found"},
		{"integrity violation", shared.ErrIntegrityViolation, http.StatusNotAcceptable, "INTEGRITY_VIOLATION", ""},
		{"wrapped already numbered", fmt.Errorf("update: %w", shared.NewDomainError(shared.CodeAlreadyNumbered, "Order already has a number")), http.StatusConflict, "ALREADY_NUMBERED", "Order already has a number"},
		{"invalid command", shared.NewDomainError(shared.CodeInvalidCommand, "All attributes must be provided"), http.StatusBadRequest, "INVALID_COMMAND", ""},
		{"infrastructure failure", errors.New("connection reset by peer"), http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			info := decodeError(t, w)
			assert.Equal(t, tt.wantCode, info.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, info.Message)
			}
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestFirstResult(t *testing.T) {
	v, err := firstResult[string]([]any{"deleted-id"})
	assert.NoError(t, err)
	assert.Equal(t, "deleted-id", v)

	_, err = firstResult[string](nil)
	assert.Error(t, err)

	_, err = firstResult[string]([]any{42})
	assert.Error(t, err)
}
