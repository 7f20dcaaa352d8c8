package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError(CodeNotFound, "Payer with id 42 not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrNotUnique))

	wrapped := fmt.Errorf("handler failed: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestDomainError_WrapKeepsCause(t *testing.T) {
	cause := errors.New("FOREIGN KEY constraint failed")
	err := Wrap(CodeIntegrityViolation, "payer is still referenced", cause)

	assert.True(t, errors.Is(err, ErrIntegrityViolation))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "payer is still referenced: FOREIGN KEY constraint failed", err.Error())

	var de *DomainError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &de))
	assert.Equal(t, CodeIntegrityViolation, de.Code)
}
