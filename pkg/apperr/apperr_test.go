package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(Conflict("booking already paid")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("booking %s not found", "BK-1")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain error")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	cause := Validation("amount must be positive")
	wrapped := fmt.Errorf("create refund ticket: %w", cause)

	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindValidation))
	assert.False(t, IsKind(wrapped, KindConflict))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := External(cause, "query bank gateway")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "query bank gateway: connection refused", err.Error())
	assert.Equal(t, KindExternal, KindOf(err))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "internal", KindInternal.String())
	assert.Equal(t, "internal", Kind(99).String())
}
