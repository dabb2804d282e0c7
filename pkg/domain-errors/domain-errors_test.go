package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeNotFound, "partner not found")
	require.Error(t, err)
	assert.Equal(t, "partner not found", err.Error())
	assert.True(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(err, CodeInternal))
}

func TestErrorMessageFallsBackToCode(t *testing.T) {
	err := &Error{Code: CodeTimeout}
	assert.Equal(t, "timeout", err.Error())
}

func TestWrapPreservesExistingCode(t *testing.T) {
	inner := New(CodeNotFound, "no such did")
	wrapped := Wrap(inner, CodeInternal, "resolve partner")

	assert.True(t, HasCode(wrapped, CodeNotFound), "wrapping must not mask the original code")
	assert.ErrorIs(t, wrapped, inner)
}

func TestWrapPlainError(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	wrapped := Wrap(inner, CodeUnavailable, "profile lookup")

	assert.True(t, HasCode(wrapped, CodeUnavailable))
	assert.ErrorIs(t, wrapped, inner)
}

func TestIsMatchesByCode(t *testing.T) {
	a := New(CodeBadRequest, "one")
	b := New(CodeBadRequest, "two")
	assert.True(t, errors.Is(a, b))

	c := New(CodeInvalidInput, "three")
	assert.False(t, errors.Is(a, c))
}

func TestHasCodeOnNonDomainError(t *testing.T) {
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.False(t, HasCode(nil, CodeInternal))
}
