package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches the outer code", func(t *testing.T) {
		err := New(CodeCartMutationFailed, "could not add item")
		assert.True(t, HasCode(err, CodeCartMutationFailed))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches a code buried in the chain", func(t *testing.T) {
		inner := New(CodeAuthenticationRequired, "sign in again")
		err := Wrap(fmt.Errorf("POST /shop/cart: %w", inner), CodeCartMutationFailed, "could not add item")

		assert.True(t, HasCode(err, CodeCartMutationFailed))
		assert.True(t, HasCode(err, CodeAuthenticationRequired))
		assert.True(t, Is(err, CodeAuthenticationRequired))
	})

	t.Run("nil and plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(nil, CodeInternal))
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestErrorFormatting(t *testing.T) {
	err := Wrap(errors.New("connection refused"), CodeUnavailable, "backend unavailable")
	assert.Equal(t, "backend unavailable: connection refused", err.Error())
	require.ErrorIs(t, err, New(CodeUnavailable, "any message"))

	assert.Equal(t, CodeUnavailable, CodeOf(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "backend unavailable", MessageOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}
