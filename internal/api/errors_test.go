package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	t.Run("message only", func(t *testing.T) {
		t.Parallel()
		err := &Error{Kind: KindServer, Message: "backend exploded"}
		require.Equal(t, "backend exploded", err.Error())
	})

	t.Run("message with details", func(t *testing.T) {
		t.Parallel()
		err := &Error{Kind: KindServer, Message: "backend exploded", Details: "stack trace"}
		require.Equal(t, "backend exploded (stack trace)", err.Error())
	})

	t.Run("user message is never empty", func(t *testing.T) {
		t.Parallel()
		err := &Error{Kind: KindNetwork}
		require.NotEmpty(t, err.UserMessage())
	})
}

func TestMessage(t *testing.T) {
	t.Parallel()

	t.Run("nil error yields empty", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, "", Message(nil))
	})

	t.Run("api errors pass through", func(t *testing.T) {
		t.Parallel()
		err := &Error{Kind: KindServer, Message: "nope"}
		require.Equal(t, "nope", Message(err))
	})

	t.Run("foreign errors fall back to the generic message", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, genericFailure, Message(errors.New("some internal thing")))
	})
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	require.True(t, IsNotFound(&Error{Kind: KindNotFound, Message: "gone"}))
	require.False(t, IsNotFound(&Error{Kind: KindServer, Message: "boom"}))
	require.False(t, IsNotFound(errors.New("gone")))
}
