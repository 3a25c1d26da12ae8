package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("warn")
	require.Equal(t, zerolog.WarnLevel, Log.GetLevel())

	SetLevel("nonsense")
	require.Equal(t, zerolog.InfoLevel, Log.GetLevel())
}

func TestSetJSONKeepsLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("error")
	SetJSON()
	require.Equal(t, zerolog.ErrorLevel, Log.GetLevel())
}
