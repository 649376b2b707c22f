package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSilencedInTestBinaries(t *testing.T) {
	// The testing package registered its flags before this runs, so the
	// lazily initialized global must come up disabled.
	require.Equal(t, zerolog.Disabled, Logger().GetLevel())
}

func TestSetAndDisable(t *testing.T) {
	defer Set(zerolog.Nop())

	var buffer bytes.Buffer
	Set(zerolog.New(&buffer))
	l := Logger()
	l.Info().Msg("ping")
	require.NotZero(t, buffer.Len())

	buffer.Reset()
	Disable()
	l = Logger()
	l.Info().Msg("ping")
	require.Zero(t, buffer.Len())
}

func TestSetOutput(t *testing.T) {
	defer Set(zerolog.Nop())

	var buffer bytes.Buffer
	Set(zerolog.New(&bytes.Buffer{}).Level(zerolog.InfoLevel))
	SetOutput(&buffer)
	l := Logger()
	l.Info().Msg("ping")
	require.NotZero(t, buffer.Len())
}
