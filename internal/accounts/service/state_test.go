package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeStateRoundTrip(t *testing.T) {
	t.Parallel()

	userHash := "E11AC28A33E3B2C2D87EAB21C0A3D0C4F1A9B0D2E3F4A5B6C7D8E9F0A1B2C3D4"
	nonce := "e80aa62d"

	state := EncodeState(userHash, nonce)
	require.Equal(t, userHash+"|"+nonce, state)

	gotHash, gotNonce, err := DecodeState(state)
	require.NoError(t, err)
	require.Equal(t, userHash, gotHash)
	require.Equal(t, nonce, gotNonce)
}

func TestDecodeStateRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"noDelimiterHere",
		"",
		"|",
		"hash|",
		"|nonce",
		"a|b|c",
	} {
		_, _, err := DecodeState(in)
		require.ErrorIs(t, err, ErrInvalidState, "input %q", in)
	}
}
