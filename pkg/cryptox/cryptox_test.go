package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateNonce(t *testing.T) {
	t.Parallel()

	nonce, err := GenerateNonce()
	require.NoError(t, err)
	require.Len(t, nonce, 32)

	_, err = hex.DecodeString(nonce)
	require.NoError(t, err, "nonce must be valid hex")

	other, err := GenerateNonce()
	require.NoError(t, err)
	require.NotEqual(t, nonce, other)
}

func TestHashUser(t *testing.T) {
	t.Parallel()

	h := HashUser("alice")
	require.Len(t, h, 64)
	require.Equal(t, h, HashUser("alice"), "hash must be deterministic")
	require.NotEqual(t, h, HashUser("bob"))

	_, err := hex.DecodeString(h)
	require.NoError(t, err, "hash must be valid hex")
	require.NotContains(t, h, "|")
}
