package cryptox

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HashUser returns a stable pseudonymous identifier for a username: the
// SHA3-256 digest rendered as uppercase hex. The raw username never needs to
// be stored alongside tokens. Hex output is guaranteed delimiter-free, which
// state encoding relies on.
func HashUser(username string) string {
	sum := sha3.Sum256([]byte(username))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
