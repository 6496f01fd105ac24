package service

import "strings"

// stateDelimiter separates the user hash from the nonce inside the combined
// state value. Both halves are hex strings, so neither can contain the
// delimiter; any input that could is rejected by DecodeState's part count.
const stateDelimiter = "|"

// EncodeState combines a user hash and a nonce into the anti-forgery state
// value carried through the authorization redirect. Both inputs must be
// delimiter-free; hex-encoded values always are.
func EncodeState(userHash, nonce string) string {
	return userHash + stateDelimiter + nonce
}

// DecodeState splits a combined state value back into its user hash and
// nonce. Returns ErrInvalidState unless the split yields exactly two
// non-empty parts.
func DecodeState(state string) (userHash, nonce string, err error) {
	parts := strings.Split(state, stateDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidState
	}
	return parts[0], parts[1], nil
}
