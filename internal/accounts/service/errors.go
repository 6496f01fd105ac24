package service

import "errors"

// Authorization failures, distinct from transport and provider API errors.
// When a caller sees one of these the fix is to (re)run the authorization
// code flow, not to retry the request.
var (
	// ErrNoRefreshToken reports a user with no stored refresh token.
	ErrNoRefreshToken = errors.New("accounts: no refresh token for user, authorization required")

	// ErrInvalidState reports a malformed, forged or superseded state value
	// on an authorization callback.
	ErrInvalidState = errors.New("accounts: invalid authorization state")

	// ErrUnknownUser reports a callback for a user with no authorization
	// record.
	ErrUnknownUser = errors.New("accounts: no authorization record for user")
)
