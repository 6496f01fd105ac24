package domain

import (
	"errors"
	"time"
)

var (
	// ErrMissingAccessToken reports a token without a bearer credential.
	ErrMissingAccessToken = errors.New("domain: bearer token has no access token")

	// ErrMissingExpiry reports a token whose expiry has not been computed.
	// Tokens are not usable or storable until SetExpiry has run.
	ErrMissingExpiry = errors.New("domain: bearer token has no expiry")

	// ErrMissingRefreshToken reports a refresh-token pair without the
	// refresh credential.
	ErrMissingRefreshToken = errors.New("domain: refresh token is missing")
)

// BearerToken is an issued access token together with its derived expiry.
// Once validated and stored it is immutable; a newer fetch supersedes it
// wholesale.
type BearerToken struct {
	AccessToken string
	TokenType   string
	Scope       string

	// ExpiresIn is the provider-declared lifetime in seconds at issuance.
	ExpiresIn int

	// ExpiresAt is derived, never provider-supplied: issuedAt + ExpiresIn in
	// UTC. The zero value means SetExpiry has not run yet.
	ExpiresAt time.Time
}

// SetExpiry computes ExpiresAt from the issuance instant. The result is
// always UTC regardless of issuedAt's location.
func (t *BearerToken) SetExpiry(issuedAt time.Time) {
	t.ExpiresAt = issuedAt.UTC().Add(time.Duration(t.ExpiresIn) * time.Second)
}

// Validate checks the token is well formed. It fails closed on malformed
// provider responses (no access token, no declared lifetime) and on tokens
// whose expiry was never computed.
func (t BearerToken) Validate() error {
	if t.AccessToken == "" {
		return ErrMissingAccessToken
	}
	if t.ExpiresIn <= 0 || t.ExpiresAt.IsZero() {
		return ErrMissingExpiry
	}
	return nil
}

// Valid reports whether the token is still usable at the given instant.
// A token expiring exactly at now counts as expired.
func (t BearerToken) Valid(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.UTC().Before(t.ExpiresAt)
}

// BearerRefreshToken is a token pair from the authorization_code grant (or a
// refresh_token grant where the provider re-issued the refresh credential).
type BearerRefreshToken struct {
	BearerToken

	RefreshToken string
}

// Validate checks everything BearerToken requires plus a present refresh
// token.
func (t BearerRefreshToken) Validate() error {
	if err := t.BearerToken.Validate(); err != nil {
		return err
	}
	if t.RefreshToken == "" {
		return ErrMissingRefreshToken
	}
	return nil
}
