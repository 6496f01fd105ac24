package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetExpiryAlwaysUTC(t *testing.T) {
	t.Parallel()

	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	issuedAt := time.Date(2020, 1, 1, 0, 0, 0, 0, sydney)

	tok := BearerToken{AccessToken: "at", ExpiresIn: 3600}
	tok.SetExpiry(issuedAt)

	require.Equal(t, time.UTC, tok.ExpiresAt.Location())
	require.Equal(t, issuedAt.UTC().Add(time.Hour), tok.ExpiresAt)
}

func TestValidateBearerToken(t *testing.T) {
	t.Parallel()

	t.Run("fails without access token", func(t *testing.T) {
		tok := BearerToken{ExpiresIn: 3600}
		tok.SetExpiry(time.Now())
		require.ErrorIs(t, tok.Validate(), ErrMissingAccessToken)
	})

	t.Run("fails without declared lifetime", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at"}
		tok.SetExpiry(time.Now())
		require.ErrorIs(t, tok.Validate(), ErrMissingExpiry)
	})

	t.Run("fails before SetExpiry", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at", ExpiresIn: 3600}
		require.ErrorIs(t, tok.Validate(), ErrMissingExpiry)
	})

	t.Run("succeeds once expiry is set", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at", ExpiresIn: 3600}
		tok.SetExpiry(time.Now())
		require.NoError(t, tok.Validate())
	})
}

func TestValidateBearerRefreshToken(t *testing.T) {
	t.Parallel()

	base := BearerToken{AccessToken: "at", ExpiresIn: 3600}
	base.SetExpiry(time.Now())

	t.Run("fails without refresh token even with expiry set", func(t *testing.T) {
		pair := BearerRefreshToken{BearerToken: base}
		require.ErrorIs(t, pair.Validate(), ErrMissingRefreshToken)
	})

	t.Run("succeeds with both set", func(t *testing.T) {
		pair := BearerRefreshToken{BearerToken: base, RefreshToken: "rt"}
		require.NoError(t, pair.Validate())
	})
}

func TestValidExpiryBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("token expiring exactly now is expired", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at", ExpiresIn: 60, ExpiresAt: now}
		require.False(t, tok.Valid(now))
	})

	t.Run("token expiring after now is valid", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at", ExpiresIn: 60, ExpiresAt: now.Add(time.Second)}
		require.True(t, tok.Valid(now))
	})

	t.Run("zero expiry is never valid", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at"}
		require.False(t, tok.Valid(now))
	})

	t.Run("comparison is timezone independent", func(t *testing.T) {
		tok := BearerToken{AccessToken: "at", ExpiresIn: 60, ExpiresAt: now.Add(time.Second)}
		require.True(t, tok.Valid(now.In(time.FixedZone("UTC+10", 10*3600))))
	})
}
