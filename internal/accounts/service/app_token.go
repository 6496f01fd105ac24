package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/store"
)

// AppTokenKey is the fixed store key for the single shared app-level token.
const AppTokenKey = "accounts:app-token"

// AppTokenService hands out the shared app-level access token obtained via
// the client_credentials grant. It holds no token state itself: the store
// owns the cached entry, so one service instance can be shared by
// arbitrarily many concurrent callers.
//
// Concurrent cache misses on the same key each perform their own fetch and
// write (last write wins). The duplicate round trip is harmless because both
// tokens are independently valid; wrap the service in a SingleFlight to
// collapse the misses instead.
type AppTokenService struct {
	tokens  store.TokenStore
	fetcher TokenFetcher
	logger  *slog.Logger

	now func() time.Time
}

func NewAppTokenService(tokens store.TokenStore, fetcher TokenFetcher, logger *slog.Logger) *AppTokenService {
	return &AppTokenService{
		tokens:  tokens,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// GetAccessToken returns a valid app-level bearer token, fetching a fresh one
// only when the cached token is absent or expired. A token expiring exactly
// now counts as expired.
func (s *AppTokenService) GetAccessToken(ctx context.Context) (string, error) {
	cached, err := s.tokens.Get(ctx, AppTokenKey)
	switch {
	case err == nil && cached.Valid(s.now()):
		return cached.AccessToken, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("token store lookup: %w", err)
	}

	resp, err := s.fetcher.ClientCredentialsGrant(ctx)
	if err != nil {
		return "", fmt.Errorf("client credentials grant: %w", err)
	}

	token := bearerFromResponse(resp, s.now())
	if err := token.Validate(); err != nil {
		return "", fmt.Errorf("malformed token response: %w", err)
	}

	if err := s.tokens.InsertOrReplace(ctx, AppTokenKey, token); err != nil {
		return "", fmt.Errorf("token store write: %w", err)
	}

	s.logger.Debug("app token refreshed", "expires_at", token.ExpiresAt)
	return token.AccessToken, nil
}
