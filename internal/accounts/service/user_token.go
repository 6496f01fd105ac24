package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
	"github.com/crescendoapp/crescendo/internal/accounts/store"
)

// RefreshTokenProvider supplies a user's long-lived refresh token. An empty
// string means the user has none and must (re)run the authorization code
// flow.
type RefreshTokenProvider interface {
	RefreshToken(ctx context.Context, userKey string) (string, error)
}

// UserAuthRefreshTokens adapts a UserAuthStore into a RefreshTokenProvider,
// so refresh tokens persisted by the authorization-code handshake feed the
// user token service directly.
type UserAuthRefreshTokens struct {
	UserAuth store.UserAuthStore
}

var _ RefreshTokenProvider = UserAuthRefreshTokens{}

func (p UserAuthRefreshTokens) RefreshToken(ctx context.Context, userKey string) (string, error) {
	rec, err := p.UserAuth.Get(ctx, userKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.RefreshToken, nil
}

// UserTokenService hands out per-user access tokens via the refresh_token
// grant, cached in the token store under the user's hash. Like
// AppTokenService it holds no mutable state beyond configuration.
type UserTokenService struct {
	tokens        store.TokenStore
	refreshTokens RefreshTokenProvider
	fetcher       TokenFetcher
	logger        *slog.Logger

	now func() time.Time
}

func NewUserTokenService(
	tokens store.TokenStore,
	refreshTokens RefreshTokenProvider,
	fetcher TokenFetcher,
	logger *slog.Logger,
) *UserTokenService {
	return &UserTokenService{
		tokens:        tokens,
		refreshTokens: refreshTokens,
		fetcher:       fetcher,
		logger:        logger,
		now:           time.Now,
	}
}

// GetToken returns a valid bearer token for the user identified by userKey.
// A user with no refresh token fails with ErrNoRefreshToken before any call
// to the token endpoint is made.
func (s *UserTokenService) GetToken(ctx context.Context, userKey string) (domain.BearerToken, error) {
	refreshToken, err := s.refreshTokens.RefreshToken(ctx, userKey)
	if err != nil {
		return domain.BearerToken{}, fmt.Errorf("refresh token lookup: %w", err)
	}
	if refreshToken == "" {
		return domain.BearerToken{}, ErrNoRefreshToken
	}

	cached, err := s.tokens.Get(ctx, userKey)
	switch {
	case err == nil && cached.Valid(s.now()):
		return cached, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return domain.BearerToken{}, fmt.Errorf("token store lookup: %w", err)
	}

	resp, err := s.fetcher.RefreshGrant(ctx, refreshToken)
	if err != nil {
		return domain.BearerToken{}, fmt.Errorf("refresh grant: %w", err)
	}

	token := bearerFromResponse(resp, s.now())
	if err := token.Validate(); err != nil {
		return domain.BearerToken{}, fmt.Errorf("malformed token response: %w", err)
	}

	if err := s.tokens.InsertOrReplace(ctx, userKey, token); err != nil {
		return domain.BearerToken{}, fmt.Errorf("token store write: %w", err)
	}

	s.logger.Debug("user token refreshed", "user", userKey, "expires_at", token.ExpiresAt)
	return token, nil
}

// GetAccessToken is the string contract consumed by the endpoint-wrapper
// layer.
func (s *UserTokenService) GetAccessToken(ctx context.Context, userKey string) (string, error) {
	token, err := s.GetToken(ctx, userKey)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// AuthorizeURL builds the provider authorize redirect URL with the supplied
// state embedded verbatim. Generating and validating state is the
// authorization-code handshake's job.
func (s *UserTokenService) AuthorizeURL(state string, scopes []string) string {
	return s.fetcher.AuthorizeURL(state, scopes)
}
