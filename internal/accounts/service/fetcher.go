package service

import (
	"context"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
	"github.com/crescendoapp/crescendo/pkg/spotifyauth"
)

// TokenFetcher performs the network exchanges against the accounts service.
// It is the only suspension point in the token services; everything else is
// store access. Satisfied by *spotifyauth.Client.
type TokenFetcher interface {
	ClientCredentialsGrant(ctx context.Context) (*spotifyauth.TokenResponse, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*spotifyauth.TokenResponse, error)
	ExchangeAuthorizationCode(ctx context.Context, code string) (*spotifyauth.TokenResponse, error)
	AuthorizeURL(state string, scopes []string) string
}

var _ TokenFetcher = (*spotifyauth.Client)(nil)

// bearerFromResponse maps a token endpoint response onto the domain token and
// stamps its expiry. Callers must still Validate before storing.
func bearerFromResponse(resp *spotifyauth.TokenResponse, issuedAt time.Time) domain.BearerToken {
	tok := domain.BearerToken{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		Scope:       resp.Scope,
		ExpiresIn:   resp.ExpiresIn,
	}
	tok.SetExpiry(issuedAt)
	return tok
}
