package service

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/crescendoapp/crescendo/pkg/spotifyauth"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher records grant calls and plays back canned responses.
type fakeFetcher struct {
	mu sync.Mutex

	resp *spotifyauth.TokenResponse
	err  error

	clientCredentialsCalls int
	refreshCalls           int
	exchangeCalls          int

	lastRefreshToken string
	lastCode         string
}

func (f *fakeFetcher) ClientCredentialsGrant(context.Context) (*spotifyauth.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clientCredentialsCalls++
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	return &resp, nil
}

func (f *fakeFetcher) RefreshGrant(_ context.Context, refreshToken string) (*spotifyauth.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.refreshCalls++
	f.lastRefreshToken = refreshToken
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	return &resp, nil
}

func (f *fakeFetcher) ExchangeAuthorizationCode(_ context.Context, code string) (*spotifyauth.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.exchangeCalls++
	f.lastCode = code
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	return &resp, nil
}

func (f *fakeFetcher) AuthorizeURL(state string, scopes []string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	if len(scopes) > 0 {
		params.Set("scope", strings.Join(scopes, " "))
	}
	if state != "" {
		params.Set("state", state)
	}
	return "https://accounts.spotify.com/authorize/?" + params.Encode()
}

func (f *fakeFetcher) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clientCredentialsCalls + f.refreshCalls + f.exchangeCalls
}

// fakeRefreshTokens is a canned RefreshTokenProvider.
type fakeRefreshTokens struct {
	tokens map[string]string
	err    error
}

func (f *fakeRefreshTokens) RefreshToken(_ context.Context, userKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.tokens[userKey], nil
}
