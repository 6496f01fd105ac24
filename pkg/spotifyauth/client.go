// Package spotifyauth implements the Spotify accounts-service wire protocol:
// the token endpoint exchanges (client_credentials, refresh_token and
// authorization_code grants) and the authorize redirect URL. It performs no
// caching and no retries; callers own both.
package spotifyauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTokenURL is the Spotify accounts token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultAuthorizeURL is the Spotify accounts authorize endpoint. The
	// trailing slash matches the provider's documented form.
	DefaultAuthorizeURL = "https://accounts.spotify.com/authorize/"

	defaultTimeout = 10 * time.Second
)

// ErrMissingCredentials reports an attempt to construct a client without a
// client id and secret.
var ErrMissingCredentials = errors.New("spotifyauth: client id and secret are required")

// Config carries the provider application credentials and optional overrides.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// TokenURL and AuthorizeURL override the production endpoints, used by
	// tests to point at a fake accounts service.
	TokenURL     string
	AuthorizeURL string

	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client

	// Limiter throttles outbound token-endpoint calls. Nil disables
	// client-side throttling.
	Limiter *rate.Limiter
}

// Client talks to the Spotify accounts service. It holds no mutable state
// beyond configuration and is safe for concurrent use.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	tokenURL     string
	authorizeURL string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// New validates the configuration and returns a Client. Missing credentials
// fail here rather than on first use so misconfiguration surfaces at startup.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrMissingCredentials
	}

	c := &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		tokenURL:     cfg.TokenURL,
		authorizeURL: cfg.AuthorizeURL,
		httpClient:   cfg.HTTPClient,
		limiter:      cfg.Limiter,
	}
	if c.tokenURL == "" {
		c.tokenURL = DefaultTokenURL
	}
	if c.authorizeURL == "" {
		c.authorizeURL = DefaultAuthorizeURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return c, nil
}

// ClientCredentialsGrant requests an app-level access token. The response
// carries no refresh token.
func (c *Client) ClientCredentialsGrant(ctx context.Context) (*TokenResponse, error) {
	data := url.Values{
		"grant_type": {"client_credentials"},
	}

	return c.requestToken(ctx, data)
}

// RefreshGrant requests a fresh access token for a user from their long-lived
// refresh token.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"redirect_uri":  {c.redirectURI},
	}

	return c.requestToken(ctx, data)
}

// ExchangeAuthorizationCode trades an authorization code for a token pair
// (access plus refresh token).
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {c.redirectURI},
	}

	return c.requestToken(ctx, data)
}

// AuthorizeURL builds the authorization redirect URL. The state value is
// embedded verbatim; generating and validating it is the caller's concern.
func (c *Client) AuthorizeURL(state string, scopes []string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", c.redirectURI)
	if len(scopes) > 0 {
		params.Set("scope", strings.Join(scopes, " "))
	}
	if state != "" {
		params.Set("state", state)
	}

	return c.authorizeURL + "?" + params.Encode()
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*TokenResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tokenURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+c.basicAuth())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &tokenResp, nil
}

func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
}
