package spotifyauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example/callback",
		TokenURL:     srv.URL + "/api/token",
		AuthorizeURL: srv.URL + "/authorize/",
	})
	require.NoError(t, err)
	return c
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := New(Config{ClientID: "id"})
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = New(Config{ClientSecret: "secret"})
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClientCredentialsGrant(t *testing.T) {
	t.Parallel()

	var gotAuth, gotContentType string
	var gotForm url.Values

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"app-token","token_type":"Bearer","expires_in":3600}`))
	})

	resp, err := c.ClientCredentialsGrant(context.Background())
	require.NoError(t, err)
	require.Equal(t, "app-token", resp.AccessToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, 3600, resp.ExpiresIn)
	require.Empty(t, resp.RefreshToken)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
	require.Equal(t, wantAuth, gotAuth)
	require.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	require.Equal(t, url.Values{"grant_type": {"client_credentials"}}, gotForm)
}

func TestRefreshGrantBody(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`{"access_token":"user-token","token_type":"Bearer","expires_in":3600,"scope":"user-read-private"}`))
	})

	resp, err := c.RefreshGrant(context.Background(), "refresh-123")
	require.NoError(t, err)
	require.Equal(t, "user-token", resp.AccessToken)
	require.Equal(t, "user-read-private", resp.Scope)

	require.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	require.Equal(t, "refresh-123", gotForm.Get("refresh_token"))
	require.Equal(t, "https://app.example/callback", gotForm.Get("redirect_uri"))
}

func TestExchangeAuthorizationCodeBody(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600,"refresh_token":"rt"}`))
	})

	resp, err := c.ExchangeAuthorizationCode(context.Background(), "auth-code-1")
	require.NoError(t, err)
	require.Equal(t, "rt", resp.RefreshToken)

	require.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	require.Equal(t, "auth-code-1", gotForm.Get("code"))
	require.Equal(t, "https://app.example/callback", gotForm.Get("redirect_uri"))
}

func TestErrorParsingObjectShape(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"status":401,"message":"Invalid access token"}}`))
	})

	_, err := c.ClientCredentialsGrant(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Invalid access token", apiErr.Message)
}

func TestErrorParsingFlatShape(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Refresh token revoked"}`))
	})

	_, err := c.RefreshGrant(context.Background(), "revoked")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "invalid_grant", apiErr.Code)
	require.Equal(t, "Refresh token revoked", apiErr.Message)
}

func TestErrorParsingUnknownBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream exploded`))
	})

	_, err := c.ClientCredentialsGrant(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestAuthorizeURL(t *testing.T) {
	t.Parallel()

	c, err := New(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example/callback",
	})
	require.NoError(t, err)

	raw := c.AuthorizeURL("HASH|nonce", []string{"user-read-private", "user-library-read"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "accounts.spotify.com", u.Host)
	require.Equal(t, "/authorize/", u.Path)

	q := u.Query()
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "https://app.example/callback", q.Get("redirect_uri"))
	require.Equal(t, "user-read-private user-library-read", q.Get("scope"))
	require.Equal(t, "HASH|nonce", q.Get("state"))
}
