package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/service"
	"github.com/crescendoapp/crescendo/pkg/cryptox"
	"github.com/crescendoapp/crescendo/pkg/httpx"
)

type loginResponse struct {
	UserHash string `json:"user_hash"`
}

type statusResponse struct {
	UserHash   string    `json:"user_hash"`
	Authorized bool      `json:"authorized"`
	Scope      string    `json:"scope,omitempty"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// handleLogin identifies the user from a form username and issues the session
// cookie. Only the hash of the username ever leaves this handler.
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return
	}

	username := r.PostFormValue("username")
	if username == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username is required")
		return
	}

	userHash := cryptox.HashUser(username)
	if err := rt.Sessions.Issue(w, userHash); err != nil {
		rt.logger.Error("failed to issue session", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not create session")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{UserHash: userHash})
}

func (rt *Router) handleLogout(w http.ResponseWriter, _ *http.Request) {
	rt.Sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleConnect starts the authorization-code handshake and redirects the
// browser to the provider's consent page.
func (rt *Router) handleConnect(w http.ResponseWriter, r *http.Request) {
	userHash, err := rt.Sessions.UserHash(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "log in first")
		return
	}

	redirect, err := rt.Authorize.Begin(r.Context(), userHash, rt.Scopes)
	if err != nil {
		rt.logger.Error("failed to begin authorization", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not start authorization")
		return
	}

	http.Redirect(w, r, redirect, http.StatusFound)
}

// handleCallback completes the handshake from the provider redirect.
func (rt *Router) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if denial := q.Get("error"); denial != "" {
		httpx.WriteError(w, http.StatusForbidden, "access_denied", denial)
		return
	}

	state := q.Get("state")
	code := q.Get("code")
	if state == "" || code == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "state and code are required")
		return
	}

	rec, err := rt.Authorize.Callback(r.Context(), state, code)
	switch {
	case errors.Is(err, service.ErrInvalidState):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_state", "state does not match an outstanding authorization attempt")
		return
	case errors.Is(err, service.ErrUnknownUser):
		httpx.WriteError(w, http.StatusNotFound, "unknown_user", "no authorization attempt for this user")
		return
	case err != nil:
		rt.logger.Error("authorization callback failed", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "token exchange failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{
		UserHash:   rec.UserHash,
		Authorized: true,
		Scope:      rec.Scope,
		ExpiresAt:  rec.Expiry,
	})
}

// handleStatus reports whether the logged-in user holds a usable token,
// refreshing it if the cached one has expired.
func (rt *Router) handleStatus(w http.ResponseWriter, r *http.Request) {
	userHash, err := rt.Sessions.UserHash(r)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "log in first")
		return
	}

	token, err := rt.Users.GetToken(r.Context(), userHash)
	switch {
	case errors.Is(err, service.ErrNoRefreshToken):
		httpx.WriteJSON(w, http.StatusOK, statusResponse{
			UserHash:   userHash,
			Authorized: false,
		})
		return
	case err != nil:
		rt.logger.Error("failed to load user token", "error", err, "user", userHash)
		httpx.WriteError(w, http.StatusBadGateway, "server_error", "could not obtain a token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, statusResponse{
		UserHash:   userHash,
		Authorized: true,
		Scope:      token.Scope,
		ExpiresAt:  token.ExpiresAt,
	})
}
