// Package web serves the browser-facing authorization flow: a user logs in
// with a username, connects their Spotify account via the authorization-code
// handshake and can inspect their token status.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/crescendoapp/crescendo/internal/accounts/service"
	"github.com/crescendoapp/crescendo/pkg/httpx"
	"github.com/crescendoapp/crescendo/pkg/slogx"
)

// Router wires the web handlers onto a chi mux. Assign the services, then
// call ApplyRoutes.
type Router struct {
	chi.Router

	Sessions  *SessionManager
	Authorize *service.AuthorizeService
	Users     *service.UserTokenService
	Scopes    []string

	logger *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(slogx.HTTPMiddleware(logger))

	return &Router{
		Router: r,
		logger: logger,
	}
}

func (rt *Router) ApplyRoutes() {
	rt.Post("/login", rt.handleLogin)
	rt.Post("/logout", rt.handleLogout)

	rt.Get("/connect", rt.handleConnect)
	rt.With(httpx.RateLimit(httpx.StrictLimit)).Get("/callback", rt.handleCallback)

	rt.With(httpx.RateLimit(httpx.LenientLimit)).Get("/status", rt.handleStatus)

	rt.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
