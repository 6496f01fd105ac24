// crescendo-search is a minimal demo of the app-level token flow: a search
// proxy that authenticates to the Spotify Web API with a cached
// client_credentials token. No database and no user accounts, just the token
// coordinator in front of an in-memory store.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/crescendoapp/crescendo/internal/accounts/app"
	"github.com/crescendoapp/crescendo/internal/accounts/service"
	"github.com/crescendoapp/crescendo/internal/accounts/store/drivers/memory"
	"github.com/crescendoapp/crescendo/pkg/httpx"
	"github.com/crescendoapp/crescendo/pkg/slogx"
	"github.com/crescendoapp/crescendo/pkg/spotifyauth"
)

const searchURL = "https://api.spotify.com/v1/search"

func main() {
	_ = godotenv.Load()
	cfg := app.LoadConfig()

	logger := slogx.New(slogx.Config{
		Service: "crescendo-search",
		Version: app.BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	client, err := spotifyauth.New(spotifyauth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Limiter:      rate.NewLimiter(rate.Every(time.Second), 5),
	})
	if err != nil {
		log.Fatalf("failed to build provider client: %v", err)
	}

	appTokens := service.NewAppTokenService(memory.NewTokenStore(), client, logger)

	// Collapse concurrent cold-cache searches into a single token fetch.
	tokens := service.NewSingleFlight(func(ctx context.Context, _ string) (string, error) {
		return appTokens.GetAccessToken(ctx)
	})

	api := &http.Client{Timeout: 10 * time.Second}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(slogx.HTTPMiddleware(logger))
	r.With(httpx.RateLimit(httpx.LenientLimit)).Get("/search", func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query().Get("q")
		if query == "" {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "q is required")
			return
		}

		accessToken, err := tokens.GetAccessToken(req.Context(), service.AppTokenKey)
		if err != nil {
			logger.Error("failed to obtain app token", "error", err)
			httpx.WriteError(w, http.StatusBadGateway, "server_error", "could not authenticate to the provider")
			return
		}

		params := url.Values{
			"q":     {query},
			"type":  {"track,artist,album"},
			"limit": {"10"},
		}
		outbound, err := http.NewRequestWithContext(req.Context(), http.MethodGet, searchURL+"?"+params.Encode(), nil)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "could not build search request")
			return
		}
		outbound.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := api.Do(outbound)
		if err != nil {
			logger.Error("search request failed", "error", err)
			httpx.WriteError(w, http.StatusBadGateway, "server_error", "search request failed")
			return
		}
		defer resp.Body.Close()

		httpx.NoCache(w)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	})

	logger.Info("search service starting", "port", cfg.Port)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 3 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
