package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
	"github.com/crescendoapp/crescendo/internal/accounts/store"
	"github.com/crescendoapp/crescendo/pkg/cryptox"
	"github.com/crescendoapp/crescendo/pkg/idx"
)

// AuthorizeService runs the authorization-code handshake. Per user the flow
// moves NotStarted -> AwaitingCallback (Begin) -> Authorized (Callback); an
// authorized user may Begin again to re-authorize or upgrade scopes, which
// overwrites the outstanding state and invalidates the earlier attempt.
type AuthorizeService struct {
	userAuth store.UserAuthStore
	fetcher  TokenFetcher
	logger   *slog.Logger

	now func() time.Time
}

func NewAuthorizeService(userAuth store.UserAuthStore, fetcher TokenFetcher, logger *slog.Logger) *AuthorizeService {
	return &AuthorizeService{
		userAuth: userAuth,
		fetcher:  fetcher,
		logger:   logger,
		now:      time.Now,
	}
}

// Begin starts (or restarts) an authorization attempt for the user. It mints
// a fresh nonce, records the combined state on the user's record and returns
// the authorize redirect URL carrying that state.
func (s *AuthorizeService) Begin(ctx context.Context, userHash string, scopes []string) (string, error) {
	nonce, err := cryptox.GenerateNonce()
	if err != nil {
		return "", fmt.Errorf("generate state nonce: %w", err)
	}
	state := EncodeState(userHash, nonce)

	rec, err := s.userAuth.Get(ctx, userHash)
	if errors.Is(err, store.ErrNotFound) {
		rec = domain.UserAuthRecord{
			ID:       idx.New().String(),
			UserHash: userHash,
		}
	} else if err != nil {
		return "", fmt.Errorf("user auth lookup: %w", err)
	}

	rec.State = state
	if err := s.userAuth.InsertOrReplace(ctx, rec); err != nil {
		return "", fmt.Errorf("user auth write: %w", err)
	}

	s.logger.Debug("authorization started", "user", userHash)
	return s.fetcher.AuthorizeURL(state, scopes), nil
}

// Callback completes the handshake from the provider redirect. Steps one to
// three (state decoding, record lookup, state comparison) fail without
// touching the record; those are caller errors. A failed code exchange leaves
// the checkpointed code in place so the exchange alone can be retried.
func (s *AuthorizeService) Callback(ctx context.Context, state, code string) (domain.UserAuthRecord, error) {
	userHash, _, err := DecodeState(state)
	if err != nil {
		return domain.UserAuthRecord{}, err
	}

	rec, err := s.userAuth.Get(ctx, userHash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.UserAuthRecord{}, ErrUnknownUser
	}
	if err != nil {
		return domain.UserAuthRecord{}, fmt.Errorf("user auth lookup: %w", err)
	}

	// Compare the full combined value, not just the nonce, so a state minted
	// for one user cannot be replayed against another's record.
	if rec.State == "" || rec.State != state {
		return domain.UserAuthRecord{}, ErrInvalidState
	}

	// Checkpoint the code before exchanging so a failed exchange can be
	// retried without restarting the whole flow.
	rec.Code = code
	if err := s.userAuth.Update(ctx, rec); err != nil {
		return domain.UserAuthRecord{}, fmt.Errorf("user auth write: %w", err)
	}

	resp, err := s.fetcher.ExchangeAuthorizationCode(ctx, code)
	if err != nil {
		return domain.UserAuthRecord{}, fmt.Errorf("authorization code exchange: %w", err)
	}

	pair := domain.BearerRefreshToken{
		BearerToken:  bearerFromResponse(resp, s.now()),
		RefreshToken: resp.RefreshToken,
	}
	if err := pair.Validate(); err != nil {
		return domain.UserAuthRecord{}, fmt.Errorf("malformed token response: %w", err)
	}

	rec.AccessToken = pair.AccessToken
	rec.RefreshToken = pair.RefreshToken
	rec.TokenType = pair.TokenType
	rec.Scope = pair.Scope
	rec.Expiry = pair.ExpiresAt
	rec.State = ""
	rec.Code = ""

	if err := s.userAuth.Update(ctx, rec); err != nil {
		return domain.UserAuthRecord{}, fmt.Errorf("user auth write: %w", err)
	}

	s.logger.Info("authorization completed", "user", userHash)
	return rec, nil
}
