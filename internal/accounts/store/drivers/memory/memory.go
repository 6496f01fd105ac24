// Package memory provides process-local store implementations backed by
// internally synchronized maps. Suitable for tests and single-instance
// deployments; production multi-instance setups should use a shared backend.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
	"github.com/crescendoapp/crescendo/internal/accounts/store"
)

// TokenStore is a concurrency-safe in-memory token cache. sync.Map gives
// atomic per-key reads and writes without external locking, which matters
// because concurrent outbound calls share one coordinator instance.
type TokenStore struct {
	m sync.Map // key string -> domain.BearerToken
}

var _ store.TokenStore = (*TokenStore)(nil)

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

func (s *TokenStore) InsertOrReplace(_ context.Context, key string, token domain.BearerToken) error {
	s.m.Store(key, token)
	return nil
}

func (s *TokenStore) Get(_ context.Context, key string) (domain.BearerToken, error) {
	v, ok := s.m.Load(key)
	if !ok {
		return domain.BearerToken{}, store.ErrNotFound
	}
	return v.(domain.BearerToken), nil
}

func (s *TokenStore) DeleteExpired(_ context.Context, now time.Time) error {
	now = now.UTC()
	s.m.Range(func(k, v any) bool {
		if !v.(domain.BearerToken).Valid(now) {
			s.m.Delete(k)
		}
		return true
	})
	return nil
}

// UserAuthStore is an in-memory user authorization record store.
type UserAuthStore struct {
	mu      sync.RWMutex
	records map[string]domain.UserAuthRecord
}

var _ store.UserAuthStore = (*UserAuthStore)(nil)

func NewUserAuthStore() *UserAuthStore {
	return &UserAuthStore{records: make(map[string]domain.UserAuthRecord)}
}

func (s *UserAuthStore) Create(_ context.Context, rec domain.UserAuthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserHash] = rec
	return nil
}

func (s *UserAuthStore) Get(_ context.Context, userHash string) (domain.UserAuthRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userHash]
	if !ok {
		return domain.UserAuthRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (s *UserAuthStore) InsertOrReplace(_ context.Context, rec domain.UserAuthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.UserHash] = rec
	return nil
}

func (s *UserAuthStore) Update(_ context.Context, rec domain.UserAuthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.UserHash]; !ok {
		return store.ErrNotFound
	}
	s.records[rec.UserHash] = rec
	return nil
}
