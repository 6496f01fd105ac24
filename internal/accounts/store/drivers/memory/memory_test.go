package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
	"github.com/crescendoapp/crescendo/internal/accounts/store"
	"github.com/stretchr/testify/require"
)

func TestTokenStoreGetMissing(t *testing.T) {
	t.Parallel()

	s := NewTokenStore()
	_, err := s.Get(context.Background(), "absent")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenStoreInsertOrReplaceOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTokenStore()

	first := domain.BearerToken{AccessToken: "one", ExpiresIn: 60}
	first.SetExpiry(time.Now())
	require.NoError(t, s.InsertOrReplace(ctx, "app", first))

	second := domain.BearerToken{AccessToken: "two", ExpiresIn: 60}
	second.SetExpiry(time.Now())
	require.NoError(t, s.InsertOrReplace(ctx, "app", second))

	got, err := s.Get(ctx, "app")
	require.NoError(t, err)
	require.Equal(t, "two", got.AccessToken)
}

func TestTokenStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTokenStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			key := fmt.Sprintf("user-%d", i%5)
			tok := domain.BearerToken{AccessToken: fmt.Sprintf("tok-%d", i), ExpiresIn: 60}
			tok.SetExpiry(time.Now())
			require.NoError(t, s.InsertOrReplace(ctx, key, tok))

			got, err := s.Get(ctx, key)
			require.NoError(t, err)
			require.NotEmpty(t, got.AccessToken)
		}(i)
	}
	wg.Wait()
}

func TestTokenStoreDeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTokenStore()
	now := time.Now().UTC()

	live := domain.BearerToken{AccessToken: "live", ExpiresIn: 3600, ExpiresAt: now.Add(time.Hour)}
	stale := domain.BearerToken{AccessToken: "stale", ExpiresIn: 60, ExpiresAt: now.Add(-time.Minute)}
	require.NoError(t, s.InsertOrReplace(ctx, "live", live))
	require.NoError(t, s.InsertOrReplace(ctx, "stale", stale))

	require.NoError(t, s.DeleteExpired(ctx, now))

	_, err := s.Get(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Get(ctx, "live")
	require.NoError(t, err)
}

func TestUserAuthStoreLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewUserAuthStore()

	rec := domain.UserAuthRecord{ID: "01J", UserHash: "HASH", State: "HASH|nonce"}
	require.NoError(t, s.Create(ctx, rec))

	got, err := s.Get(ctx, "HASH")
	require.NoError(t, err)
	require.Equal(t, "HASH|nonce", got.State)

	got.State = ""
	got.RefreshToken = "rt"
	require.NoError(t, s.Update(ctx, got))

	got, err = s.Get(ctx, "HASH")
	require.NoError(t, err)
	require.Empty(t, got.State)
	require.Equal(t, "rt", got.RefreshToken)
}

func TestUserAuthStoreUpdateMissing(t *testing.T) {
	t.Parallel()

	s := NewUserAuthStore()
	err := s.Update(context.Background(), domain.UserAuthRecord{UserHash: "nope"})
	require.ErrorIs(t, err, store.ErrNotFound)
}
