package service

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// TokenFunc fetches an access token for a key.
type TokenFunc func(ctx context.Context, key string) (string, error)

// SingleFlight collapses concurrent token requests for the same key into one
// underlying fetch. The plain services deliberately allow concurrent cache
// misses to fetch independently; wrap them in a SingleFlight when the
// duplicate round trips matter.
//
//	sf := service.NewSingleFlight(users.GetAccessToken)
//	token, err := sf.GetAccessToken(ctx, userHash)
type SingleFlight struct {
	fetch TokenFunc
	group singleflight.Group
}

func NewSingleFlight(fetch TokenFunc) *SingleFlight {
	return &SingleFlight{fetch: fetch}
}

// GetAccessToken returns the token for key, sharing one in-flight fetch among
// concurrent callers of the same key.
func (s *SingleFlight) GetAccessToken(ctx context.Context, key string) (string, error) {
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetch(ctx, key)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
