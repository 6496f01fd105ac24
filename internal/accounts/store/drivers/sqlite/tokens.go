package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
)

type tokensRepo struct {
	db *sql.DB
}

func (r *tokensRepo) InsertOrReplace(ctx context.Context, key string, token domain.BearerToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bearer_tokens (key, access_token, token_type, scope, expires_in, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			access_token = excluded.access_token,
			token_type   = excluded.token_type,
			scope        = excluded.scope,
			expires_in   = excluded.expires_in,
			expires_at   = excluded.expires_at,
			updated_at   = excluded.updated_at`,
		key,
		token.AccessToken,
		token.TokenType,
		token.Scope,
		token.ExpiresIn,
		token.ExpiresAt.UTC(),
		time.Now().UTC(),
	)
	return err
}

func (r *tokensRepo) Get(ctx context.Context, key string) (domain.BearerToken, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT access_token, token_type, scope, expires_in, expires_at
		FROM bearer_tokens WHERE key = ?`, key)

	var tok domain.BearerToken
	var expiresAt time.Time
	if err := row.Scan(&tok.AccessToken, &tok.TokenType, &tok.Scope, &tok.ExpiresIn, &expiresAt); err != nil {
		return domain.BearerToken{}, mapNotFound(err)
	}
	tok.ExpiresAt = expiresAt.UTC()

	return tok, nil
}

func (r *tokensRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM bearer_tokens WHERE expires_at <= ?`, now.UTC())
	return err
}
