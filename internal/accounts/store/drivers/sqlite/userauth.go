package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/crescendoapp/crescendo/internal/accounts/domain"
	"github.com/crescendoapp/crescendo/internal/accounts/store"
)

type userAuthRepo struct {
	db *sql.DB
}

func (r *userAuthRepo) Create(ctx context.Context, rec domain.UserAuthRecord) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_auth (user_hash, id, state, code, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserHash,
		rec.ID,
		mapStringNull(rec.State),
		mapStringNull(rec.Code),
		mapStringNull(rec.AccessToken),
		mapStringNull(rec.RefreshToken),
		mapStringNull(rec.TokenType),
		mapStringNull(rec.Scope),
		mapTimeNull(rec.Expiry),
		now,
		now,
	)
	return err
}

func (r *userAuthRepo) Get(ctx context.Context, userHash string) (domain.UserAuthRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_hash, id, state, code, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at
		FROM user_auth WHERE user_hash = ?`, userHash)

	var rec domain.UserAuthRecord
	var state, code, accessToken, refreshToken, tokenType, scope sql.NullString
	var expiry sql.NullTime

	err := row.Scan(
		&rec.UserHash,
		&rec.ID,
		&state,
		&code,
		&accessToken,
		&refreshToken,
		&tokenType,
		&scope,
		&expiry,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return domain.UserAuthRecord{}, mapNotFound(err)
	}

	rec.State = mapNullString(state)
	rec.Code = mapNullString(code)
	rec.AccessToken = mapNullString(accessToken)
	rec.RefreshToken = mapNullString(refreshToken)
	rec.TokenType = mapNullString(tokenType)
	rec.Scope = mapNullString(scope)
	rec.Expiry = mapNullTime(expiry)

	return rec, nil
}

func (r *userAuthRepo) InsertOrReplace(ctx context.Context, rec domain.UserAuthRecord) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_auth (user_hash, id, state, code, access_token, refresh_token, token_type, scope, expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_hash) DO UPDATE SET
			state         = excluded.state,
			code          = excluded.code,
			access_token  = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type    = excluded.token_type,
			scope         = excluded.scope,
			expiry        = excluded.expiry,
			updated_at    = excluded.updated_at`,
		rec.UserHash,
		rec.ID,
		mapStringNull(rec.State),
		mapStringNull(rec.Code),
		mapStringNull(rec.AccessToken),
		mapStringNull(rec.RefreshToken),
		mapStringNull(rec.TokenType),
		mapStringNull(rec.Scope),
		mapTimeNull(rec.Expiry),
		now,
		now,
	)
	return err
}

func (r *userAuthRepo) Update(ctx context.Context, rec domain.UserAuthRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE user_auth SET
			state         = ?,
			code          = ?,
			access_token  = ?,
			refresh_token = ?,
			token_type    = ?,
			scope         = ?,
			expiry        = ?,
			updated_at    = ?
		WHERE user_hash = ?`,
		mapStringNull(rec.State),
		mapStringNull(rec.Code),
		mapStringNull(rec.AccessToken),
		mapStringNull(rec.RefreshToken),
		mapStringNull(rec.TokenType),
		mapStringNull(rec.Scope),
		mapTimeNull(rec.Expiry),
		time.Now().UTC(),
		rec.UserHash,
	)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
