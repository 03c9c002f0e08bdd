package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/wellness"
)

// Postgres is the pgx-backed store for deployments.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) Get(ctx context.Context, mobile string) (*model.User, int64, error) {
	var raw []byte
	var version int64
	err := s.pool.QueryRow(ctx,
		`SELECT record, version FROM user_records WHERE mobile = $1`, mobile,
	).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, wellness.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	u := &model.User{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, 0, err
	}
	return u, version, nil
}

func (s *Postgres) Put(ctx context.Context, mobile string, u *model.User, expect int64) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}

	if expect == 0 {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO user_records (mobile, record, version)
			 VALUES ($1, $2, 1)
			 ON CONFLICT (mobile) DO NOTHING`,
			mobile, raw,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return wellness.ErrUserExists
		}
		return nil
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE user_records SET record = $1, version = version + 1, updated_at = NOW()
		 WHERE mobile = $2 AND version = $3`,
		raw, mobile, expect,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM user_records WHERE mobile = $1)`, mobile,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return wellness.ErrNotFound
		}
		return wellness.ErrVersionConflict
	}
	return nil
}

func (s *Postgres) GetAll(ctx context.Context) (map[string]*model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT mobile, record FROM user_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*model.User)
	for rows.Next() {
		var mobile string
		var raw []byte
		if err := rows.Scan(&mobile, &raw); err != nil {
			return nil, err
		}
		u := &model.User{}
		if err := json.Unmarshal(raw, u); err != nil {
			return nil, err
		}
		out[mobile] = u
	}
	return out, rows.Err()
}

func (s *Postgres) Delete(ctx context.Context, mobile string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_records WHERE mobile = $1`, mobile)
	return err
}

// ---------- refresh tokens ----------

func (s *Postgres) CreateRefreshToken(ctx context.Context, mobile, sessionID, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (id, mobile, session_id, token_hash, expires_at) VALUES ($1,$2,$3,$4,$5)`,
		id, mobile, sessionID, tokenHash, expiresAt,
	)
	return id, err
}

func (s *Postgres) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	rt := &RefreshToken{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, mobile, session_id, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash,
	).Scan(&rt.ID, &rt.Mobile, &rt.SessionID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.ReplacedBy, &rt.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, wellness.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// RotateRefreshToken revokes the old token, inserts its replacement and links
// them, all in one transaction.
func (s *Postgres) RotateRefreshToken(ctx context.Context, oldID, newID, mobile, sessionID, newHash string, newExpiry time.Time) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, replaced_by = $1 WHERE id = $2`,
		newID, oldID,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, mobile, session_id, token_hash, expires_at) VALUES ($1,$2,$3,$4,$5)`,
		newID, mobile, sessionID, newHash, newExpiry,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Postgres) RevokeAllRefreshTokens(ctx context.Context, mobile string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE mobile = $1 AND revoked = false`,
		mobile,
	)
	return err
}

func (s *Postgres) PurgeExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
