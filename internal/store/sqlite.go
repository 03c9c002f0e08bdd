package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/wellness"
)

//go:embed schema.sql
var ddl embed.FS

// SQLite is the embedded-driver store, used for local runs and tests.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the
// embedded schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	// modernc sqlite serializes writes per connection; a single connection
	// avoids SQLITE_BUSY between the pool's writers.
	db.SetMaxOpenConns(1)
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(string(b)); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) Get(ctx context.Context, mobile string) (*model.User, int64, error) {
	var raw string
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT record, version FROM user_records WHERE mobile = ?`, mobile,
	).Scan(&raw, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, wellness.ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	u := &model.User{}
	if err := json.Unmarshal([]byte(raw), u); err != nil {
		return nil, 0, err
	}
	return u, version, nil
}

func (s *SQLite) Put(ctx context.Context, mobile string, u *model.User, expect int64) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}

	if expect == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO user_records (mobile, record, version, updated_at)
			 VALUES (?, ?, 1, ?)
			 ON CONFLICT (mobile) DO NOTHING`,
			mobile, string(raw), time.Now().UTC(),
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return wellness.ErrUserExists
		}
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE user_records SET record = ?, version = version + 1, updated_at = ?
		 WHERE mobile = ? AND version = ?`,
		string(raw), time.Now().UTC(), mobile, expect,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// distinguish a stale version from a missing record
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM user_records WHERE mobile = ?`, mobile,
		).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return wellness.ErrNotFound
		}
		return wellness.ErrVersionConflict
	}
	return nil
}

func (s *SQLite) GetAll(ctx context.Context) (map[string]*model.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT mobile, record FROM user_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*model.User)
	for rows.Next() {
		var mobile, raw string
		if err := rows.Scan(&mobile, &raw); err != nil {
			return nil, err
		}
		u := &model.User{}
		if err := json.Unmarshal([]byte(raw), u); err != nil {
			return nil, err
		}
		out[mobile] = u
	}
	return out, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, mobile string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_records WHERE mobile = ?`, mobile)
	return err
}

// ---------- refresh tokens ----------

func (s *SQLite) CreateRefreshToken(ctx context.Context, mobile, sessionID, tokenHash string, expiresAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, mobile, session_id, token_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, mobile, sessionID, tokenHash, expiresAt.UTC(), time.Now().UTC(),
	)
	return id, err
}

func (s *SQLite) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	rt := &RefreshToken{}
	var revoked int
	err := s.db.QueryRowContext(ctx,
		`SELECT id, mobile, session_id, token_hash, expires_at, revoked, replaced_by, created_at
		 FROM refresh_tokens WHERE token_hash = ?`, tokenHash,
	).Scan(&rt.ID, &rt.Mobile, &rt.SessionID, &rt.TokenHash, &rt.ExpiresAt, &revoked, &rt.ReplacedBy, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, wellness.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rt.Revoked = revoked != 0
	return rt, nil
}

// RotateRefreshToken revokes the old token, inserts its replacement and links
// them, all in one transaction.
func (s *SQLite) RotateRefreshToken(ctx context.Context, oldID, newID, mobile, sessionID, newHash string, newExpiry time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, replaced_by = ? WHERE id = ?`,
		newID, oldID,
	); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, mobile, session_id, token_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		newID, mobile, sessionID, newHash, newExpiry.UTC(), time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLite) RevokeAllRefreshTokens(ctx context.Context, mobile string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1 WHERE mobile = ? AND revoked = 0`, mobile)
	return err
}

func (s *SQLite) PurgeExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
