// Package store persists user records as versioned blobs keyed by mobile
// number, plus the refresh-token table. Two drivers implement the same
// interface: postgres (pgx) for deployments and sqlite for local runs and
// tests.
package store

import (
	"context"
	"errors"
	"time"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/wellness"
)

// RecordStore is the single shared mutable resource of the system. Every
// mutation is read-modify-write of the whole record guarded by an integer
// version: Put with a stale version fails with wellness.ErrVersionConflict
// and the caller retries, so concurrent writers cannot silently drop each
// other's changes.
type RecordStore interface {
	// Get returns the record and its current version, or
	// wellness.ErrNotFound.
	Get(ctx context.Context, mobile string) (*model.User, int64, error)

	// Put writes the record. expect is the version returned by the Get the
	// mutation was computed from; 0 means "insert, must not exist yet"
	// (wellness.ErrUserExists if it does).
	Put(ctx context.Context, mobile string, u *model.User, expect int64) error

	// GetAll returns every record, keyed by mobile number.
	GetAll(ctx context.Context) (map[string]*model.User, error)

	// Delete removes a record. Missing records are not an error.
	Delete(ctx context.Context, mobile string) error
}

// RefreshToken mirrors one row of the refresh_tokens table. Only the SHA-256
// hash of the opaque token is stored. SessionID ties the token to the login
// session so a refreshed access token keeps the session's reminder markers.
type RefreshToken struct {
	ID         string
	Mobile     string
	SessionID  string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

// TokenStore manages refresh tokens: create, look up by hash, rotate
// (revoke old + insert replacement atomically), revoke all on logout and
// purge expired rows.
type TokenStore interface {
	CreateRefreshToken(ctx context.Context, mobile, sessionID, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, mobile, sessionID, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, mobile string) error
	PurgeExpiredRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

// Store is the full persistence surface.
type Store interface {
	RecordStore
	TokenStore
	Close() error
}

// casRetries bounds the optimistic-concurrency retry loop.
const casRetries = 3

// Mutate runs fn against a fresh copy of the record and writes it back with
// the version it was read at, retrying on conflict. Every caller that
// modifies a record goes through here so the retry policy lives in one place.
func Mutate(ctx context.Context, rs RecordStore, mobile string, now func() time.Time, fn func(*model.User) error) error {
	var err error
	for range casRetries {
		var u *model.User
		var version int64
		u, version, err = rs.Get(ctx, mobile)
		if err != nil {
			return err
		}
		if err = fn(u); err != nil {
			return err
		}
		u.UpdatedAt = now()
		err = rs.Put(ctx, mobile, u, version)
		if !errors.Is(err, wellness.ErrVersionConflict) {
			return err
		}
	}
	return err
}
