package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"wellness-care-api/internal/model"
	"wellness-care-api/internal/wellness"
)

// runStoreContract exercises the Store contract against a backend. open must
// return a store with empty tables; both drivers run the same suite.
func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	t.Run("PutGetRoundtrip", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		u := &model.User{Mobile: "9900112233", Name: "Asha", PasswordHash: "x"}
		if err := s.Put(ctx, u.Mobile, u, 0); err != nil {
			t.Fatalf("insert: %v", err)
		}

		got, version, err := s.Get(ctx, u.Mobile)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if version != 1 {
			t.Errorf("version = %d, want 1", version)
		}
		if got.Name != "Asha" {
			t.Errorf("name = %q", got.Name)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := open(t)
		if _, _, err := s.Get(context.Background(), "0000000000"); !errors.Is(err, wellness.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("InsertDuplicate", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		u := &model.User{Mobile: "9900112233"}
		if err := s.Put(ctx, u.Mobile, u, 0); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := s.Put(ctx, u.Mobile, u, 0); !errors.Is(err, wellness.ErrUserExists) {
			t.Errorf("err = %v, want ErrUserExists", err)
		}
	})

	t.Run("VersionConflict", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		u := &model.User{Mobile: "9900112233", Name: "v1"}
		if err := s.Put(ctx, u.Mobile, u, 0); err != nil {
			t.Fatalf("insert: %v", err)
		}

		// two readers at version 1
		a, va, _ := s.Get(ctx, u.Mobile)
		b, vb, _ := s.Get(ctx, u.Mobile)

		a.Name = "writer A"
		if err := s.Put(ctx, u.Mobile, a, va); err != nil {
			t.Fatalf("first write: %v", err)
		}

		b.Name = "writer B"
		if err := s.Put(ctx, u.Mobile, b, vb); !errors.Is(err, wellness.ErrVersionConflict) {
			t.Fatalf("second write err = %v, want ErrVersionConflict", err)
		}

		// the losing write must not have clobbered the winner
		got, version, _ := s.Get(ctx, u.Mobile)
		if got.Name != "writer A" {
			t.Errorf("name = %q, want %q", got.Name, "writer A")
		}
		if version != 2 {
			t.Errorf("version = %d, want 2", version)
		}
	})

	t.Run("UpdateMissingRecord", func(t *testing.T) {
		s := open(t)
		u := &model.User{Mobile: "9900112233"}
		if err := s.Put(context.Background(), u.Mobile, u, 7); !errors.Is(err, wellness.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("GetAll", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		for _, m := range []string{"1111111111", "2222222222"} {
			if err := s.Put(ctx, m, &model.User{Mobile: m}, 0); err != nil {
				t.Fatalf("insert %s: %v", m, err)
			}
		}

		all, err := s.GetAll(ctx)
		if err != nil {
			t.Fatalf("get all: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("len = %d, want 2", len(all))
		}
		if all["1111111111"] == nil || all["2222222222"] == nil {
			t.Error("missing records in GetAll")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		u := &model.User{Mobile: "9900112233"}
		if err := s.Put(ctx, u.Mobile, u, 0); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := s.Delete(ctx, u.Mobile); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, _, err := s.Get(ctx, u.Mobile); !errors.Is(err, wellness.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound after delete", err)
		}
		// deleting a missing record is not an error
		if err := s.Delete(ctx, "0000000000"); err != nil {
			t.Errorf("delete missing: %v", err)
		}
	})

	t.Run("RefreshTokenLifecycle", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		id, err := s.CreateRefreshToken(ctx, "9900112233", "sess-1", "hash-1", time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		rt, err := s.GetRefreshTokenByHash(ctx, "hash-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if rt.ID != id || rt.SessionID != "sess-1" || rt.Revoked {
			t.Errorf("unexpected token %+v", rt)
		}

		if err := s.RotateRefreshToken(ctx, id, "new-id", "9900112233", "sess-1", "hash-2", time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("rotate: %v", err)
		}

		old, err := s.GetRefreshTokenByHash(ctx, "hash-1")
		if err != nil {
			t.Fatalf("get old: %v", err)
		}
		if !old.Revoked {
			t.Error("rotated token not revoked")
		}
		if old.ReplacedBy == nil || *old.ReplacedBy != "new-id" {
			t.Error("rotated token not linked to replacement")
		}

		if err := s.RevokeAllRefreshTokens(ctx, "9900112233"); err != nil {
			t.Fatalf("revoke all: %v", err)
		}
		nt, _ := s.GetRefreshTokenByHash(ctx, "hash-2")
		if !nt.Revoked {
			t.Error("revoke all missed the new token")
		}
	})

	t.Run("PurgeExpiredRefreshTokens", func(t *testing.T) {
		s := open(t)
		ctx := context.Background()

		if _, err := s.CreateRefreshToken(ctx, "9900112233", "sess-1", "stale", time.Now().Add(-time.Hour)); err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := s.CreateRefreshToken(ctx, "9900112233", "sess-1", "fresh", time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("create: %v", err)
		}

		n, err := s.PurgeExpiredRefreshTokens(ctx, time.Now())
		if err != nil {
			t.Fatalf("purge: %v", err)
		}
		if n != 1 {
			t.Errorf("purged %d, want 1", n)
		}
		if _, err := s.GetRefreshTokenByHash(ctx, "fresh"); err != nil {
			t.Errorf("fresh token should survive: %v", err)
		}
	})
}
