package notify

import (
	"testing"
	"time"
)

func TestPushAndActive(t *testing.T) {
	q := NewQueue(time.Minute)

	id1 := q.Push("9900112233", KindSuccess, "first")
	id2 := q.Push("9900112233", KindInfo, "second")
	if id1 == id2 {
		t.Fatal("duplicate notice ids")
	}

	active := q.Active("9900112233")
	if len(active) != 2 {
		t.Fatalf("len = %d, want 2", len(active))
	}
	if active[0].Text != "first" || active[1].Text != "second" {
		t.Error("insertion order not preserved")
	}

	if got := q.Active("other"); len(got) != 0 {
		t.Errorf("other user sees %d notices", len(got))
	}
}

func TestAutoExpiry(t *testing.T) {
	q := NewQueue(50 * time.Millisecond)
	q.Push("9900112233", KindSuccess, "gone soon")

	if len(q.Active("9900112233")) != 1 {
		t.Fatal("notice not visible after push")
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(q.Active("9900112233")) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notice did not expire")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestExpireIdempotent(t *testing.T) {
	q := NewQueue(time.Minute)
	id := q.Push("9900112233", KindError, "oops")

	q.Expire(id)
	if len(q.Active("9900112233")) != 0 {
		t.Fatal("notice still active after expire")
	}

	// second removal is a no-op
	q.Expire(id)
	q.Expire("never-existed")
}

func TestIndependentExpiry(t *testing.T) {
	q := NewQueue(time.Minute)
	id1 := q.Push("9900112233", KindSuccess, "a")
	q.Push("9900112233", KindSuccess, "b")

	q.Expire(id1)

	active := q.Active("9900112233")
	if len(active) != 1 || active[0].Text != "b" {
		t.Errorf("active = %+v, want only b", active)
	}
}

func TestNoDepthCap(t *testing.T) {
	q := NewQueue(time.Minute)
	for i := 0; i < 100; i++ {
		q.Push("9900112233", KindInfo, "n")
	}
	if len(q.Active("9900112233")) != 100 {
		t.Error("queue should not cap depth")
	}
}

func TestDefaultTTL(t *testing.T) {
	q := NewQueue(0)
	if q.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", q.ttl, DefaultTTL)
	}
}
