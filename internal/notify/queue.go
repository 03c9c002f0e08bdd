// Package notify holds transient user-facing messages. Every notice expires
// on its own timer 3 seconds after insertion; several may be visible at once
// and there is no cap on depth or dedup of repeated texts.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL matches the banner lifetime of the mobile UI.
const DefaultTTL = 3000 * time.Millisecond

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindSOS     Kind = "sos"
)

type Notice struct {
	ID     string    `json:"id"`
	Mobile string    `json:"-"`
	Kind   Kind      `json:"kind"`
	Text   string    `json:"text"`
	At     time.Time `json:"at"`
}

type Queue struct {
	mu     sync.Mutex
	ttl    time.Duration
	byUser map[string][]Notice
	timers map[string]*time.Timer
}

// NewQueue builds a queue with the given lifetime per notice; ttl <= 0 means
// DefaultTTL.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		ttl:    ttl,
		byUser: make(map[string][]Notice),
		timers: make(map[string]*time.Timer),
	}
}

// Push appends a notice for the user and arms its expiry timer, returning
// the notice id.
func (q *Queue) Push(mobile string, kind Kind, text string) string {
	n := Notice{
		ID:     uuid.New().String(),
		Mobile: mobile,
		Kind:   kind,
		Text:   text,
		At:     time.Now(),
	}

	q.mu.Lock()
	q.byUser[mobile] = append(q.byUser[mobile], n)
	q.timers[n.ID] = time.AfterFunc(q.ttl, func() { q.Expire(n.ID) })
	q.mu.Unlock()

	return n.ID
}

// Expire removes the notice with the given id. Removing an already-removed
// notice is a no-op: the timer and a manual dismiss may race.
func (q *Queue) Expire(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	t, ok := q.timers[id]
	if !ok {
		return
	}
	t.Stop()
	delete(q.timers, id)

	for mobile, list := range q.byUser {
		for i := range list {
			if list[i].ID != id {
				continue
			}
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(q.byUser, mobile)
			} else {
				q.byUser[mobile] = list
			}
			return
		}
	}
}

// Active returns the user's live notices in insertion order.
func (q *Queue) Active(mobile string) []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notice, len(q.byUser[mobile]))
	copy(out, q.byUser[mobile])
	return out
}
