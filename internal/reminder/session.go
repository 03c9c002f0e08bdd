package reminder

import (
	"context"
	"sync"
)

// SessionStore tracks which appointments have already been surfaced as a
// reminder within one login session. Markers are ephemeral: they live for
// the session and are dropped on logout, never persisted to the record
// store.
type SessionStore interface {
	MarkReminded(ctx context.Context, sessionID string, apptID int64) error
	Reminded(ctx context.Context, sessionID string, apptID int64) (bool, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Memory is the in-process SessionStore, used in tests and when no redis is
// configured.
type Memory struct {
	mu   sync.Mutex
	seen map[string]map[int64]bool
}

func NewMemory() *Memory {
	return &Memory{seen: make(map[string]map[int64]bool)}
}

func (m *Memory) MarkReminded(_ context.Context, sessionID string, apptID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[sessionID] == nil {
		m.seen[sessionID] = make(map[int64]bool)
	}
	m.seen[sessionID][apptID] = true
	return nil
}

func (m *Memory) Reminded(_ context.Context, sessionID string, apptID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[sessionID][apptID], nil
}

func (m *Memory) EndSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, sessionID)
	return nil
}
