package chat

import (
	"sync"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// sessionLocks serializes turns per session id so continuation tokens are
// applied in request-arrival order. Entries are reference-counted and removed
// once idle, so the table stays proportional to in-flight sessions rather
// than all sessions ever seen.
type sessionLocks struct {
	mu      sync.Mutex
	entries map[domain.SessionID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{
		entries: make(map[domain.SessionID]*lockEntry),
	}
}

// lock acquires the per-session mutex and returns its release func.
func (l *sessionLocks) lock(id domain.SessionID) (unlock func()) {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
