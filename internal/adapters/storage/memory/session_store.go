package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// SessionStore keeps sessions in a process-local map. Not durable across
// restarts; real deployments use the Firestore store behind the same
// interface.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

// Get returns (nil, nil) for an unknown id. Callers receive a copy; the
// stored record changes only through Put.
func (s *SessionStore) Get(_ context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sessions[id].Clone(), nil
}

// Put upserts by session id.
func (s *SessionStore) Put(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	return nil
}

// ListRecent returns up to limit sessions ordered by most recent turn.
// limit <= 0 means no limit.
func (s *SessionStore) ListRecent(_ context.Context, limit int) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].LastTurnAt.After(result[j].LastTurnAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
