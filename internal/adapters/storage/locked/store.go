// Package locked decorates any SessionStore with per-session mutual
// exclusion. The in-memory store already guards its map internally; this
// wrapper exists so a remote store can be swapped in without giving up
// atomic get/put per session id, and without touching resolver or gateway
// code.
package locked

import (
	"context"
	"sync"

	"github.com/parley-ai/parley-backend/internal/domain"
)

type Store struct {
	inner domain.SessionStore
	mu    sync.Mutex
	locks map[domain.SessionID]*sync.Mutex
}

func Wrap(inner domain.SessionStore) *Store {
	return &Store{
		inner: inner,
		locks: make(map[domain.SessionID]*sync.Mutex),
	}
}

func (s *Store) lockFor(id domain.SessionID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	return m
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	m := s.lockFor(id)
	m.Lock()
	defer m.Unlock()

	return s.inner.Get(ctx, id)
}

func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	m := s.lockFor(session.ID)
	m.Lock()
	defer m.Unlock()

	return s.inner.Put(ctx, session)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	return s.inner.ListRecent(ctx, limit)
}
