package chat

import (
	"context"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// commitTurn upserts the session after a successful upstream turn: replace
// the continuation token, bump the turn counter, stamp LastTurnAt. CreatedAt
// is set only when the session did not previously exist. Called exactly once
// per successful turn, never on failure, so a failed call leaves prior state
// untouched.
func (s *Service) commitTurn(ctx context.Context, id domain.SessionID, token string, prior *domain.Session) (*domain.Session, error) {
	now := s.now()

	session := prior.Clone()
	if session == nil {
		session = &domain.Session{
			ID:        id,
			CreatedAt: now,
		}
	}

	session.LastContinuationToken = token
	session.TurnCount++
	session.LastTurnAt = now

	if err := s.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
