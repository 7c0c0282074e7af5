package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/parley-ai/parley-backend/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed session store.
// Uses the project passed (PARLEY_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionRef(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type sessionDoc struct {
	LastContinuationToken string    `firestore:"last_continuation_token"`
	TurnCount             int       `firestore:"turn_count"`
	CreatedAt             time.Time `firestore:"created_at"`
	LastTurnAt            time.Time `firestore:"last_turn_at"`
}

func toSessionDoc(session *domain.Session) sessionDoc {
	return sessionDoc{
		LastContinuationToken: session.LastContinuationToken,
		TurnCount:             session.TurnCount,
		CreatedAt:             session.CreatedAt,
		LastTurnAt:            session.LastTurnAt,
	}
}

func fromSessionDoc(id domain.SessionID, doc sessionDoc) *domain.Session {
	return &domain.Session{
		ID:                    id,
		LastContinuationToken: doc.LastContinuationToken,
		TurnCount:             doc.TurnCount,
		CreatedAt:             doc.CreatedAt,
		LastTurnAt:            doc.LastTurnAt,
	}
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

// Get returns (nil, nil) when the document does not exist; an unknown
// session is a normal outcome, not a fault.
func (s *Store) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.sessionRef(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore Get session: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode session: %w", err)
	}
	return fromSessionDoc(id, doc), nil
}

// Put upserts the session document.
func (s *Store) Put(ctx context.Context, session *domain.Session) error {
	if _, err := s.sessionRef(session.ID).Set(ctx, toSessionDoc(session)); err != nil {
		return fmt.Errorf("firestore Put session: %w", err)
	}
	return nil
}

// ListRecent returns up to limit sessions ordered by most recent turn.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*domain.Session, error) {
	q := s.sessionsCol().OrderBy("last_turn_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []*domain.Session
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore ListRecent: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("firestore decode session: %w", err)
		}
		result = append(result, fromSessionDoc(domain.SessionID(snap.Ref.ID), doc))
	}

	return result, nil
}
