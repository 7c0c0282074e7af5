package chat

import (
	"context"
	"time"

	"github.com/parley-ai/parley-backend/internal/domain"
	"github.com/parley-ai/parley-backend/internal/observability"
)

const (
	// DefaultMaxMessageChars bounds inbound message length. Oversized input
	// is a validation error, not a system fault.
	DefaultMaxMessageChars = 4000

	// DefaultCallTimeout bounds the single upstream call per turn.
	DefaultCallTimeout = 30 * time.Second
)

// Service owns conversation continuity: it resolves each inbound message to
// a new or continuing session, performs the one upstream call, and commits
// the resulting continuation token. Constructed once by the owning process
// and handed to request handlers; nothing here is a singleton.
type Service struct {
	provider domain.ChatProvider
	store    domain.SessionStore
	locks    *sessionLocks
	now      func() time.Time

	maxMessageChars int
	callTimeout     time.Duration
	threadConfig    domain.ThreadConfig
}

// Options tune the service. Zero values fall back to defaults.
type Options struct {
	MaxMessageChars int
	CallTimeout     time.Duration
	ThreadConfig    domain.ThreadConfig
}

func NewService(provider domain.ChatProvider, store domain.SessionStore, opts Options) *Service {
	if opts.MaxMessageChars <= 0 {
		opts.MaxMessageChars = DefaultMaxMessageChars
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}

	return &Service{
		provider:        provider,
		store:           store,
		locks:           newSessionLocks(),
		now:             time.Now,
		maxMessageChars: opts.MaxMessageChars,
		callTimeout:     opts.CallTimeout,
		threadConfig:    opts.ThreadConfig,
	}
}

type SendInput struct {
	// SessionID may be empty; a fresh id is minted for the caller.
	SessionID string
	Message   string
}

type SendOutput struct {
	SessionID         domain.SessionID
	ReplyText         string
	ContinuationToken string

	// NewSession reports whether this turn created the session, including
	// the soft-create case where the caller supplied an id the store had
	// never seen.
	NewSession bool

	TurnCount int
}

// Send runs one full turn: validate, resolve session identity, call the
// provider, commit the new token. Turns for the same session are serialized
// so tokens apply in request-arrival order; the store itself is read before
// the upstream call and written after, never held locked across it.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	message, err := validateMessage(in.Message, s.maxMessageChars)
	if err != nil {
		return nil, err
	}

	sessionID, minted, err := resolveSessionID(in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	prior, err := s.store.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to read session", "error", err)
		return nil, err
	}
	newSession := prior == nil
	if minted {
		log.Info("minted new session id")
	} else if newSession {
		// Caller-supplied id with no record: adopted as a soft-create.
		// NewSession in the output makes the adoption visible to the caller.
		log.Info("adopting caller-supplied session id")
	}

	req := buildProviderRequest(message, prior, s.threadConfig)

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	reply, err := s.provider.Send(callCtx, req)
	if err != nil {
		log.Error("upstream call failed", "error", err)
		return nil, err
	}

	session, err := s.commitTurn(ctx, sessionID, reply.ContinuationToken, prior)
	if err != nil {
		log.Error("failed to commit turn", "error", err)
		return nil, err
	}

	log.Info("turn completed", "turn_count", session.TurnCount, "new_session", newSession)

	return &SendOutput{
		SessionID:         session.ID,
		ReplyText:         reply.Text,
		ContinuationToken: session.LastContinuationToken,
		NewSession:        newSession,
		TurnCount:         session.TurnCount,
	}, nil
}

// GetSession returns continuity metadata, or (nil, nil) for a session the
// store has never seen.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	return s.store.Get(ctx, id)
}

// ListSessions returns up to limit sessions, most recently active first.
func (s *Service) ListSessions(ctx context.Context, limit int) ([]*domain.Session, error) {
	return s.store.ListRecent(ctx, limit)
}
