package domain

import "context"

// SessionStore defines session persistence. A missing session is not an
// error: Get returns (nil, nil) and callers treat it as a brand-new session.
type SessionStore interface {
	Get(ctx context.Context, id SessionID) (*Session, error)
	Put(ctx context.Context, session *Session) error
	ListRecent(ctx context.Context, limit int) ([]*Session, error)
}

// ThreadConfig describes how a fresh conversation thread should be opened
// upstream. It is only sent on a session's first turn.
type ThreadConfig struct {
	SystemPrompt string
	Model        string
}

// ChatRequest is a provider-bound request. Exactly one of ContinuationToken
// and Config is set: a continuing turn carries the token, a new-session turn
// carries the thread configuration.
type ChatRequest struct {
	Message           string
	ContinuationToken string
	Config            *ThreadConfig
}

// ChatReply is the normalized result of one upstream turn. Text is never
// empty; providers substitute a fallback string before returning.
type ChatReply struct {
	Text              string
	ContinuationToken string
	Metadata          map[string]any
}

// ChatProvider sends exactly one request upstream per call. No retries:
// a provider call cannot be assumed idempotent.
type ChatProvider interface {
	Send(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

// SpeechRequest asks a text-to-speech provider to render Text as audio.
type SpeechRequest struct {
	Text  string
	Voice string
}

type SpeechResult struct {
	Audio       []byte
	ContentType string
}

// SpeechProvider is a stateless pass-through to a text-to-speech service.
type SpeechProvider interface {
	Synthesize(ctx context.Context, req SpeechRequest) (*SpeechResult, error)
}
