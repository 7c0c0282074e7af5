package domain

// Session is the backend's bookkeeping record for one conversation thread.
// It carries continuity metadata only; message text lives with the upstream
// provider, never here.
type Session struct {
	ID SessionID

	// LastContinuationToken is the provider-issued identifier of the latest
	// turn. Empty until the first successful turn.
	LastContinuationToken string

	// TurnCount is incremented exactly once per completed turn.
	TurnCount int

	CreatedAt  Timestamp
	LastTurnAt Timestamp
}

// Clone returns an independent copy so that stores can hand out sessions
// without sharing mutable state with callers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
