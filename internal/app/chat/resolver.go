package chat

import (
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// maxSessionIDBytes bounds caller-supplied session ids. Anything longer, or
// containing control characters, is malformed.
const maxSessionIDBytes = 128

// validateMessage trims and checks the inbound message. Runs before any
// store or network access, so a rejection has no side effects.
func validateMessage(message string, maxChars int) (string, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "", domain.NewValidationError("message must not be empty")
	}
	if len([]rune(trimmed)) > maxChars {
		return "", domain.NewValidationError("message exceeds the maximum length")
	}
	return trimmed, nil
}

// resolveSessionID validates a caller-supplied id or mints a fresh one.
// minted reports whether the id was generated here.
func resolveSessionID(raw string) (id domain.SessionID, minted bool, err error) {
	if raw == "" {
		return domain.SessionID(uuid.NewString()), true, nil
	}
	if len(raw) > maxSessionIDBytes {
		return "", false, domain.NewValidationError("session_id is too long")
	}
	if strings.ContainsFunc(raw, unicode.IsControl) {
		return "", false, domain.NewValidationError("session_id contains invalid characters")
	}
	return domain.SessionID(raw), false, nil
}

// buildProviderRequest shapes the outbound request: a session with a stored
// continuation token continues that thread, anything else opens a new one.
// Token and config are mutually exclusive.
func buildProviderRequest(message string, prior *domain.Session, cfg domain.ThreadConfig) domain.ChatRequest {
	if prior != nil && prior.LastContinuationToken != "" {
		return domain.ChatRequest{
			Message:           message,
			ContinuationToken: prior.LastContinuationToken,
		}
	}
	return domain.ChatRequest{
		Message: message,
		Config:  &cfg,
	}
}
