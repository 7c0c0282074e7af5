package provider

import "strings"

// FallbackReply is returned when no extraction strategy yields text. Callers
// depend on always receiving a non-empty reply, so this exact string is part
// of the contract.
const FallbackReply = "I'm sorry, I wasn't able to come up with a reply."

// relayResponse is the union of reply shapes the relay provider is known to
// produce. Any subset of fields may be present.
type relayResponse struct {
	Messages []relayTurn `json:"messages"`
	Content  string      `json:"content"`
	Message  string      `json:"message"`
	Response string      `json:"response"`

	ContinuationToken string `json:"continuation_token"`
	Model             string `json:"model"`
}

type relayTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// An extractor inspects one candidate reply location. Pure: no side effects,
// ok=false when the location has nothing usable.
type extractor func(r *relayResponse) (text string, ok bool)

// extractors is the fixed priority order: most recent assistant entry in the
// turn list, then the flat content, message, and response fields.
var extractors = []extractor{
	extractAssistantTurn,
	extractContent,
	extractMessage,
	extractResponse,
}

// extractReplyText applies the strategies in order and falls back to the
// canned reply so the result is never empty.
func extractReplyText(r *relayResponse) string {
	for _, ex := range extractors {
		if text, ok := ex(r); ok {
			return text
		}
	}
	return FallbackReply
}

func extractAssistantTurn(r *relayResponse) (string, bool) {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		turn := r.Messages[i]
		if turn.Role != "assistant" {
			continue
		}
		if text := strings.TrimSpace(turn.Content); text != "" {
			return text, true
		}
	}
	return "", false
}

func extractContent(r *relayResponse) (string, bool)  { return nonEmpty(r.Content) }
func extractMessage(r *relayResponse) (string, bool)  { return nonEmpty(r.Message) }
func extractResponse(r *relayResponse) (string, bool) { return nonEmpty(r.Response) }

func nonEmpty(s string) (string, bool) {
	text := strings.TrimSpace(s)
	return text, text != ""
}
