package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/parley-ai/parley-backend/internal/domain"
)

// Relay talks to a generic JSON chat-completion service over HTTPS. The
// service accepts a message plus either a continuation token or a fresh
// thread configuration, and answers in one of the shapes relayResponse
// covers.
type Relay struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewRelay(endpoint, apiKey string, timeout time.Duration) *Relay {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Relay{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

type relayRequest struct {
	Message           string       `json:"message"`
	ContinuationToken string       `json:"continuation_token,omitempty"`
	Config            *relayConfig `json:"config,omitempty"`
}

type relayConfig struct {
	SystemPrompt string `json:"system_prompt,omitempty"`
	Model        string `json:"model,omitempty"`
}

// Send performs exactly one upstream request. Any transport failure,
// non-success status, or timeout becomes an upstream error; there is no
// retry. Error text never includes the API key.
func (r *Relay) Send(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	body := relayRequest{
		Message:           req.Message,
		ContinuationToken: req.ContinuationToken,
	}
	if req.ContinuationToken == "" && req.Config != nil {
		body.Config = &relayConfig{
			SystemPrompt: req.Config.SystemPrompt,
			Model:        req.Config.Model,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building relay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	res, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewUpstreamError("chat provider unreachable", 0, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.NewUpstreamError("reading chat provider response", res.StatusCode, err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, domain.NewUpstreamError(upstreamMessage(raw), res.StatusCode, nil)
	}

	var parsed relayResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, domain.NewUpstreamError("chat provider returned malformed JSON", res.StatusCode, err)
	}

	reply := &domain.ChatReply{
		Text:              extractReplyText(&parsed),
		ContinuationToken: parsed.ContinuationToken,
	}
	if parsed.Model != "" {
		reply.Metadata = map[string]any{"model": parsed.Model}
	}
	return reply, nil
}

// upstreamMessage pulls a human-readable message out of an error body when
// the provider supplies one.
func upstreamMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return "chat provider returned an error"
}
