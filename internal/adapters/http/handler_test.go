package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpadapter "github.com/parley-ai/parley-backend/internal/adapters/http"
	"github.com/parley-ai/parley-backend/internal/adapters/provider"
	"github.com/parley-ai/parley-backend/internal/adapters/speech"
	"github.com/parley-ai/parley-backend/internal/adapters/storage/memory"
	"github.com/parley-ai/parley-backend/internal/app/chat"
	"github.com/parley-ai/parley-backend/internal/domain"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	svc := chat.NewService(provider.NewMock(), memory.NewSessionStore(), chat.Options{})
	return httpadapter.NewServer(svc, speech.NewMock())
}

type chatResponse struct {
	ReplyText         string `json:"reply_text"`
	SessionID         string `json:"session_id"`
	ContinuationToken string `json:"continuation_token"`
	NewSession        bool   `json:"new_session"`
	TurnCount         int    `json:"turn_count"`
}

type errorResponse struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

func postJSON(t *testing.T, srv http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChatAndContinue(t *testing.T) {
	srv := newTestServer(t)

	// First turn, no session id.
	w := postJSON(t, srv, "/chat", `{"message":"Hello"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var first chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding first response: %v", err)
	}
	if first.SessionID == "" || first.ReplyText == "" {
		t.Fatalf("expected session id and reply, got %+v", first)
	}
	if !first.NewSession || first.TurnCount != 1 {
		t.Fatalf("expected new session with turn count 1, got %+v", first)
	}

	// Second turn on the same session.
	w = postJSON(t, srv, "/chat", `{"message":"And then?","session_id":"`+first.SessionID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var second chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatalf("decoding second response: %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Fatalf("session id changed: %q -> %q", first.SessionID, second.SessionID)
	}
	if second.NewSession || second.TurnCount != 2 {
		t.Fatalf("expected continuing session with turn count 2, got %+v", second)
	}
	if second.ContinuationToken == first.ContinuationToken {
		t.Fatalf("continuation token was not replaced")
	}
}

func TestChatValidationError(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/chat", `{"message":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error.Kind != string(domain.KindValidation) {
		t.Fatalf("expected validation kind, got %q", resp.Error.Kind)
	}
}

func TestChatInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/chat", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestSpeechEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/speech", `{"text":"read this aloud"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "read this aloud") {
		t.Fatalf("mock audio should embed the input text, got %q", w.Body.String())
	}
}

func TestSpeechRequiresText(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/speech", `{"text":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/sessions/never-seen", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetSessionAfterChat(t *testing.T) {
	srv := newTestServer(t)

	w := postJSON(t, srv, "/chat", `{"message":"Hello"}`)
	var first chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding chat response: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+first.SessionID, nil)
	w2 := httptest.NewRecorder()
	srv.ServeHTTP(w2, req)

	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w2.Code)
	}

	var sess struct {
		ID        string `json:"id"`
		TurnCount int    `json:"turn_count"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decoding session response: %v", err)
	}
	if sess.ID != first.SessionID || sess.TurnCount != 1 {
		t.Fatalf("unexpected session metadata: %+v", sess)
	}
}

func TestListSessions(t *testing.T) {
	srv := newTestServer(t)

	_ = postJSON(t, srv, "/chat", `{"message":"one"}`)
	_ = postJSON(t, srv, "/chat", `{"message":"two"}`)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Sessions []json.RawMessage `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding list response: %v", err)
	}
	if len(resp.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(resp.Sessions))
	}
}
