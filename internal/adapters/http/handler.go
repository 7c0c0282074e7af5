package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/parley-ai/parley-backend/internal/app/chat"
	"github.com/parley-ai/parley-backend/internal/domain"
)

type Server struct {
	chat   *chat.Service
	speech domain.SpeechProvider
}

func NewServer(chatSvc *chat.Service, speechProvider domain.SpeechProvider) http.Handler {
	s := &Server{chat: chatSvc, speech: speechProvider}
	mux := http.NewServeMux()

	// /chat     → POST: one conversation turn
	mux.HandleFunc("/chat", s.handleChat)

	// /speech   → POST: text to audio
	mux.HandleFunc("/speech", s.handleSpeech)

	// /sessions       → GET: recent session metadata
	// /sessions/{id}  → GET: continuity metadata for one session
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionByID)

	mux.HandleFunc("/healthz", s.handleHealthz)

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	ReplyText         string `json:"reply_text"`
	SessionID         string `json:"session_id"`
	ContinuationToken string `json:"continuation_token"`
	NewSession        bool   `json:"new_session"`
	TurnCount         int    `json:"turn_count"`
}

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type sessionResponse struct {
	ID                string    `json:"id"`
	ContinuationToken string    `json:"continuation_token"`
	TurnCount         int       `json:"turn_count"`
	CreatedAt         time.Time `json:"created_at"`
	LastTurnAt        time.Time `json:"last_turn_at"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.chat.Send(r.Context(), chat.SendInput{
		SessionID: req.SessionID,
		Message:   req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ReplyText:         out.ReplyText,
		SessionID:         string(out.SessionID),
		ContinuationToken: out.ContinuationToken,
		NewSession:        out.NewSession,
		TurnCount:         out.TurnCount,
	})
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	result, err := s.speech.Synthesize(r.Context(), domain.SpeechRequest{
		Text:  req.Text,
		Voice: req.Voice,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Audio)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sessions, err := s.chat.ListSessions(r.Context(), 50)
	if err != nil {
		internalError(w, err)
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(sess))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	sess, err := s.chat.GetSession(r.Context(), domain.SessionID(id))
	if err != nil {
		internalError(w, err)
		return
	}
	// An unknown session is a defined empty result internally, but on the
	// query surface it maps to 404.
	if sess == nil {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toSessionResponse(sess *domain.Session) sessionResponse {
	return sessionResponse{
		ID:                string(sess.ID),
		ContinuationToken: sess.LastContinuationToken,
		TurnCount:         sess.TurnCount,
		CreatedAt:         sess.CreatedAt,
		LastTurnAt:        sess.LastTurnAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status codes: validation → 400,
// upstream → 502, anything else → opaque 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: errorBody{Kind: string(domain.KindValidation), Message: errMessage(err)},
		})
	case domain.IsUpstream(err):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: errorBody{Kind: string(domain.KindUpstream), Message: errMessage(err)},
		})
	default:
		internalError(w, err)
	}
}

func errMessage(err error) string {
	var e *domain.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error: errorBody{Kind: string(domain.KindValidation), Message: msg},
	})
}

func internalError(w http.ResponseWriter, _ error) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: errorBody{Kind: "internal", Message: "internal server error"},
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
		Error: errorBody{Kind: "method_not_allowed", Message: "method not allowed"},
	})
}
