package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"trade-ledger-bot/internal/chat"
	"trade-ledger-bot/internal/logger"
	"trade-ledger-bot/internal/trace"
	"trade-ledger-bot/internal/types"
)

// emptyMessagePrompt is the fixed 400 response for blank input.
const emptyMessagePrompt = "Please include a message, e.g. 'Buy 10 AAPL at 192.50 on 2026-01-20'."

// ChatHandler is the slice of the orchestrator the server needs.
type ChatHandler interface {
	HandleMessage(ctx context.Context, message string) chat.Response
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string          `json:"reply"`
	Tools types.ToolUsage `json:"tools"`
}

type Server struct {
	httpServer *http.Server
	handler    ChatHandler
}

func New(addr string, handler ChatHandler) *Server {
	s := &Server{handler: handler}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           withCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := trace.StartSpan(r.Context(), "http.chat")
	defer span.End()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Reply: emptyMessagePrompt,
			Tools: types.DefaultToolUsage(),
		})
		return
	}

	logger.Info(ctx, "Chat message received", "chars", len(req.Message))
	resp := s.handler.HandleMessage(ctx, req.Message)

	status := http.StatusOK
	switch resp.Status {
	case chat.StatusServiceUnavailable:
		status = http.StatusServiceUnavailable
	case chat.StatusError:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, chatResponse{Reply: resp.Reply, Tools: resp.Tools})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "trade-ledger-bot",
		"version": "1.0.0",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// withCORS applies a permissive CORS policy; the chat UI is served from a
// different origin during development.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
