package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aara-health/aara/internal/models"
	"github.com/aara-health/aara/internal/rules"
)

// ChatRunner executes one decision pass for a user utterance. Satisfied by
// agent.Orchestrator; faked in handler tests.
type ChatRunner interface {
	Run(ctx context.Context, userInput string, history []models.Exchange) string
}

// Server exposes the decision core over HTTP: POST /chat, GET /health, and
// POST /rules/reload.
type Server struct {
	runner ChatRunner
	rules  *rules.Provider
	addr   string
}

// NewServer creates the HTTP server for the decision core.
func NewServer(addr string, runner ChatRunner, rulesProvider *rules.Provider) *Server {
	return &Server{runner: runner, rules: rulesProvider, addr: addr}
}

// Handler builds the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.chatHandler)
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/rules/reload", s.reloadRulesHandler)
	return mux
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run() error {
	slog.Info("Server.Run: Aara API listening", "addr", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

// chatHandler handles POST /chat.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("chatHandler: invalid JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Warn("chatHandler: validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	response := s.runner.Run(r.Context(), req.UserInput, req.ChatHistory)
	writeJSONResponse(w, http.StatusOK, models.Success(models.ChatResponse{FinalResponse: response}))
}

// healthHandler handles GET /health.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(map[string]string{"status": "healthy"}))
}

// reloadRulesHandler handles POST /rules/reload. Reload is only ever a full
// catalog replacement; a degraded reload still swaps the catalog and reports
// what degraded.
func (s *Server) reloadRulesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("Method not allowed"))
		return
	}
	if err := s.rules.Reload(); err != nil {
		writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Rules reloaded with degraded documents: "+err.Error(), nil))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Rules reloaded", nil))
}
