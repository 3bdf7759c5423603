package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/fantasy-forward/internal/auth"
	"github.com/sakif/fantasy-forward/internal/service"
)

// SuggestionHandler exposes stored transfer suggestions. Reads return the
// caller's own suggestions; writes come from the suggestion pipeline, which
// authenticates like any other client.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
	logger      *slog.Logger
}

// NewSuggestionHandler creates a SuggestionHandler.
func NewSuggestionHandler(suggestions *service.SuggestionService, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, logger: logger}
}

type suggestionRequest struct {
	PlayerOutID     int     `json:"player_out_id"`
	PlayerInID      int     `json:"player_in_id"`
	Reasoning       string  `json:"reasoning"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// HandleList returns the caller's suggestions, newest first.
//
// HTTP: GET /api/v1/suggestions/
func (h *SuggestionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "could not validate credentials"})
		return
	}

	suggestions, err := h.suggestions.List(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestions)
}

// HandleCreate stores a suggestion for the caller.
//
// HTTP: POST /api/v1/suggestions/
// 400 if confidence_score is outside [0.0, 1.0] or a player ID is not
// positive; nothing invalid is persisted.
func (h *SuggestionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "could not validate credentials"})
		return
	}

	var req suggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	suggestion, err := h.suggestions.Create(r.Context(), user.ID,
		req.PlayerOutID, req.PlayerInID, req.Reasoning, req.ConfidenceScore)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, suggestion)
}
