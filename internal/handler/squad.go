package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/fantasy-forward/internal/auth"
	"github.com/sakif/fantasy-forward/internal/service"
)

// SquadHandler manages the squad endpoints. All routes here sit behind
// RequireAuth; the acting user always comes from the request context.
type SquadHandler struct {
	squads *service.SquadService
	logger *slog.Logger
}

// NewSquadHandler creates a SquadHandler.
func NewSquadHandler(squads *service.SquadService, logger *slog.Logger) *SquadHandler {
	return &SquadHandler{squads: squads, logger: logger}
}

// squadRequest is the body for saving a squad. Players may be omitted
// (empty squad); budget_remaining is required and non-negative.
type squadRequest struct {
	Players         json.RawMessage `json:"players"`
	BudgetRemaining float64         `json:"budget_remaining"`
	Formation       string          `json:"formation"`
}

// squadUpdateRequest is the body for a partial update. Absent fields stay
// unchanged, which is why budget and formation are pointers here.
type squadUpdateRequest struct {
	Players         json.RawMessage `json:"players"`
	BudgetRemaining *float64        `json:"budget_remaining"`
	Formation       *string         `json:"formation"`
}

// HandleGet returns the caller's squad.
//
// HTTP: GET /api/v1/squads/
// Responds 200 with the squad, or 200 with a JSON null body when the user
// has not saved one yet.
func (h *SquadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "could not validate credentials"})
		return
	}

	squad, err := h.squads.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	if squad == nil {
		// No squad yet — explicit null, not an error.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null\n"))
		return
	}

	writeJSON(w, http.StatusOK, squad)
}

// HandleSave creates or overwrites the caller's squad.
//
// HTTP: POST /api/v1/squads/
// Always responds 201 with the stored squad; saving twice leaves a single
// squad holding the second call's values.
func (h *SquadHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "could not validate credentials"})
		return
	}

	var req squadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	squad, err := h.squads.Save(r.Context(), user.ID, req.Players, req.BudgetRemaining, req.Formation)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, squad)
}

// HandleUpdate partially updates a squad by ID.
//
// HTTP: PUT /api/v1/squads/{id}
// 404 if the squad doesn't exist, 403 if the caller doesn't own it.
func (h *SquadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "could not validate credentials"})
		return
	}

	var req squadUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	squad, err := h.squads.UpdateByID(r.Context(), r.PathValue("id"), user.ID, service.SquadUpdate{
		Players:         req.Players,
		BudgetRemaining: req.BudgetRemaining,
		Formation:       req.Formation,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, squad)
}
