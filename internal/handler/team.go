package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/wire"
)

// TeamHandler handles HTTP requests for team endpoints.
type TeamHandler struct {
	teamSvc *service.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamSvc *service.TeamService) *TeamHandler {
	return &TeamHandler{teamSvc: teamSvc}
}

// teamListResponse is the JSON response for GET /teams.
type teamListResponse struct {
	Teams []wire.Team `json:"teams"`
}

// Register handles POST /teams.
func (h *TeamHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req wire.Team
	if err := ParseJSON(r, &req); err != nil {
		mapTeamError(w, err)
		return
	}

	team, err := req.ToDomain()
	if err != nil {
		mapTeamError(w, err)
		return
	}

	created, err := h.teamSvc.Register(r.Context(), team)
	if err != nil {
		mapTeamError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, wire.FromTeam(created))
}

// List handles GET /teams.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamSvc.List(r.Context())
	if err != nil {
		mapTeamError(w, err)
		return
	}

	resp := teamListResponse{Teams: make([]wire.Team, len(teams))}
	for i, t := range teams {
		resp.Teams[i] = wire.FromTeam(t)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Get handles GET /teams/{team_id}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "team_id")

	team, err := h.teamSvc.Get(r.Context(), teamID)
	if err != nil {
		mapTeamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, wire.FromTeam(team))
}

// mapTeamError maps domain errors to HTTP error responses for team endpoints.
func mapTeamError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", valErr.Message)
		return
	}
	if errors.Is(err, domain.ErrTeamAlreadyExists) {
		WriteError(w, http.StatusConflict, "team_already_exists", err.Error())
		return
	}
	if errors.Is(err, domain.ErrTeamNotFound) {
		WriteError(w, http.StatusNotFound, "team_not_found", "Team not found")
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
