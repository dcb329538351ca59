package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/wire"
)

// TradeHandler handles HTTP requests for trade endpoints.
type TradeHandler struct {
	tradeSvc *service.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(tradeSvc *service.TradeService) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// tradeHistoryResponse is the JSON response for GET /teams/{team_id}/trades.
type tradeHistoryResponse struct {
	TeamID string             `json:"team_id"`
	Trades []wire.TradeRecord `json:"trades"`
}

// Validate handles POST /trades/validate. An invalid trade is a 200 with
// valid=false; only malformed requests are errors.
func (h *TradeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	proposal, ok := parseProposal(w, r)
	if !ok {
		return
	}

	result, err := h.tradeSvc.Validate(r.Context(), proposal)
	if err != nil {
		mapTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, wire.FromResult(result))
}

// Execute handles POST /trades.
func (h *TradeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	proposal, ok := parseProposal(w, r)
	if !ok {
		return
	}

	rec, err := h.tradeSvc.Execute(r.Context(), proposal)
	if err != nil {
		mapTradeError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, wire.FromTradeRecord(rec))
}

// History handles GET /teams/{team_id}/trades.
func (h *TradeHandler) History(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "team_id")

	records, err := h.tradeSvc.History(r.Context(), teamID)
	if err != nil {
		mapTradeError(w, err)
		return
	}

	resp := tradeHistoryResponse{TeamID: teamID, Trades: make([]wire.TradeRecord, len(records))}
	for i, rec := range records {
		resp.Trades[i] = wire.FromTradeRecord(rec)
	}
	WriteJSON(w, http.StatusOK, resp)
}

func parseProposal(w http.ResponseWriter, r *http.Request) (domain.TradeProposal, bool) {
	var req wire.Proposal
	if err := ParseJSON(r, &req); err != nil {
		mapTradeError(w, err)
		return domain.TradeProposal{}, false
	}
	proposal, err := req.ToDomain()
	if err != nil {
		mapTradeError(w, err)
		return domain.TradeProposal{}, false
	}
	return proposal, true
}

// mapTradeError maps domain errors to HTTP error responses for trade endpoints.
func mapTradeError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		WriteError(w, http.StatusBadRequest, "validation_error", valErr.Message)
		return
	}
	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		WriteRejection(w, execErr.Violation)
		return
	}
	if errors.Is(err, domain.ErrTeamNotFound) {
		WriteError(w, http.StatusNotFound, "team_not_found", err.Error())
		return
	}
	if errors.Is(err, domain.ErrVersionConflict) {
		WriteError(w, http.StatusConflict, "version_conflict",
			"Team changed during settlement, validate again")
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}
