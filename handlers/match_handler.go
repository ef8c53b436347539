package handlers

import (
	"log/slog"
	"net/http"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
	logger       *slog.Logger
}

func NewMatchHandler(matchService services.MatchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{matchService: matchService, logger: logger}
}

func (h *MatchHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	matches, err := h.matchService.ListByTournament(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil)
}

func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		Sets []models.SetScore `json:"sets"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.matchService.SubmitResult(r.Context(), id, input.Sets)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil)
}

func (h *MatchHandler) ResetResult(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.matchService.ResetResult(r.Context(), id); err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
