package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/repositories"
	"github.com/clubmatch/tournament-engine/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	logger            *slog.Logger
}

func NewTournamentHandler(tournamentService services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService, logger: logger}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Create(r.Context(), input)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ListTournamentsFilter{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.TournamentStatus(raw)
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	tournaments, err := h.tournamentService.List(r.Context(), filter)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil)
}

// Get serves the full aggregate: teams, pools, matches and brackets.
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	tournament, err := h.tournamentService.Snapshot(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.tournamentService.Delete(r.Context(), id); err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) FormTeams(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	var input struct {
		PlayerIDs []int `json:"player_ids"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	teams, err := h.tournamentService.FormTeams(r.Context(), id, input.PlayerIDs)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"teams": teams}, nil)
}

func (h *TournamentHandler) AssignPools(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	pools, err := h.tournamentService.AssignPools(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"pools": pools}, nil)
}

func (h *TournamentHandler) GenerateBracket(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	nodes, err := h.tournamentService.GenerateBracket(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"bracket": nodes}, nil)
}

func (h *TournamentHandler) ResetBracket(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.tournamentService.ResetBracket(r.Context(), id); err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TournamentHandler) Standings(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	standings, err := h.tournamentService.PoolStandings(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil)
}

func (h *TournamentHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	defer file.Close()

	tournament, err := h.tournamentService.UploadLogo(r.Context(), id, header.Header.Get("Content-Type"), file)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil)
}
