package handlers

import (
	"log/slog"
	"net/http"

	"github.com/clubmatch/tournament-engine/services"
)

type PlayerHandler struct {
	playerService services.PlayerService
	logger        *slog.Logger
}

func NewPlayerHandler(playerService services.PlayerService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{playerService: playerService, logger: logger}
}

func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	player, err := h.playerService.Register(r.Context(), input.Name)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil)
}

func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	player, err := h.playerService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil)
}

func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.List(r.Context())
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil)
}
