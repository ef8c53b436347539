package handlers

import (
	"log/slog"
	"net/http"

	"github.com/clubmatch/tournament-engine/middleware"
	"github.com/clubmatch/tournament-engine/models"
	"github.com/clubmatch/tournament-engine/services"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	organizer, token, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"organizer": organizer, "token": token}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := readJSON(w, r, &creds); err != nil {
		badRequestResponse(w, err)
		return
	}

	organizer, token, err := h.authService.Login(r.Context(), creds)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"organizer": organizer, "token": token}, nil)
}

// Me returns the organizer owning the presented token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.OrganizerIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	organizer, err := h.authService.Profile(r.Context(), organizerID)
	if err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"organizer": organizer}, nil)
}
