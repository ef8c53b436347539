package handlers

import (
	"log/slog"
	"net/http"

	"github.com/clubmatch/tournament-engine/live"
	"github.com/clubmatch/tournament-engine/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the configured frontend host.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub               *live.Hub
	tournamentService services.TournamentService
	logger            *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, tournamentService services.TournamentService, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, tournamentService: tournamentService, logger: logger}
}

// ServeWs subscribes the caller to a tournament's live feed.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	if _, err := h.tournamentService.GetByID(r.Context(), id); err != nil {
		mapServiceError(h.logger, w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed", "tournament_id", id, "error", err)
		return
	}
	h.hub.Serve(conn, id)
}
