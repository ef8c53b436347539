// Package live pushes tournament state changes to connected browsers
// over websockets. Clients join one room per tournament and only ever
// receive; inbound frames are drained and dropped.
package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventTournamentUpdated = "TOURNAMENT_UPDATED"
	EventStandingsUpdated  = "STANDINGS_UPDATED"
	EventBracketUpdated    = "BRACKET_UPDATED"
	EventMatchUpdated      = "MATCH_UPDATED"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// TournamentRoom is the room key for a tournament's live feed.
func TournamentRoom(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	room string
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// Hub fans messages out to room members. Register/unregister run on
// the hub goroutine; BroadcastToRoom may be called from any goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	rooms  map[string]map[*Client]bool
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client joined", "room", client.room, "clients", len(h.rooms[client.room]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if members, ok := h.rooms[client.room]; ok {
				if members[client] {
					client.close()
					delete(members, client)
					if len(members) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every client watching the tournament.
// Slow clients are skipped rather than blocking the caller.
func (h *Hub) Broadcast(tournamentID int, eventType string, payload interface{}) {
	room := TournamentRoom(tournamentID)

	raw, err := json.Marshal(Message{Type: eventType, Payload: payload, RoomID: room})
	if err != nil {
		h.logger.Error("marshal websocket message", "room", room, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[room] {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.send <- raw:
			default:
				h.logger.Warn("dropping message for slow websocket client", "room", room)
			}
		}
		client.mu.Unlock()
	}
}

// Serve attaches an upgraded connection to the hub and starts its
// pumps. It returns immediately.
func (h *Hub) Serve(conn *websocket.Conn, tournamentID int) {
	client := &Client{
		hub:  h,
		conn: conn,
		room: TournamentRoom(tournamentID),
		send: make(chan []byte, 16),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", "room", c.room, "error", err)
			}
			return
		}
		// Inbound frames are ignored; the feed is one-way.
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
