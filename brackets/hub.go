package brackets

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to tournament rooms.
const (
	EventMatchPlayed       = "MATCH_PLAYED"
	EventStageChanged      = "STAGE_CHANGED"
	EventBracketUpdated    = "BRACKET_UPDATED"
	EventDrawRegenerated   = "DRAW_REGENERATED"
	EventChampionDecided   = "CHAMPION_DECIDED"
	EventTournamentDeleted = "TOURNAMENT_DELETED"
)

type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string
	IsClosed bool
	Mu       sync.Mutex
}

type WebSocketMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans tournament events out to websocket clients grouped in rooms.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// RoomForTournament is the room id clients of one tournament join.
func RoomForTournament(tournamentID string) string {
	return "tournament_" + tournamentID
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.logger.Info("client registered", slog.String("room", client.Room), slog.Int("clients", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if room, ok := h.rooms[client.Room]; ok {
				if _, okClient := room[client]; okClient {
					client.Mu.Lock()
					if !client.IsClosed {
						close(client.Send)
						client.IsClosed = true
					}
					client.Mu.Unlock()
					delete(room, client)
					if len(room) == 0 {
						delete(h.rooms, client.Room)
						h.logger.Info("room closed", slog.String("room", client.Room))
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of clients in a room.
func (h *Hub) ClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// BroadcastToRoom sends a message to every client in the room. Slow clients are skipped.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal room message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		client.Mu.Lock()
		if client.IsClosed {
			client.Mu.Unlock()
			continue
		}
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("client send buffer full, skipping", slog.String("room", roomID))
		}
		client.Mu.Unlock()
	}
}

// Notify broadcasts a typed event to the tournament's room. Events for rooms
// without subscribers are dropped before encoding.
func (h *Hub) Notify(tournamentID, eventType string, payload interface{}) {
	room := RoomForTournament(tournamentID)
	if h.ClientCount(room) == 0 {
		return
	}
	h.BroadcastToRoom(room, WebSocketMessage{Type: eventType, Payload: payload, RoomID: room})
}

// ReadPump keeps the connection alive for a subscriber. Subscribers never send
// events, so inbound frames are read only to process pongs and detect close.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	extend := func(string) error { return c.Conn.SetReadDeadline(time.Now().Add(pongWait)) }
	_ = extend("")
	c.Conn.SetPongHandler(extend)

	for {
		_, _, err := c.Conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			c.Hub.logger.Warn("websocket closed unexpectedly", slog.String("room", c.Room), slog.Any("error", err))
		}
		return
	}
}

// WritePump delivers queued events, one JSON document per text frame, and pings idle
// connections. It exits when Send is closed by the hub or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		var (
			frameType = websocket.PingMessage
			data      []byte
		)
		select {
		case event, ok := <-c.Send:
			if !ok {
				_ = c.Conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed"),
					time.Now().Add(writeWait))
				return
			}
			frameType, data = websocket.TextMessage, event
		case <-ticker.C:
		}
		if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.Conn.WriteMessage(frameType, data); err != nil {
			c.Hub.logger.Debug("websocket write failed", slog.String("room", c.Room), slog.Any("error", err))
			return
		}
	}
}
