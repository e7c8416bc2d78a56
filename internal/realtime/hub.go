package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Notifier pushes events to a user's connected clients.
type Notifier interface {
	IsOnline(userID string) bool
	Emit(ctx context.Context, userID, event string, data interface{}) error
}

type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// conn serializes writes; gorilla/websocket allows one concurrent writer
// per connection.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteJSON(v)
}

// Hub tracks the open sockets of each authenticated user. A user may be
// connected from several clients at once; Emit fans out to all of them.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]map[*conn]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[string]map[*conn]struct{}),
	}
}

// HandleSocket upgrades the request and keeps the connection registered
// until the client disconnects. The caller must have authenticated the
// user already.
func (h *Hub) HandleSocket(w http.ResponseWriter, r *http.Request, userID string) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for user %s: %v", userID, err)
		return
	}

	c := &conn{ws: ws}
	h.register(userID, c)
	defer h.unregister(userID, c)
	defer ws.Close()

	// Inbound messages are ignored; the read loop only detects closure.
	ws.SetReadLimit(512)
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(userID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*conn]struct{})
	}
	h.conns[userID][c] = struct{}{}
}

func (h *Hub) unregister(userID string, c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], c)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID]) > 0
}

// Emit sends the event to every open socket of the user. Offline users
// are not an error; the notification stays queued in the database.
func (h *Hub) Emit(ctx context.Context, userID, event string, data interface{}) error {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	msg := envelope{Event: event, Data: data}
	if _, err := json.Marshal(msg); err != nil {
		return err
	}

	for _, c := range targets {
		if err := c.writeJSON(msg); err != nil {
			log.Printf("websocket write failed for user %s: %v", userID, err)
			h.unregister(userID, c)
			c.ws.Close()
		}
	}

	return nil
}
