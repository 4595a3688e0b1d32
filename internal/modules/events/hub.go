package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/VladyslavAslanov/ARBO-Technologies-Technical-Assignment/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins (configure in prod)
}

// Event is a record lifecycle notification pushed to clients of the owning
// device.
type Event struct {
	Type     string      `json:"type"`
	RecordID string      `json:"recordId"`
	Payload  interface{} `json:"payload,omitempty"`
}

const (
	EventRecordCreated = "record_created"
	EventRecordDeleted = "record_deleted"
)

// connection represents a single WebSocket client
type connection struct {
	ownerID string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub manages all active WebSocket connections. A device can hold several
// sockets at once (e.g. list and detail screens).
type Hub struct {
	mu          sync.RWMutex
	connections map[string]map[*connection]struct{} // ownerID -> sockets
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]map[*connection]struct{}),
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.connections[c.ownerID]
	if !ok {
		set = make(map[*connection]struct{})
		h.connections[c.ownerID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.connections[c.ownerID]; ok {
		if _, member := set[c]; member {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.connections, c.ownerID)
		}
	}
}

// publish sends an event to every socket of the owning device.
func (h *Hub) publish(ownerID string, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections[ownerID] {
		select {
		case c.send <- data:
		default:
			// Client too slow, skip
		}
	}
}

// RecordCreated implements the records service publisher interface.
func (h *Hub) RecordCreated(ownerID string, rec *domain.Record) {
	h.publish(ownerID, &Event{Type: EventRecordCreated, RecordID: rec.ID, Payload: rec})
}

func (h *Hub) RecordDeleted(ownerID, recordID string) {
	h.publish(ownerID, &Event{Type: EventRecordDeleted, RecordID: recordID})
}

// ServeWS registers a new connection and starts read/write loops
func (h *Hub) ServeWS(conn *websocket.Conn, ownerID string) {
	c := &connection{
		ownerID: ownerID,
		conn:    conn,
		send:    make(chan []byte, 64),
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c) // blocks until disconnect
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Clients do not send application messages; the loop only services
	// control frames and detects disconnects.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
