package notify

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"workops/internal/core/ports"
)

const (
	eventStatus = "status"

	// Per-client outbound buffer; a client that falls this far behind
	// gets dropped rather than slowing the hub.
	clientSendBuffer = 8
	hubBuffer        = 64

	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

// Event is the wire frame pushed to realtime clients.
type Event struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans a status string out to every connected realtime client. There
// is no targeting, acknowledgment, retry, or backlog: a message missed is
// a message lost.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	clients    map[*client]struct{}
}

var _ ports.Broadcaster = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, hubBuffer),
		clients:    make(map[*client]struct{}),
	}
}

// Run owns all mutation of the client set. It exits when ctx is done,
// closing every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case event := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- event:
				default:
					// Slow consumer; disconnect instead of blocking.
					h.drop(c)
				}
			}
		}
	}
}

// Broadcast queues a status event for every connected client. It never
// blocks the caller: when the hub buffer is full the message is dropped.
func (h *Hub) Broadcast(message string) {
	select {
	case h.broadcast <- Event{Event: eventStatus, Data: message}:
	default:
		zap.L().Warn("notification dropped, hub buffer full", zap.String("message", message))
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}

// HandleConnection serves one websocket connection until it closes. The
// caller has already authenticated the upgrade request.
func (h *Hub) HandleConnection(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan Event, clientSendBuffer)}
	h.register <- c

	go c.writePump()
	c.readPump(h)
}

// readPump discards inbound frames; the channel is push-only. It exists to
// observe the close handshake and pong replies.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for event := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}

	// Send channel closed by the hub: tell the peer we are going away.
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
}
