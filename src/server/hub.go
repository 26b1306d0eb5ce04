package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"stock-insight/src/logger"
	"stock-insight/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const broadcastQueueSize = 256

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// Hub fans lookup events out to websocket clients. Only the Run goroutine
// touches the client set, the client filters and the send channels.
type Hub struct {
	Logger *logger.Logger

	clients    map[*Client]struct{}
	broadcast  chan models.MLookupEvent
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	quit       chan struct{}
	stopOnce   sync.Once

	// Last event per symbol, replayed on connect and on subscribe
	latest      map[string]models.MLookupEvent
	connections atomic.Int64
}

type subscription struct {
	client  *Client
	symbols []string
}

// -----------------------------------------------------------------------------

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		Logger:     log,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan models.MLookupEvent, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		quit:       make(chan struct{}),
		latest:     make(map[string]models.MLookupEvent),
	}
}

// -----------------------------------------------------------------------------

// Run is the main Hub loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.connections.Store(int64(len(h.clients)))
			h.push(client, h.snapshot(client.symbols))

		case client := <-h.unregister:
			h.drop(client)

		case sub := <-h.subscribe:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			sub.client.symbols = symbolSet(sub.symbols)
			h.push(sub.client, h.snapshot(sub.client.symbols))

		case event := <-h.broadcast:
			h.latest[event.Symbol] = event
			for client := range h.clients {
				if matches(client.symbols, event.Symbol) {
					h.push(client, event)
				}
			}

		case <-h.quit:
			for client := range h.clients {
				h.drop(client)
			}
			return
		}
	}
}

// -----------------------------------------------------------------------------

// push never blocks the Hub: a client whose buffer is full is disconnected.
func (h *Hub) push(client *Client, message any) {
	select {
	case client.send <- message:
	default:
		h.Logger.Warning("Client too slow, disconnecting")
		h.drop(client)
	}
}

// -----------------------------------------------------------------------------

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.connections.Store(int64(len(h.clients)))
	}
}

// -----------------------------------------------------------------------------

func (h *Hub) snapshot(filter map[string]struct{}) models.MLookupSnapshot {
	events := make(map[string]models.MLookupEvent)
	for sym, event := range h.latest {
		if matches(filter, sym) {
			event.Type = "INITIAL"
			events[sym] = event
		}
	}
	return models.MLookupSnapshot{Type: "INITIAL", Events: events}
}

// -----------------------------------------------------------------------------

// Broadcast queues an event without blocking; events are dropped when the
// queue is full or the hub is stopped.
func (h *Hub) Broadcast(event models.MLookupEvent) {
	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- event:
	default:
		h.Logger.Warning("Broadcast queue full, dropping event for %s", event.Symbol)
	}
}

// -----------------------------------------------------------------------------

func (h *Hub) Connections() int {
	return int(h.connections.Load())
}

// -----------------------------------------------------------------------------

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

// -----------------------------------------------------------------------------

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.quit:
		return false
	}
}

// -----------------------------------------------------------------------------

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage applies a subscribe command. Anything that is not JSON
// closes the connection.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		h.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	select {
	case h.subscribe <- subscription{client: client, symbols: cmd.Symbols}:
	case <-h.quit:
	}
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin accepts non-browser clients, same-host pages and the CORS allow list.
func (s *APIServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return s.originAllowed(origin)
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan any, 256),
	}

	if !s.hub.join(client) {
		conn.Close()
		return
	}

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
