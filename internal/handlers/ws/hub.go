package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/lysokunvoath/grex/internal/metrics"
	"github.com/lysokunvoath/grex/internal/service"
)

const (
	TypeGroupEvent = "group_event"

	defaultSendBuffer = 32
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one live connection. A user may hold several.
type Client struct {
	UserID uuid.UUID

	conn Conn
	send chan []byte
	done chan struct{}
	once sync.Once

	mu       sync.Mutex
	groups   map[uuid.UUID]struct{}
	lastPong time.Time
}

// Subscribe narrows delivery to the given groups. With no subscriptions the
// client receives events for every group it belongs to.
func (c *Client) Subscribe(groupIDs ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range groupIDs {
		c.groups[id] = struct{}{}
	}
}

func (c *Client) Unsubscribe(groupIDs ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range groupIDs {
		delete(c.groups, id)
	}
}

func (c *Client) wants(groupID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.groups) == 0 {
		return true
	}
	_, ok := c.groups[groupID]
	return ok
}

// Send queues data without blocking. It reports false when the client's
// buffer is full or the client is closed.
func (c *Client) Send(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Hub routes group events to the connected members of each group.
type Hub struct {
	clients      map[uuid.UUID]map[*Client]struct{}
	clientsMux   sync.RWMutex
	pingInterval time.Duration
	pongTimeout  time.Duration
	sendBuffer   int
}

func NewHub() *Hub {
	return &Hub{
		clients:      make(map[uuid.UUID]map[*Client]struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
		sendBuffer:   defaultSendBuffer,
	}
}

// Register adds a connection and starts its writer.
func (h *Hub) Register(userID uuid.UUID, conn Conn) *Client {
	client := &Client{
		UserID:   userID,
		conn:     conn,
		send:     make(chan []byte, h.sendBuffer),
		done:     make(chan struct{}),
		groups:   make(map[uuid.UUID]struct{}),
		lastPong: time.Now(),
	}

	conn.SetPongHandler(func(string) error {
		client.mu.Lock()
		client.lastPong = time.Now()
		client.mu.Unlock()
		return conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
	})
	_ = conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
	total := h.countLocked()
	h.clientsMux.Unlock()

	metrics.WSConnections.Inc()
	go h.writePump(client)

	slog.Debug("ws client connected", "user_id", userID, "total", total)
	return client
}

// Unregister removes a connection. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	removed := false
	h.clientsMux.Lock()
	if set, ok := h.clients[client.UserID]; ok {
		if _, ok := set[client]; ok {
			delete(set, client)
			removed = true
		}
		if len(set) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	total := h.countLocked()
	h.clientsMux.Unlock()

	client.once.Do(func() { close(client.done) })
	if removed {
		metrics.WSConnections.Dec()
		slog.Debug("ws client disconnected", "user_id", client.UserID, "total", total)
	}
}

// Publish implements service.EventPublisher.
func (h *Hub) Publish(event service.GroupEvent) {
	data, err := Serialize(&MessageGroupEvent{
		Kind:    event.Kind,
		GroupID: event.GroupID,
		ActorID: event.ActorID,
		Data:    event.Data,
	})
	if err != nil {
		slog.Warn("failed to encode group event", "kind", event.Kind, "group_id", event.GroupID, "error", err)
		return
	}

	seen := make(map[uuid.UUID]struct{}, len(event.Recipients))
	var targets []*Client
	h.clientsMux.RLock()
	for _, userID := range event.Recipients {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}
		for c := range h.clients[userID] {
			targets = append(targets, c)
		}
	}
	h.clientsMux.RUnlock()

	for _, c := range targets {
		if !c.wants(event.GroupID) {
			continue
		}
		if !c.Send(data) {
			slog.Warn("dropping slow ws client", "user_id", c.UserID, "kind", event.Kind)
			h.Unregister(c)
		}
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// writePump owns all writes to the connection: queued frames and pings.
func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(h.pingInterval)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()

	for {
		select {
		case <-client.done:
			return
		case data := <-client.send:
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Debug("ws write failed", "user_id", client.UserID, "error", err)
				h.Unregister(client)
				return
			}
		case <-ticker.C:
			client.mu.Lock()
			stale := time.Since(client.lastPong) > h.pongTimeout
			client.mu.Unlock()
			if stale {
				slog.Debug("ws client missed pong", "user_id", client.UserID)
				h.Unregister(client)
				return
			}
			if err := client.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				h.Unregister(client)
				return
			}
		}
	}
}

// reply encodes msg and queues it for client.
func reply(client *Client, msg Message) error {
	data, err := Serialize(msg)
	if err != nil {
		return err
	}
	if !client.Send(data) {
		return errSendBufferFull
	}
	return nil
}
