package realtime

import (
	"context"
	"sync"
	"time"

	"compsite/metrics"
	"compsite/models"

	"go.uber.org/zap"
)

// EventCompetitionCreated is sent when a published competition is created
const EventCompetitionCreated = "competition.created"

// broadcastBuffer is how many events may wait for the hub before new ones are dropped
const broadcastBuffer = 64

// writeWait bounds a single write to a live feed client
const writeWait = 10 * time.Second

// Client is a connected live feed subscriber; *websocket.Conn satisfies it
type Client interface {
	WriteJSON(v interface{}) error
	Close() error
}

// deadliner is implemented by clients whose writes can time out, like *websocket.Conn
type deadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Event is a message pushed to every live feed client
type Event struct {
	Type        string                   `json:"type"`
	Competition models.PublicCompetition `json:"competition"`
}

// Hub fans events out to the connected live feed clients
type Hub struct {
	clients   map[Client]bool
	broadcast chan Event
	mutex     sync.Mutex
	logger    *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:   make(map[Client]bool),
		broadcast: make(chan Event, broadcastBuffer),
		logger:    logger,
	}
}

// Register adds a client to the feed
func (h *Hub) Register(client Client) {
	h.mutex.Lock()
	h.clients[client] = true
	metrics.LiveClients.Set(float64(len(h.clients)))
	h.mutex.Unlock()
}

// Unregister removes a client from the feed
func (h *Hub) Unregister(client Client) {
	h.mutex.Lock()
	delete(h.clients, client)
	metrics.LiveClients.Set(float64(len(h.clients)))
	h.mutex.Unlock()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// PublishCompetition queues a creation event. It never blocks: when the hub
// is saturated the event is dropped.
func (h *Hub) PublishCompetition(competition models.PublicCompetition) {
	select {
	case h.broadcast <- Event{Type: EventCompetitionCreated, Competition: competition}:
	default:
		h.logger.Warn("live feed saturated, dropping event", zap.String("slug", competition.Slug))
	}
}

// Run delivers queued events until the context is cancelled, then closes every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// deliver writes outside the lock so a slow client never blocks Register or Unregister
func (h *Hub) deliver(event Event) {
	h.mutex.Lock()
	clients := make([]Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		if d, ok := client.(deadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(writeWait))
		}
		if err := client.WriteJSON(event); err != nil {
			h.logger.Debug("live feed write failed, dropping client", zap.Error(err))
			_ = client.Close()
			h.Unregister(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		_ = client.Close()
		delete(h.clients, client)
	}
	metrics.LiveClients.Set(0)
}
