// Package notify delivers queue and ledger events to connected displays
package notify

import (
	"log"
	"sync"
	"time"
)

// Event names pushed to clients
const (
	EventQueueUpdate       = "queue_update"
	EventStatusChanged     = "status_changed"
	EventSettlementCreated = "settlement_created"
	EventTransactionUpdate = "transaction_update"
	EventQueueSnapshot     = "queue_snapshot"
)

// Topics a client can subscribe to
const (
	TopicAll    = "all"
	TopicQueue  = "queue"
	TopicLedger = "ledger"
)

// Message is one event frame sent to clients
type Message struct {
	Event  string    `json:"event"`
	Data   any       `json:"data"`
	SentAt time.Time `json:"sent_at"`
}

// Topic reports which subscription a message belongs to
func (m Message) Topic() string {
	switch m.Event {
	case EventSettlementCreated, EventTransactionUpdate:
		return TopicLedger
	default:
		return TopicQueue
	}
}

// Client is one connected subscriber. The transport drains Send.
type Client struct {
	ID    string
	Topic string
	Send  chan Message
}

// ParseTopic normalizes a requested topic, defaulting to TopicAll
func ParseTopic(raw string) string {
	switch raw {
	case TopicQueue, TopicLedger:
		return raw
	default:
		return TopicAll
	}
}

// NewClient creates a client with a buffered outbound channel
func NewClient(id, topic string, buffer int) *Client {
	topic = ParseTopic(topic)
	return &Client{ID: id, Topic: topic, Send: make(chan Message, buffer)}
}

func (c *Client) wants(topic string) bool {
	return c.Topic == TopicAll || c.Topic == topic
}

// Hub fans messages out to registered clients
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("📡 WS client registered: %s (topic=%s) | total=%d", client.ID, client.Topic, len(h.clients))
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Send)
		delete(h.clients, clientID)
		log.Printf("📡 WS client unregistered: %s | total=%d", clientID, len(h.clients))
	}
}

// Broadcast sends msg to every client subscribed to its topic.
// Slow clients with a full buffer miss the message.
func (h *Hub) Broadcast(msg Message) int {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	topic := msg.Topic()

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if !client.wants(topic) {
			continue
		}
		select {
		case client.Send <- msg:
			sent++
		default:
			log.Printf("⚠️ WS channel full for client %s, skipping", client.ID)
		}
	}
	return sent
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
