package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel shared by every instance
const DefaultChannel = "shopserve:events"

// RedisNotifier publishes events so every instance's hub can relay them
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

// NewRedisNotifier creates a notifier publishing on channel
func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

var _ ports.Notifier = (*RedisNotifier)(nil)

func (n *RedisNotifier) publish(ctx context.Context, event string, data any) error {
	payload, err := encodeMessage(Message{Event: event, Data: data, SentAt: time.Now()})
	if err != nil {
		return err
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

func (n *RedisNotifier) NotifyQueueUpdate(ctx context.Context, update ports.QueueUpdate) error {
	return n.publish(ctx, EventQueueUpdate, update)
}

func (n *RedisNotifier) NotifyStatusChanged(ctx context.Context, entryID uint, status domain.QueueStatus, meta map[string]any) error {
	return n.publish(ctx, EventStatusChanged, StatusChange{EntryID: entryID, Status: status, Meta: meta})
}

func (n *RedisNotifier) NotifySettlementCreated(ctx context.Context, payload ports.SettlementPayload) error {
	return n.publish(ctx, EventSettlementCreated, payload)
}

func (n *RedisNotifier) NotifyTransactionUpdate(ctx context.Context, payload ports.TransactionPayload) error {
	return n.publish(ctx, EventTransactionUpdate, payload)
}

// ============================================================
// Relay: Redis → local hub
// ============================================================

// Relay subscribes to the shared channel and rebroadcasts into a hub
type Relay struct {
	rdb     *redis.Client
	channel string
	hub     *Hub
}

// NewRelay creates a relay for hub
func NewRelay(rdb *redis.Client, channel string, hub *Hub) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{rdb: rdb, channel: channel, hub: hub}
}

// Run blocks until ctx is cancelled
func (r *Relay) Run(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	log.Printf("📡 Redis relay subscribed to %s", r.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			msg, err := decodeMessage([]byte(m.Payload))
			if err != nil {
				log.Printf("⚠️ Redis relay dropped malformed message: %v", err)
				continue
			}
			r.hub.Broadcast(msg)
		}
	}
}

// ============================================================
// Wire format
// ============================================================

func encodeMessage(msg Message) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Event, err)
	}
	return b, nil
}

// decodeMessage keeps Data as raw JSON so it is forwarded byte-for-byte
func decodeMessage(b []byte) (Message, error) {
	var wire struct {
		Event  string          `json:"event"`
		Data   json.RawMessage `json:"data"`
		SentAt time.Time       `json:"sent_at"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return Message{}, err
	}
	if wire.Event == "" {
		return Message{}, fmt.Errorf("missing event name")
	}
	return Message{Event: wire.Event, Data: wire.Data, SentAt: wire.SentAt}, nil
}
