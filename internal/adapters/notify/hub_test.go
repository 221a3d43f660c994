package notify

import (
	"context"
	"encoding/json"
	"testing"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastRespectsTopics(t *testing.T) {
	hub := NewHub()
	all := NewClient("all", "", 4)
	queue := NewClient("display", TopicQueue, 4)
	ledger := NewClient("cashier", TopicLedger, 4)
	hub.Register(all)
	hub.Register(queue)
	hub.Register(ledger)
	assert.Equal(t, 3, hub.ClientCount())

	sent := hub.Broadcast(Message{Event: EventQueueUpdate, Data: "x"})
	assert.Equal(t, 2, sent)
	assert.Len(t, all.Send, 1)
	assert.Len(t, queue.Send, 1)
	assert.Len(t, ledger.Send, 0)

	sent = hub.Broadcast(Message{Event: EventSettlementCreated})
	assert.Equal(t, 2, sent)
	assert.Len(t, ledger.Send, 1)

	msg := <-all.Send
	assert.False(t, msg.SentAt.IsZero())
}

func TestHub_FullClientIsSkipped(t *testing.T) {
	hub := NewHub()
	slow := NewClient("slow", TopicAll, 1)
	hub.Register(slow)

	assert.Equal(t, 1, hub.Broadcast(Message{Event: EventQueueUpdate}))
	assert.Equal(t, 0, hub.Broadcast(Message{Event: EventQueueUpdate}))
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	c := NewClient("c1", TopicAll, 1)
	hub.Register(c)
	hub.Unregister("c1")
	hub.Unregister("c1")

	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
}

func TestHubNotifier(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()
	c := NewClient("c1", TopicAll, 8)
	hub.Register(c)
	n := NewHubNotifier(hub)

	require.NoError(t, n.NotifyStatusChanged(ctx, 5, domain.StatusServing, map[string]any{"counter_id": uint(2)}))
	require.NoError(t, n.NotifyQueueUpdate(ctx, ports.QueueUpdate{Action: "called", EntryID: 5}))
	require.NoError(t, n.NotifyTransactionUpdate(ctx, ports.TransactionPayload{TransactionID: 1, PaymentStatus: domain.PaymentPaid}))
	require.NoError(t, n.NotifySettlementCreated(ctx, ports.SettlementPayload{SettlementID: 3}))

	msg := <-c.Send
	assert.Equal(t, EventStatusChanged, msg.Event)
	change, ok := msg.Data.(StatusChange)
	require.True(t, ok)
	assert.Equal(t, uint(5), change.EntryID)
	assert.Equal(t, domain.StatusServing, change.Status)

	assert.Equal(t, EventQueueUpdate, (<-c.Send).Event)
	assert.Equal(t, EventTransactionUpdate, (<-c.Send).Event)
	assert.Equal(t, EventSettlementCreated, (<-c.Send).Event)
}

func TestMessageWireFormat(t *testing.T) {
	b, err := encodeMessage(Message{Event: EventTransactionUpdate, Data: ports.TransactionPayload{TransactionID: 9, Amount: "10.00"}})
	require.NoError(t, err)

	msg, err := decodeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, EventTransactionUpdate, msg.Event)
	assert.Equal(t, TopicLedger, msg.Topic())

	raw, ok := msg.Data.(json.RawMessage)
	require.True(t, ok)
	var payload ports.TransactionPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, uint(9), payload.TransactionID)

	_, err = decodeMessage([]byte(`{"data":1}`))
	assert.Error(t, err)
	_, err = decodeMessage([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseTopic(t *testing.T) {
	assert.Equal(t, TopicQueue, ParseTopic("queue"))
	assert.Equal(t, TopicLedger, ParseTopic("ledger"))
	assert.Equal(t, TopicAll, ParseTopic(""))
	assert.Equal(t, TopicAll, ParseTopic("bogus"))
	assert.Equal(t, TopicQueue, Message{Event: EventQueueSnapshot}.Topic())
}
