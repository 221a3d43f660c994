package notify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayFrames_ForwardDataUntouched(t *testing.T) {
	sent := Message{
		Event:  EventSettlementCreated,
		Data:   map[string]any{"transaction_id": 7, "amount": "250.00"},
		SentAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	b, err := encodeMessage(sent)
	require.NoError(t, err)

	got, err := decodeMessage(b)
	require.NoError(t, err)
	assert.Equal(t, EventSettlementCreated, got.Event)
	assert.Equal(t, TopicLedger, got.Topic())
	assert.True(t, sent.SentAt.Equal(got.SentAt))

	raw, ok := got.Data.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"transaction_id":7,"amount":"250.00"}`, string(raw))
}

func TestDecodeMessage_Rejects(t *testing.T) {
	_, err := decodeMessage([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeMessage([]byte(`{"data":{}}`))
	assert.Error(t, err)
}
