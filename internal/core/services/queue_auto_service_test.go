package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueAutoService_Schedule(t *testing.T) {
	svc, _ := newTestQueue(t)

	auto, err := NewQueueAutoService(svc, "", "end of day")
	require.NoError(t, err)
	next := auto.NextRun()
	assert.Equal(t, 22, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))

	_, err = NewQueueAutoService(svc, "every day at ten", "")
	assert.Error(t, err)
}

func TestQueueAutoService_StartStop(t *testing.T) {
	svc, store := newTestQueue(t)
	store.AddCounter("Counter 1", true)

	auto, err := NewQueueAutoService(svc, "0 30 21 * * *", "")
	require.NoError(t, err)
	auto.Start()
	auto.Stop()

	auto.runReset()
	active, err := store.ListActiveEntries(t.Context())
	require.NoError(t, err)
	assert.Empty(t, active)
}
