package models

import (
	"testing"
	"time"

	"shopserve/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueEntry_PriorityFlagsShareOneJSONColumn(t *testing.T) {
	entry := &domain.QueueEntry{
		ID:           4,
		CustomerName: "Ana",
		Priority:     domain.PriorityFlags{PWD: true, Pregnant: true},
		Status:       domain.StatusWaiting,
		CreatedAt:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}

	row := NewQueueEntry(entry)
	value, err := row.Priority.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"senior_citizen":false,"pwd":true,"pregnant":true}`, string(value.([]byte)))

	var loaded QueueEntry
	require.NoError(t, loaded.Priority.Scan(value))
	assert.Equal(t, domain.TierPWD, loaded.Priority.Data().Tier())
	assert.Equal(t, entry.Priority, row.ToDomain().Priority)
}
