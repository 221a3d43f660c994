package services

import (
	"testing"

	"shopserve/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func ids(entries []domain.QueueEntry) []uint {
	out := make([]uint, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestPriorityRanker_Order(t *testing.T) {
	r := NewPriorityRanker(10)
	entries := []domain.QueueEntry{
		{ID: 1, CreatedAt: minutesAgo(50)},
		{ID: 2, CreatedAt: minutesAgo(10), Priority: domain.PriorityFlags{Pregnant: true}},
		{ID: 3, CreatedAt: minutesAgo(5), Priority: domain.PriorityFlags{SeniorCitizen: true}},
		{ID: 4, CreatedAt: minutesAgo(20), Priority: domain.PriorityFlags{PWD: true}},
		{ID: 5, CreatedAt: minutesAgo(1), ManualPosition: ptr(2)},
		{ID: 6, CreatedAt: minutesAgo(2), ManualPosition: ptr(1)},
		{ID: 7, CreatedAt: minutesAgo(50)},
	}

	sorted := r.Sort(entries)
	assert.Equal(t, []uint{6, 5, 3, 4, 2, 1, 7}, ids(sorted))

	next, ok := r.Next(entries)
	assert.True(t, ok)
	assert.Equal(t, uint(6), next.ID)
}

func TestPriorityRanker_TierUsesHighestFlag(t *testing.T) {
	a := domain.QueueEntry{ID: 1, CreatedAt: minutesAgo(1), Priority: domain.PriorityFlags{Pregnant: true, SeniorCitizen: true}}
	b := domain.QueueEntry{ID: 2, CreatedAt: minutesAgo(30), Priority: domain.PriorityFlags{PWD: true}}
	assert.True(t, Less(a, b))
}

func TestPriorityRanker_RankPositionsAndWait(t *testing.T) {
	r := NewPriorityRanker(10)
	ranked := r.Rank([]domain.QueueEntry{
		{ID: 1, CreatedAt: minutesAgo(3)},
		{ID: 2, CreatedAt: minutesAgo(2)},
		{ID: 3, CreatedAt: minutesAgo(1)},
	})

	assert.Len(t, ranked, 3)
	for i, re := range ranked {
		assert.Equal(t, i+1, re.Position)
		assert.Equal(t, i*10, re.EstimatedWaitMinutes)
	}

	pos, ok := r.PositionOf([]domain.QueueEntry{{ID: 9, CreatedAt: minutesAgo(1)}}, 9)
	assert.True(t, ok)
	assert.Equal(t, 1, pos.Position)

	_, ok = r.PositionOf(nil, 9)
	assert.False(t, ok)
}

func TestPriorityRanker_EmptyQueue(t *testing.T) {
	_, ok := NewPriorityRanker(10).Next(nil)
	assert.False(t, ok)
}
