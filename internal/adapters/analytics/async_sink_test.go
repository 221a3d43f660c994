package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopserve/internal/core/ports"
	"shopserve/internal/core/ports/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// slowSink records events with a delay and remembers how many were stored
// when each recompute ran
type slowSink struct {
	delay time.Duration

	mu        sync.Mutex
	recorded  int
	recompute []int
}

func (s *slowSink) RecordQueueEvent(_ context.Context, _ ports.QueueAnalyticsEvent) error {
	time.Sleep(s.delay)
	s.mu.Lock()
	s.recorded++
	s.mu.Unlock()
	return nil
}

func (s *slowSink) RecomputeDailyAggregates(_ context.Context, _ time.Time) error {
	s.mu.Lock()
	s.recompute = append(s.recompute, s.recorded)
	s.mu.Unlock()
	return nil
}

func resetEvent(id uint) ports.QueueAnalyticsEvent {
	return ports.QueueAnalyticsEvent{EntryID: id, EventType: "cancelled", Reason: "end of day reset"}
}

func TestAsyncSink_DeliversInBackground(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAnalyticsSink(ctrl)

	delivered := make(chan uint, 2)
	next.EXPECT().RecordQueueEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e ports.QueueAnalyticsEvent) error {
			delivered <- e.EntryID
			if e.EntryID == 1 {
				return errors.New("db down")
			}
			return nil
		}).Times(2)

	sink := NewAsyncSink(next, 4)
	sink.Start()
	assert.NoError(t, sink.RecordQueueEvent(context.Background(), ports.QueueAnalyticsEvent{EntryID: 1}))
	assert.NoError(t, sink.RecordQueueEvent(context.Background(), ports.QueueAnalyticsEvent{EntryID: 2}))
	sink.Stop()

	close(delivered)
	var got []uint
	for id := range delivered {
		got = append(got, id)
	}
	assert.Equal(t, []uint{1, 2}, got)

	// after Stop events are dropped, never panicking on the closed buffer
	assert.NoError(t, sink.RecordQueueEvent(context.Background(), ports.QueueAnalyticsEvent{EntryID: 3}))
}

func TestAsyncSink_DropsPlainEventsWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAnalyticsSink(ctrl)
	next.EXPECT().RecordQueueEvent(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	sink := NewAsyncSink(next, 1)
	// worker not started: the first event fills the buffer, the second is dropped
	assert.NoError(t, sink.RecordQueueEvent(context.Background(), ports.QueueAnalyticsEvent{EntryID: 1}))
	assert.NoError(t, sink.RecordQueueEvent(context.Background(), ports.QueueAnalyticsEvent{EntryID: 2}))

	sink.Start()
	sink.Stop()
}

func TestAsyncSink_ResetEventsWaitForRoom(t *testing.T) {
	next := &slowSink{delay: time.Millisecond}
	sink := NewAsyncSink(next, 4)
	sink.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := uint(1); i <= 50; i++ {
		require.NoError(t, sink.RecordQueueEvent(ctx, resetEvent(i)))
	}
	sink.Stop()

	assert.Equal(t, 50, next.recorded)
}

func TestAsyncSink_ResetEventGivesUpWhenContextEnds(t *testing.T) {
	sink := NewAsyncSink(&slowSink{}, 1)
	require.NoError(t, sink.RecordQueueEvent(context.Background(), resetEvent(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	// worker not started, buffer full
	assert.ErrorIs(t, sink.RecordQueueEvent(ctx, resetEvent(2)), context.DeadlineExceeded)
}

func TestAsyncSink_RecomputeSeesEveryEarlierEvent(t *testing.T) {
	next := &slowSink{delay: 5 * time.Millisecond}
	sink := NewAsyncSink(next, 16)
	sink.Start()
	defer sink.Stop()

	ctx := context.Background()
	for i := uint(1); i <= 10; i++ {
		require.NoError(t, sink.RecordQueueEvent(ctx, resetEvent(i)))
	}
	require.NoError(t, sink.RecomputeDailyAggregates(ctx, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))

	next.mu.Lock()
	defer next.mu.Unlock()
	assert.Equal(t, []int{10}, next.recompute)
}

func TestAsyncSink_RecomputeReturnsWrappedError(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAnalyticsSink(ctrl)
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	next.EXPECT().RecomputeDailyAggregates(gomock.Any(), day).Return(errors.New("slow query")).Times(2)

	sink := NewAsyncSink(next, 1)
	sink.Start()
	assert.EqualError(t, sink.RecomputeDailyAggregates(context.Background(), day), "slow query")

	// once stopped the recompute runs directly
	sink.Stop()
	assert.EqualError(t, sink.RecomputeDailyAggregates(context.Background(), day), "slow query")
}
