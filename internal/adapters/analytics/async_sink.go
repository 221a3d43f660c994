package analytics

import (
	"context"
	"log"
	"sync"
	"time"

	"shopserve/internal/core/ports"
)

const recordTimeout = 5 * time.Second

// job is either one event to record or, when done is set, a recompute that
// runs after every job queued before it
type job struct {
	event ports.QueueAnalyticsEvent
	ctx   context.Context
	day   time.Time
	done  chan error
}

// AsyncSink hands analytics events to a background worker so callers never
// wait on the analytics store. Plain events are dropped when the buffer is
// full; events carrying a reason (bulk resets) wait for room until ctx ends.
type AsyncSink struct {
	next ports.AnalyticsSink
	jobs chan job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewAsyncSink wraps next with a buffer of the given size
func NewAsyncSink(next ports.AnalyticsSink, buffer int) *AsyncSink {
	if buffer <= 0 {
		buffer = 256
	}
	return &AsyncSink{
		next: next,
		jobs: make(chan job, buffer),
	}
}

var _ ports.AnalyticsSink = (*AsyncSink)(nil)

// Start launches the worker
func (s *AsyncSink) Start() {
	s.wg.Add(1)
	go s.run()
	log.Println("🚀 Analytics worker started")
}

// Stop drains pending jobs and waits for the worker to exit
func (s *AsyncSink) Stop() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.jobs)
	}
	s.mu.Unlock()
	s.wg.Wait()
	log.Println("🛑 Analytics worker stopped")
}

func (s *AsyncSink) run() {
	defer s.wg.Done()
	for j := range s.jobs {
		if j.done != nil {
			j.done <- s.next.RecomputeDailyAggregates(j.ctx, j.day)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := s.next.RecordQueueEvent(ctx, j.event); err != nil {
			log.Printf("⚠️ Analytics record for entry %d failed: %v", j.event.EntryID, err)
		}
		cancel()
	}
}

// RecordQueueEvent enqueues the event. Only plain events may be dropped.
func (s *AsyncSink) RecordQueueEvent(ctx context.Context, event ports.QueueAnalyticsEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil
	}

	select {
	case s.jobs <- job{event: event}:
		return nil
	default:
	}
	if event.Reason == "" {
		log.Printf("⚠️ Analytics buffer full, dropping %s for entry %d", event.EventType, event.EntryID)
		return nil
	}

	select {
	case s.jobs <- job{event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecomputeDailyAggregates queues the recompute behind every pending event
// and waits for its result
func (s *AsyncSink) RecomputeDailyAggregates(ctx context.Context, day time.Time) error {
	done := make(chan error, 1)

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		// worker already drained everything
		return s.next.RecomputeDailyAggregates(ctx, day)
	}
	select {
	case s.jobs <- job{ctx: ctx, day: day, done: done}:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
