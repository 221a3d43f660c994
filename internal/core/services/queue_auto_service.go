package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"shopserve/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// ============================================================
// End-of-day reset cron
// ============================================================

// DefaultResetSchedule fires at 22:00 every day (seconds field first)
const DefaultResetSchedule = "0 0 22 * * *"

const resetJobTimeout = 2 * time.Minute

// QueueAutoService runs scheduled queue maintenance
type QueueAutoService struct {
	queue  *QueueService
	cron   *cron.Cron
	reason string
}

// NewQueueAutoService registers the reset job on schedule
func NewQueueAutoService(queue *QueueService, schedule, reason string) (*QueueAutoService, error) {
	if schedule == "" {
		schedule = DefaultResetSchedule
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)
	s := &QueueAutoService{queue: queue, cron: c, reason: reason}
	if _, err := c.AddFunc(schedule, s.runReset); err != nil {
		return nil, fmt.Errorf("invalid reset schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start launches the scheduler goroutine
func (s *QueueAutoService) Start() {
	s.cron.Start()
	log.Println("🚀 QueueAutoService started")
}

// Stop halts the scheduler and waits for a running job to finish
func (s *QueueAutoService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 QueueAutoService stopped")
}

// NextRun reports when the reset fires next
func (s *QueueAutoService) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now())
}

func (s *QueueAutoService) runReset() {
	ctx, cancel := context.WithTimeout(context.Background(), resetJobTimeout)
	defer cancel()

	if _, err := s.queue.ResetQueue(ctx, domain.TrustedInternal(0), s.reason); err != nil {
		log.Printf("❌ Scheduled queue reset error: %v", err)
	}
}
