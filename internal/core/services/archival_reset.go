package services

import (
	"context"
	"log"
	"strings"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

const defaultResetReason = "end of day reset"

// ResetSummary reports what one queue reset did
type ResetSummary struct {
	Cancelled        int       `json:"cancelled"`
	Completed        int       `json:"completed"`
	Archived         int       `json:"archived"`
	ArchiveFailures  int       `json:"archive_failures"`
	CountersReleased int64     `json:"counters_released"`
	ResetAt          time.Time `json:"reset_at"`
}

// ResetQueue closes the day: Waiting entries are cancelled, in-service entries
// completed, and every affected entry (plus today's unarchived terminal ones)
// is copied into the archive. Re-running on the same day is safe.
func (s *QueueService) ResetQueue(ctx context.Context, actor domain.Actor, reason string) (*ResetSummary, error) {
	if !actor.CanAdminister() {
		return nil, actor.ForbiddenAction("reset the queue")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultResetReason
	}

	now := s.now()
	dayStart := domain.StartOfDay(now)
	summary := &ResetSummary{ResetAt: now}

	var ob outbox
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		*summary = ResetSummary{ResetAt: now}

		entries, err := tx.LockEntriesForReset(dayStart)
		if err != nil {
			return err
		}

		for i := range entries {
			entry := &entries[i]
			switch entry.Status {
			case domain.StatusWaiting:
				entry.Remarks = appendRemark(entry.Remarks, "Cancelled by reset: "+reason)
				if err := s.transition(tx, entry, domain.StatusCancelled, actor, reason, now, &ob); err != nil {
					return err
				}
				summary.Cancelled++
			case domain.StatusServing, domain.StatusProcessing:
				if err := s.transition(tx, entry, domain.StatusCompleted, actor, reason, now, &ob); err != nil {
					return err
				}
				summary.Completed++
			}

			if archiveEntry(tx, entry, actor.ID, reason, now) {
				summary.Archived++
			} else {
				summary.ArchiveFailures++
			}
			if err := tx.SaveEntry(entry); err != nil {
				return err
			}
		}

		released, err := tx.ClearCounterBindings()
		if err != nil {
			return err
		}
		summary.CountersReleased = released

		queueUpdateHook(&ob, s.notifier, ports.QueueUpdate{
			Action: "queue_reset",
			Meta: map[string]any{
				"cancelled": summary.Cancelled,
				"completed": summary.Completed,
				"archived":  summary.Archived,
				"reason":    reason,
			},
		})
		if s.analytics != nil {
			ob.add("recompute daily aggregates", func(ctx context.Context) error {
				return s.analytics.RecomputeDailyAggregates(ctx, dayStart)
			})
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Queue reset failed: %v", err)
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("🔄 Queue reset (%s): cancelled=%d completed=%d archived=%d failures=%d counters=%d",
		reason, summary.Cancelled, summary.Completed, summary.Archived, summary.ArchiveFailures, summary.CountersReleased)
	return summary, nil
}
