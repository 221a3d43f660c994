package services

import (
	"context"
	"errors"
	"log"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

// ChangeStatus moves an entry along the transition table on behalf of actor.
// Terminal moves stamp ServedAt and free the bound counter; cancellations are
// also copied into the archive.
func (s *QueueService) ChangeStatus(ctx context.Context, entryID uint, target domain.QueueStatus, actor domain.Actor) (*domain.QueueEntry, error) {
	if !target.IsValid() {
		return nil, domain.NewValidationError("status", "unknown queue status "+string(target))
	}

	var ob outbox
	var updated domain.QueueEntry
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		entry, err := tx.LockEntry(entryID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := s.transition(tx, entry, target, actor, "", now, &ob); err != nil {
			return err
		}
		if target.IsTerminal() {
			if err := releaseCounter(tx, entry); err != nil {
				return err
			}
		}
		if target == domain.StatusCancelled {
			archiveEntry(tx, entry, actor.ID, "cancelled", now)
		}
		if err := tx.SaveEntry(entry); err != nil {
			return err
		}
		updated = *entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Queue entry %d → %s (by %d)", entryID, target, actor.ID)
	return &updated, nil
}

// transition validates and applies one status move to a locked entry and
// appends its QueueEvent. The caller persists the entry.
func (s *QueueService) transition(tx ports.Tx, entry *domain.QueueEntry, to domain.QueueStatus, actor domain.Actor, reason string, now time.Time, ob *outbox) error {
	from := entry.Status
	if err := domain.CheckTransition(actor, from, to); err != nil {
		return err
	}

	event := &domain.QueueEvent{
		QueueEntryID: entry.ID,
		FromStatus:   from,
		ToStatus:     to,
		ActorID:      actor.ID,
		CounterID:    entry.CounterID,
		Reason:       reason,
		CreatedAt:    now,
	}
	analytics := ports.QueueAnalyticsEvent{
		EntryID:    entry.ID,
		EventType:  analyticsEventType(to),
		CounterID:  entry.CounterID,
		IsPriority: entry.Priority.IsPriority(),
		Reason:     reason,
		OccurredAt: now,
	}

	switch to {
	case domain.StatusServing:
		entry.CalledAt = &now
		analytics.WaitTimeMinutes = minutesBetween(entry.CreatedAt, now)
	case domain.StatusProcessing:
		event.ProcessingStartAt = &now
	}
	if to.IsTerminal() {
		entry.ServedAt = &now
		if from == domain.StatusProcessing {
			event.ProcessingEndAt = &now
		}
		if to == domain.StatusCompleted && entry.CalledAt != nil {
			analytics.ServiceTimeMinutes = minutesBetween(*entry.CalledAt, now)
		}
	}
	entry.Status = to

	if err := tx.AppendQueueEvent(event); err != nil {
		return err
	}

	statusChangedHook(ob, s.notifier, *entry, from, actor.ID)
	analyticsHook(ob, s.analytics, analytics)
	return nil
}

// releaseCounter unbinds the counter that holds entry, if any
func releaseCounter(tx ports.Tx, entry *domain.QueueEntry) error {
	if entry.CounterID == nil {
		return nil
	}
	counter, err := tx.LockCounter(*entry.CounterID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if counter.CurrentCustomerID == nil || *counter.CurrentCustomerID != entry.ID {
		return nil
	}
	counter.CurrentCustomerID = nil
	return tx.SaveCounter(counter)
}

// archiveEntry upserts the history copy of entry for today. A failure is
// logged and skipped; the caller's transaction stays usable.
func archiveEntry(tx ports.Tx, entry *domain.QueueEntry, actorID uint, reason string, now time.Time) bool {
	archived := &domain.ArchivedEntry{
		OriginalID:  entry.ID,
		ArchiveDate: domain.StartOfDay(now),
		Entry:       *entry,
		ArchivedBy:  actorID,
		Reason:      reason,
		ArchivedAt:  now,
	}
	archived.Entry.ArchivedAt = &now
	if err := tx.UpsertArchivedEntry(archived); err != nil {
		log.Printf("⚠️ Archive of queue entry %d skipped: %v", entry.ID, err)
		return false
	}
	entry.ArchivedAt = &now
	return true
}

func appendRemark(remarks, note string) string {
	if remarks == "" {
		return note
	}
	return remarks + "; " + note
}
