package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

// ============================================================
// STAFF: Counter dispatch
// ============================================================

// CallNext binds the highest-ranked waiting entry to counterID.
// It returns nil, nil when nobody is waiting.
func (s *QueueService) CallNext(ctx context.Context, counterID uint, actor domain.Actor) (*domain.QueueEntry, error) {
	if err := domain.CheckTransition(actor, domain.StatusWaiting, domain.StatusServing); err != nil {
		return nil, err
	}
	if _, err := s.store.GetCounter(ctx, counterID); err != nil {
		return nil, err
	}

	var ob outbox
	var called *domain.QueueEntry
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		called = nil

		// every waiting row stays locked until commit, so concurrent callers
		// queue up behind us and re-rank what is left
		locked, err := tx.LockWaitingEntries()
		if err != nil {
			return err
		}
		// a row may have left Waiting while we blocked on its lock
		waiting, _ := splitWaiting(locked)
		next, ok := s.ranker.Next(waiting)
		if !ok {
			return nil
		}
		if err := s.assign(tx, &next, counterID, actor, &ob); err != nil {
			return err
		}
		called = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if called == nil {
		log.Printf("ℹ️ Counter %d: no waiting customers", counterID)
		return nil, nil
	}
	ob.flush(ctx)

	log.Printf("✅ Queue entry %d called to counter %d by %d", called.ID, counterID, actor.ID)
	return called, nil
}

// CallSpecificCustomer binds a chosen entry to counterID. It returns nil, nil
// when the entry does not exist or is no longer waiting.
func (s *QueueService) CallSpecificCustomer(ctx context.Context, entryID, counterID uint, actor domain.Actor) (*domain.QueueEntry, error) {
	if err := domain.CheckTransition(actor, domain.StatusWaiting, domain.StatusServing); err != nil {
		return nil, err
	}
	if _, err := s.store.GetCounter(ctx, counterID); err != nil {
		return nil, err
	}

	var ob outbox
	var called *domain.QueueEntry
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		called = nil

		entry, err := tx.LockEntry(entryID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if entry.Status != domain.StatusWaiting {
			return nil
		}
		if err := s.assign(tx, entry, counterID, actor, &ob); err != nil {
			return err
		}
		called = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	if called == nil {
		log.Printf("ℹ️ Queue entry %d is not waiting, nothing called", entryID)
		return nil, nil
	}
	ob.flush(ctx)

	log.Printf("✅ Queue entry %d called (specific) to counter %d", entryID, counterID)
	return called, nil
}

// CompleteService finishes the entry currently held by counterID
func (s *QueueService) CompleteService(ctx context.Context, entryID, counterID uint, actor domain.Actor) (*domain.QueueEntry, error) {
	var ob outbox
	var updated domain.QueueEntry
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		entry, err := tx.LockEntry(entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.StatusServing && entry.Status != domain.StatusProcessing {
			return domain.NewNotFoundError("in-service queue entry", entryID)
		}
		if entry.CounterID == nil || *entry.CounterID != counterID {
			return domain.NewNotFoundError(fmt.Sprintf("queue entry at counter %d", counterID), entryID)
		}

		if err := s.transition(tx, entry, domain.StatusCompleted, actor, "", s.now(), &ob); err != nil {
			return err
		}
		if err := releaseCounter(tx, entry); err != nil {
			return err
		}
		if err := tx.SaveEntry(entry); err != nil {
			return err
		}
		updated = *entry
		queueUpdateHook(&ob, s.notifier, ports.QueueUpdate{
			Action:    "completed",
			EntryID:   entry.ID,
			CounterID: &counterID,
			Status:    entry.Status,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Queue entry %d completed at counter %d", entryID, counterID)
	return &updated, nil
}

// assign binds a locked waiting entry to the counter. Entry locks are always
// taken before the counter lock.
func (s *QueueService) assign(tx ports.Tx, entry *domain.QueueEntry, counterID uint, actor domain.Actor, ob *outbox) error {
	counter, err := tx.LockCounter(counterID)
	if err != nil {
		return err
	}
	if !counter.IsActive {
		return domain.NewValidationError("counter_id", "counter is not active")
	}
	if counter.IsBusy() {
		return domain.NewConflictError(fmt.Sprintf("counter %d is already serving entry %d", counterID, *counter.CurrentCustomerID), nil)
	}

	entry.CounterID = &counterID
	if err := s.transition(tx, entry, domain.StatusServing, actor, "", s.now(), ob); err != nil {
		return err
	}
	if err := tx.SaveEntry(entry); err != nil {
		return err
	}

	counter.CurrentCustomerID = &entry.ID
	if err := tx.SaveCounter(counter); err != nil {
		return err
	}

	queueUpdateHook(ob, s.notifier, ports.QueueUpdate{
		Action:    "called",
		EntryID:   entry.ID,
		CounterID: &counterID,
		Status:    entry.Status,
		Meta:      map[string]any{"customer_name": entry.CustomerName},
	})
	return nil
}
