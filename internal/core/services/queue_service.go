package services

import (
	"context"
	"log"
	"strings"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

// QueueService handles queue business logic: registration, dispatch,
// status changes and the end-of-day reset
type QueueService struct {
	store     ports.Store
	notifier  ports.Notifier
	analytics ports.AnalyticsSink
	ranker    *PriorityRanker
	now       func() time.Time
}

// NewQueueService creates a new queue service. notifier and analytics may be nil.
func NewQueueService(store ports.Store, notifier ports.Notifier, analytics ports.AnalyticsSink, ranker *PriorityRanker) *QueueService {
	if ranker == nil {
		ranker = NewPriorityRanker(0)
	}
	return &QueueService{
		store:     store,
		notifier:  notifier,
		analytics: analytics,
		ranker:    ranker,
		now:       time.Now,
	}
}

// SetClock overrides the time source
func (s *QueueService) SetClock(now func() time.Time) {
	s.now = now
}

// ============================================================
// Registration
// ============================================================

// RegisterEntryInput represents a walk-in registration
type RegisterEntryInput struct {
	CustomerName  string `json:"customer_name" validate:"required,max=150"`
	SeniorCitizen bool   `json:"senior_citizen"`
	PWD           bool   `json:"pwd"`
	Pregnant      bool   `json:"pregnant"`
	Remarks       string `json:"remarks" validate:"max=500"`
}

// RegisterEntry adds a customer to the waiting queue
func (s *QueueService) RegisterEntry(ctx context.Context, input RegisterEntryInput) (*domain.QueueEntry, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	entry := &domain.QueueEntry{
		CustomerName: input.CustomerName,
		Priority: domain.PriorityFlags{
			SeniorCitizen: input.SeniorCitizen,
			PWD:           input.PWD,
			Pregnant:      input.Pregnant,
		},
		Status:    domain.StatusWaiting,
		Remarks:   input.Remarks,
		CreatedAt: s.now(),
	}

	var ob outbox
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		if err := tx.CreateEntry(entry); err != nil {
			return err
		}
		queueUpdateHook(&ob, s.notifier, ports.QueueUpdate{
			Action:  "registered",
			EntryID: entry.ID,
			Status:  entry.Status,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Queue entry %d registered: %s (tier=%d)", entry.ID, entry.CustomerName, entry.Priority.Tier())
	return entry, nil
}

// ============================================================
// Admin: ordering & counters
// ============================================================

// SetManualPosition pins a waiting entry ahead of priority ordering. nil clears it.
func (s *QueueService) SetManualPosition(ctx context.Context, entryID uint, position *int, actor domain.Actor) (*domain.QueueEntry, error) {
	if !actor.CanAdminister() {
		return nil, actor.ForbiddenAction("set manual position")
	}
	if position != nil && *position < 1 {
		return nil, domain.NewValidationError("manual_position", "must be at least 1")
	}

	var ob outbox
	var updated domain.QueueEntry
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		entry, err := tx.LockEntry(entryID)
		if err != nil {
			return err
		}
		if entry.Status != domain.StatusWaiting {
			return domain.NewValidationError("status", "manual position applies to waiting entries only")
		}
		entry.ManualPosition = position
		if err := tx.SaveEntry(entry); err != nil {
			return err
		}
		updated = *entry
		queueUpdateHook(&ob, s.notifier, ports.QueueUpdate{
			Action:  "reordered",
			EntryID: entry.ID,
			Status:  entry.Status,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Queue entry %d manual position set by %d", entryID, actor.ID)
	return &updated, nil
}

// SetCounterActive opens or closes a counter. A busy counter cannot be closed.
func (s *QueueService) SetCounterActive(ctx context.Context, counterID uint, active bool, actor domain.Actor) (*domain.Counter, error) {
	if !actor.CanAdminister() {
		return nil, actor.ForbiddenAction("change counter state")
	}

	var ob outbox
	var updated domain.Counter
	err := s.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		counter, err := tx.LockCounter(counterID)
		if err != nil {
			return err
		}
		if !active && counter.IsBusy() {
			return domain.NewConflictError("counter is serving a customer", nil)
		}
		counter.IsActive = active
		if err := tx.SaveCounter(counter); err != nil {
			return err
		}
		updated = *counter
		queueUpdateHook(&ob, s.notifier, ports.QueueUpdate{
			Action:    "counter_updated",
			CounterID: &updated.ID,
			Meta:      map[string]any{"is_active": active},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Counter %d active=%v (by %d)", counterID, active, actor.ID)
	return &updated, nil
}

// ============================================================
// Read side
// ============================================================

// QueueSnapshot is the current ranked queue and counter board
type QueueSnapshot struct {
	Waiting   []RankedEntry       `json:"waiting"`
	InService []domain.QueueEntry `json:"in_service"`
	Counters  []domain.Counter    `json:"counters"`
}

// Snapshot ranks waiting entries and lists in-service entries and counters
func (s *QueueService) Snapshot(ctx context.Context) (*QueueSnapshot, error) {
	active, err := s.store.ListActiveEntries(ctx)
	if err != nil {
		return nil, err
	}
	counters, err := s.store.ListCounters(ctx)
	if err != nil {
		return nil, err
	}

	waiting, inService := splitWaiting(active)
	return &QueueSnapshot{
		Waiting:   s.ranker.Rank(waiting),
		InService: inService,
		Counters:  counters,
	}, nil
}

// EntryPosition reports where a waiting entry currently stands
func (s *QueueService) EntryPosition(ctx context.Context, entryID uint) (*RankedEntry, error) {
	entry, err := s.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.StatusWaiting {
		return &RankedEntry{Entry: *entry}, nil
	}

	active, err := s.store.ListActiveEntries(ctx)
	if err != nil {
		return nil, err
	}
	waiting, _ := splitWaiting(active)
	ranked, ok := s.ranker.PositionOf(waiting, entryID)
	if !ok {
		return &RankedEntry{Entry: *entry}, nil
	}
	return &ranked, nil
}

// History returns the transition log of an entry
func (s *QueueService) History(ctx context.Context, entryID uint) ([]domain.QueueEvent, error) {
	if _, err := s.store.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}
	return s.store.ListQueueEvents(ctx, entryID)
}

func splitWaiting(entries []domain.QueueEntry) (waiting, others []domain.QueueEntry) {
	waiting = []domain.QueueEntry{}
	others = []domain.QueueEntry{}
	for _, e := range entries {
		if e.Status == domain.StatusWaiting {
			waiting = append(waiting, e)
		} else {
			others = append(others, e)
		}
	}
	return waiting, others
}
