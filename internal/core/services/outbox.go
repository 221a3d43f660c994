package services

import (
	"context"
	"log"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

// outbox collects side effects produced inside a transaction and runs them
// only after the transaction committed. Hook failures are logged and dropped.
type outbox struct {
	hooks []postCommitHook
}

type postCommitHook struct {
	name string
	fn   func(ctx context.Context) error
}

func (o *outbox) add(name string, fn func(ctx context.Context) error) {
	o.hooks = append(o.hooks, postCommitHook{name: name, fn: fn})
}

func (o *outbox) reset() {
	o.hooks = nil
}

func (o *outbox) flush(ctx context.Context) {
	for _, h := range o.hooks {
		if err := h.fn(ctx); err != nil {
			log.Printf("⚠️ post-commit %s failed: %v", h.name, err)
		}
	}
	o.hooks = nil
}

// ============================================================
// Collaborator helpers (nil collaborators are no-ops)
// ============================================================

func queueUpdateHook(ob *outbox, n ports.Notifier, update ports.QueueUpdate) {
	if n == nil {
		return
	}
	ob.add("notify queue update "+update.Action, func(ctx context.Context) error {
		return n.NotifyQueueUpdate(ctx, update)
	})
}

func statusChangedHook(ob *outbox, n ports.Notifier, entry domain.QueueEntry, from domain.QueueStatus, actorID uint) {
	if n == nil {
		return
	}
	meta := map[string]any{
		"from":     from,
		"actor_id": actorID,
	}
	if entry.CounterID != nil {
		meta["counter_id"] = *entry.CounterID
	}
	ob.add("notify status changed", func(ctx context.Context) error {
		return n.NotifyStatusChanged(ctx, entry.ID, entry.Status, meta)
	})
}

func analyticsHook(ob *outbox, a ports.AnalyticsSink, event ports.QueueAnalyticsEvent) {
	if a == nil {
		return
	}
	ob.add("record analytics "+event.EventType, func(ctx context.Context) error {
		return a.RecordQueueEvent(ctx, event)
	})
}

func minutesBetween(from, to time.Time) *float64 {
	m := to.Sub(from).Minutes()
	if m < 0 {
		m = 0
	}
	return &m
}

func analyticsEventType(to domain.QueueStatus) string {
	switch to {
	case domain.StatusServing:
		return "called"
	case domain.StatusProcessing:
		return "processing"
	case domain.StatusCompleted:
		return "completed"
	case domain.StatusCancelled:
		return "cancelled"
	}
	return "status_changed"
}
