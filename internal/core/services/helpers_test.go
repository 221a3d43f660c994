package services

import (
	"testing"
	"time"

	"shopserve/internal/adapters/persistence/memstore"
	"shopserve/internal/core/domain"
)

// fixedNow is noon so that "today" never straddles midnight in tests
var fixedNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.Local)

var (
	admin   = domain.NewActor(1, domain.RoleAdmin)
	cashier = domain.NewActor(2, domain.RoleCashier)
	sales   = domain.NewActor(3, domain.RoleSales)
)

func newTestQueue(t *testing.T) (*QueueService, *memstore.Store) {
	t.Helper()
	store := memstore.New(memstore.WithLockWait(2 * time.Second))
	svc := NewQueueService(store, nil, nil, NewPriorityRanker(10))
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, store
}

func newTestLedger(t *testing.T) (*SettlementLedger, *memstore.Store) {
	t.Helper()
	store := memstore.New(memstore.WithLockWait(2 * time.Second))
	ledger := NewSettlementLedger(store, nil)
	ledger.SetClock(func() time.Time { return fixedNow })
	return ledger, store
}

func minutesAgo(m int) time.Time {
	return fixedNow.Add(-time.Duration(m) * time.Minute)
}

func ptr[T any](v T) *T {
	return &v
}
