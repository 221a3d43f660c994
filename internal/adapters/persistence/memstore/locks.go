package memstore

import (
	"context"
	"sync"
	"time"

	"shopserve/internal/core/domain"
)

// lockTable emulates exclusive row locks. Each key is a one-slot semaphore so
// waiters can give up when the lock wait timeout or ctx expires.
type lockTable struct {
	mu   sync.Mutex
	rows map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{rows: make(map[string]chan struct{})}
}

func (l *lockTable) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.rows[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.rows[key] = ch
	}
	return ch
}

func (l *lockTable) acquire(ctx context.Context, key string, wait time.Duration) error {
	ch := l.slot(key)
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return domain.NewConflictError("lock wait timeout exceeded on "+key, nil)
	case <-ctx.Done():
		return domain.NewConflictError("lock wait abandoned on "+key, ctx.Err())
	}
}

func (l *lockTable) release(key string) {
	<-l.slot(key)
}
