package memstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollbackDiscardsStagedWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := s.AddEntry(domain.QueueEntry{CustomerName: "Ana", CreatedAt: time.Now()})

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(tx ports.Tx) error {
		e, err := tx.LockEntry(id)
		require.NoError(t, err)
		e.Status = domain.StatusServing
		require.NoError(t, tx.SaveEntry(e))
		require.NoError(t, tx.AppendQueueEvent(&domain.QueueEvent{QueueEntryID: id}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	e, err := s.GetEntry(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, e.Status)
	assert.Zero(t, s.QueueEventCount())
}

func TestWithinTx_CommitPublishesWrites(t *testing.T) {
	s := New()
	ctx := context.Background()

	var txnID uint
	err := s.WithinTx(ctx, func(tx ports.Tx) error {
		txn := &domain.Transaction{Amount: decimal.NewFromInt(50), CreatedAt: time.Now()}
		txn.ApplyPaid(decimal.Zero)
		require.NoError(t, tx.CreateTransaction(txn))
		txnID = txn.ID
		return tx.InsertSettlement(&domain.Settlement{TransactionID: txn.ID, Amount: decimal.NewFromInt(20)})
	})
	require.NoError(t, err)

	txn, err := s.GetTransaction(ctx, txnID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnpaid, txn.PaymentStatus)

	history, err := s.ListSettlements(ctx, txnID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestLockEntry_SerializesWriters(t *testing.T) {
	s := New()
	ctx := context.Background()
	id := s.AddEntry(domain.QueueEntry{CustomerName: "Ben", CreatedAt: time.Now()})

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(tx ports.Tx) error {
				if _, err := tx.LockEntry(id); err != nil {
					return err
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLockWaitTimeoutIsConflict(t *testing.T) {
	s := New(WithLockWait(20 * time.Millisecond))
	ctx := context.Background()
	id := s.AddEntry(domain.QueueEntry{CustomerName: "Cy", CreatedAt: time.Now()})

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = s.WithinTx(ctx, func(tx ports.Tx) error {
			_, err := tx.LockEntry(id)
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	err := s.WithinTx(ctx, func(tx ports.Tx) error {
		_, err := tx.LockEntry(id)
		return err
	})
	close(done)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestFailOnIsOneShot(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.FailOn(OpAppendAudit, errors.New("disk full"))

	err := s.AppendAuditRecord(ctx, &domain.AuditRecord{TransactionID: 1})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	err = s.AppendAuditRecord(ctx, &domain.AuditRecord{TransactionID: 1})
	assert.NoError(t, err)
}

func TestLockEntriesForReset_SkipsArchivedAndOldTerminal(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()
	today := domain.StartOfDay(now)
	yesterday := today.Add(-time.Hour)

	waiting := s.AddEntry(domain.QueueEntry{CreatedAt: now})
	doneToday := s.AddEntry(domain.QueueEntry{Status: domain.StatusCompleted, ServedAt: &now, CreatedAt: now})
	s.AddEntry(domain.QueueEntry{Status: domain.StatusCompleted, ServedAt: &yesterday, CreatedAt: yesterday})
	s.AddEntry(domain.QueueEntry{Status: domain.StatusCancelled, ServedAt: &now, ArchivedAt: &now, CreatedAt: now})

	var got []uint
	err := s.WithinTx(ctx, func(tx ports.Tx) error {
		entries, err := tx.LockEntriesForReset(today)
		for _, e := range entries {
			got = append(got, e.ID)
		}
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{waiting, doneToday}, got)
}
