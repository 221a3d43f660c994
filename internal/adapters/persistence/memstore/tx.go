package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"github.com/shopspring/decimal"
)

// tx stages writes until commit and holds row locks until it ends
type tx struct {
	ctx  context.Context
	s    *Store
	held map[string]bool
	keys []string

	entries      map[uint]domain.QueueEntry
	counters     map[uint]domain.Counter
	transactions map[uint]domain.Transaction
	settlements  []domain.Settlement
	audits       map[uint]domain.AuditRecord
	events       []domain.QueueEvent
	archived     map[archiveKey]domain.ArchivedEntry
}

var _ ports.Tx = (*tx)(nil)

func newTx(ctx context.Context, s *Store) *tx {
	return &tx{
		ctx:          ctx,
		s:            s,
		held:         make(map[string]bool),
		entries:      make(map[uint]domain.QueueEntry),
		counters:     make(map[uint]domain.Counter),
		transactions: make(map[uint]domain.Transaction),
		audits:       make(map[uint]domain.AuditRecord),
		archived:     make(map[archiveKey]domain.ArchivedEntry),
	}
}

func (t *tx) lock(key string) error {
	if t.held[key] {
		return nil
	}
	if err := t.s.locks.acquire(t.ctx, key, t.s.lockWait); err != nil {
		return err
	}
	t.held[key] = true
	t.keys = append(t.keys, key)
	return nil
}

func (t *tx) releaseAll() {
	for i := len(t.keys) - 1; i >= 0; i-- {
		t.s.locks.release(t.keys[i])
	}
	t.keys = nil
	t.held = map[string]bool{}
}

func (t *tx) commit() {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range t.entries {
		s.entries[id] = e
	}
	for id, c := range t.counters {
		s.counters[id] = c
	}
	for id, txn := range t.transactions {
		s.transactions[id] = txn
	}
	s.settlements = append(s.settlements, t.settlements...)
	for id, rec := range t.audits {
		s.audits[id] = rec
	}
	s.events = append(s.events, t.events...)
	for k, a := range t.archived {
		s.archived[k] = a
	}
}

// ============================================================
// read-through helpers (staged first, then committed)
// ============================================================

func (t *tx) entry(id uint) (domain.QueueEntry, bool) {
	if e, ok := t.entries[id]; ok {
		return cloneEntry(e), true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	e, ok := t.s.entries[id]
	return cloneEntry(e), ok
}

func (t *tx) entryIDs(match func(domain.QueueEntry) bool) []uint {
	seen := map[uint]bool{}
	var ids []uint
	for id, e := range t.entries {
		seen[id] = true
		if match(e) {
			ids = append(ids, id)
		}
	}
	t.s.mu.RLock()
	for id, e := range t.s.entries {
		if !seen[id] && match(e) {
			ids = append(ids, id)
		}
	}
	t.s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// lockMatching locks candidates in id order, then re-reads them and keeps
// only rows that still match once the lock is held.
func (t *tx) lockMatching(match func(domain.QueueEntry) bool) ([]domain.QueueEntry, error) {
	var out []domain.QueueEntry
	for _, id := range t.entryIDs(match) {
		if err := t.lock(fmt.Sprintf("entry:%d", id)); err != nil {
			return nil, err
		}
		e, ok := t.entry(id)
		if ok && match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (t *tx) counter(id uint) (domain.Counter, bool) {
	if c, ok := t.counters[id]; ok {
		return cloneCounter(c), true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	c, ok := t.s.counters[id]
	return cloneCounter(c), ok
}

func (t *tx) transaction(id uint) (domain.Transaction, bool) {
	if txn, ok := t.transactions[id]; ok {
		return cloneTransaction(txn), true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	txn, ok := t.s.transactions[id]
	return cloneTransaction(txn), ok
}

// ============================================================
// Queue entries
// ============================================================

func (t *tx) CreateEntry(entry *domain.QueueEntry) error {
	if err := t.s.fault(OpCreateEntry); err != nil {
		return err
	}
	entry.ID = t.s.nextID("entries")
	entry.UpdatedAt = entry.CreatedAt
	t.entries[entry.ID] = cloneEntry(*entry)
	return nil
}

func (t *tx) LockEntry(id uint) (*domain.QueueEntry, error) {
	if _, ok := t.entry(id); !ok {
		return nil, domain.NewNotFoundError("queue entry", id)
	}
	if err := t.lock(fmt.Sprintf("entry:%d", id)); err != nil {
		return nil, err
	}
	e, _ := t.entry(id)
	return &e, nil
}

func (t *tx) LockWaitingEntries() ([]domain.QueueEntry, error) {
	return t.lockMatching(func(e domain.QueueEntry) bool {
		return e.Status == domain.StatusWaiting
	})
}

func (t *tx) LockEntriesForReset(dayStart time.Time) ([]domain.QueueEntry, error) {
	return t.lockMatching(func(e domain.QueueEntry) bool {
		if !e.Status.IsTerminal() {
			return true
		}
		return e.ArchivedAt == nil && e.ServedAt != nil && !e.ServedAt.Before(dayStart)
	})
}

func (t *tx) SaveEntry(entry *domain.QueueEntry) error {
	if err := t.s.fault(OpSaveEntry); err != nil {
		return err
	}
	entry.UpdatedAt = time.Now()
	t.entries[entry.ID] = cloneEntry(*entry)
	return nil
}

func (t *tx) AppendQueueEvent(event *domain.QueueEvent) error {
	if err := t.s.fault(OpAppendQueueEvent); err != nil {
		return err
	}
	event.ID = t.s.nextID("queue_events")
	t.events = append(t.events, *event)
	return nil
}

func (t *tx) UpsertArchivedEntry(archived *domain.ArchivedEntry) error {
	if err := t.s.fault(OpUpsertArchived); err != nil {
		return err
	}
	a := *archived
	a.Entry = cloneEntry(a.Entry)
	t.archived[archiveKey{a.OriginalID, a.ArchiveDate.Format(time.DateOnly)}] = a
	return nil
}

// ============================================================
// Counters
// ============================================================

func (t *tx) LockCounter(id uint) (*domain.Counter, error) {
	if _, ok := t.counter(id); !ok {
		return nil, domain.NewNotFoundError("counter", id)
	}
	if err := t.lock(fmt.Sprintf("counter:%d", id)); err != nil {
		return nil, err
	}
	c, _ := t.counter(id)
	return &c, nil
}

func (t *tx) SaveCounter(counter *domain.Counter) error {
	if err := t.s.fault(OpSaveCounter); err != nil {
		return err
	}
	counter.UpdatedAt = time.Now()
	t.counters[counter.ID] = cloneCounter(*counter)
	return nil
}

func (t *tx) ClearCounterBindings() (int64, error) {
	var ids []uint
	seen := map[uint]bool{}
	for id, c := range t.counters {
		seen[id] = true
		if c.IsBusy() {
			ids = append(ids, id)
		}
	}
	t.s.mu.RLock()
	for id, c := range t.s.counters {
		if !seen[id] && c.IsBusy() {
			ids = append(ids, id)
		}
	}
	t.s.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var cleared int64
	for _, id := range ids {
		c, err := t.LockCounter(id)
		if err != nil {
			return cleared, err
		}
		if !c.IsBusy() {
			continue
		}
		c.CurrentCustomerID = nil
		if err := t.SaveCounter(c); err != nil {
			return cleared, err
		}
		cleared++
	}
	return cleared, nil
}

// ============================================================
// Ledger
// ============================================================

func (t *tx) CreateTransaction(txn *domain.Transaction) error {
	txn.ID = t.s.nextID("transactions")
	txn.UpdatedAt = txn.CreatedAt
	t.transactions[txn.ID] = cloneTransaction(*txn)
	return nil
}

func (t *tx) LockTransaction(id uint) (*domain.Transaction, error) {
	if _, ok := t.transaction(id); !ok {
		return nil, domain.NewNotFoundError("transaction", id)
	}
	if err := t.lock(fmt.Sprintf("transaction:%d", id)); err != nil {
		return nil, err
	}
	txn, _ := t.transaction(id)
	return &txn, nil
}

func (t *tx) SaveTransaction(txn *domain.Transaction) error {
	if err := t.s.fault(OpSaveTransaction); err != nil {
		return err
	}
	txn.UpdatedAt = time.Now()
	t.transactions[txn.ID] = cloneTransaction(*txn)
	return nil
}

func (t *tx) SumSettlements(transactionID uint) (decimal.Decimal, error) {
	sum := decimal.Zero
	t.s.mu.RLock()
	for _, st := range t.s.settlements {
		if st.TransactionID == transactionID {
			sum = sum.Add(st.Amount)
		}
	}
	t.s.mu.RUnlock()
	for _, st := range t.settlements {
		if st.TransactionID == transactionID {
			sum = sum.Add(st.Amount)
		}
	}
	return sum, nil
}

func (t *tx) InsertSettlement(settlement *domain.Settlement) error {
	if err := t.s.fault(OpInsertSettlement); err != nil {
		return err
	}
	settlement.ID = t.s.nextID("settlements")
	t.settlements = append(t.settlements, *settlement)
	return nil
}

func (t *tx) CreateAuditRecord(rec *domain.AuditRecord) error {
	if err := t.s.fault(OpCreateAuditRecord); err != nil {
		return err
	}
	rec.ID = t.s.nextID("audits")
	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now
	t.audits[rec.ID] = *rec
	return nil
}

func (t *tx) UpdateAuditRecord(rec *domain.AuditRecord) error {
	if err := t.s.fault(OpUpdateAuditRecord); err != nil {
		return err
	}
	rec.UpdatedAt = time.Now()
	t.audits[rec.ID] = *rec
	return nil
}
