// Package memstore is an in-memory ports.Store with row-lock and rollback
// semantics close enough to InnoDB for service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"
)

// Op names a store operation that can be made to fail
type Op string

const (
	OpCreateEntry       Op = "create_entry"
	OpSaveEntry         Op = "save_entry"
	OpAppendQueueEvent  Op = "append_queue_event"
	OpUpsertArchived    Op = "upsert_archived_entry"
	OpSaveCounter       Op = "save_counter"
	OpSaveTransaction   Op = "save_transaction"
	OpInsertSettlement  Op = "insert_settlement"
	OpCreateAuditRecord Op = "create_audit_record"
	OpUpdateAuditRecord Op = "update_audit_record"
	OpAppendAudit       Op = "append_audit_record"
	OpCommit            Op = "commit"
)

type archiveKey struct {
	originalID uint
	day        string
}

// Store is safe for concurrent use
type Store struct {
	mu           sync.RWMutex
	entries      map[uint]domain.QueueEntry
	counters     map[uint]domain.Counter
	transactions map[uint]domain.Transaction
	settlements  []domain.Settlement
	audits       map[uint]domain.AuditRecord
	events       []domain.QueueEvent
	archived     map[archiveKey]domain.ArchivedEntry

	idMu sync.Mutex
	seq  map[string]uint

	faultMu sync.Mutex
	faults  map[Op]error

	locks    *lockTable
	lockWait time.Duration
}

// Option configures a Store
type Option func(*Store)

// WithLockWait bounds how long a transaction waits for a row lock
func WithLockWait(d time.Duration) Option {
	return func(s *Store) { s.lockWait = d }
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		entries:      make(map[uint]domain.QueueEntry),
		counters:     make(map[uint]domain.Counter),
		transactions: make(map[uint]domain.Transaction),
		audits:       make(map[uint]domain.AuditRecord),
		archived:     make(map[archiveKey]domain.ArchivedEntry),
		seq:          make(map[string]uint),
		faults:       make(map[Op]error),
		locks:        newLockTable(),
		lockWait:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.Store = (*Store)(nil)

// FailOn makes the next call of op fail with err
func (s *Store) FailOn(op Op, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = err
}

func (s *Store) fault(op Op) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	err, ok := s.faults[op]
	if !ok {
		return nil
	}
	delete(s.faults, op)
	return domain.NewPersistenceError(string(op), err)
}

func (s *Store) nextID(table string) uint {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	s.seq[table]++
	return s.seq[table]
}

// AddCounter seeds a counter and returns its id
func (s *Store) AddCounter(name string, active bool) uint {
	id := s.nextID("counters")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[id] = domain.Counter{ID: id, Name: name, IsActive: active, UpdatedAt: time.Now()}
	return id
}

// AddEntry seeds a queue entry as-is (status, timestamps) and returns its id
func (s *Store) AddEntry(e domain.QueueEntry) uint {
	if e.ID == 0 {
		e.ID = s.nextID("entries")
	}
	if e.Status == "" {
		e.Status = domain.StatusWaiting
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = cloneEntry(e)
	return e.ID
}

// QueueEventCount returns the number of committed queue events
func (s *Store) QueueEventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// ============================================================
// Reader
// ============================================================

func (s *Store) GetEntry(_ context.Context, id uint) (*domain.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, domain.NewNotFoundError("queue entry", id)
	}
	c := cloneEntry(e)
	return &c, nil
}

func (s *Store) ListActiveEntries(_ context.Context) ([]domain.QueueEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QueueEntry
	for _, e := range s.entries {
		if !e.Status.IsTerminal() {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListQueueEvents(_ context.Context, entryID uint) ([]domain.QueueEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.QueueEvent
	for _, ev := range s.events {
		if ev.QueueEntryID == entryID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Store) GetCounter(_ context.Context, id uint) (*domain.Counter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.counters[id]
	if !ok {
		return nil, domain.NewNotFoundError("counter", id)
	}
	c = cloneCounter(c)
	return &c, nil
}

func (s *Store) ListCounters(_ context.Context) ([]domain.Counter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Counter, 0, len(s.counters))
	for _, c := range s.counters {
		out = append(out, cloneCounter(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id uint) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, domain.NewNotFoundError("transaction", id)
	}
	t = cloneTransaction(t)
	return &t, nil
}

func (s *Store) ListSettlements(_ context.Context, transactionID uint) ([]domain.Settlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Settlement
	for _, st := range s.settlements {
		if st.TransactionID == transactionID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *Store) ListAuditRecords(_ context.Context, transactionID uint) ([]domain.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.AuditRecord
	for _, rec := range s.audits {
		if rec.TransactionID == transactionID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetArchivedEntry(_ context.Context, originalID uint, archiveDate time.Time) (*domain.ArchivedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.archived[archiveKey{originalID, archiveDate.Format(time.DateOnly)}]
	if !ok {
		return nil, domain.NewNotFoundError("archived entry", originalID)
	}
	return &a, nil
}

// ============================================================
// Writes
// ============================================================

func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	t := newTx(ctx, s)
	defer t.releaseAll()

	if err := fn(t); err != nil {
		return err
	}
	if err := s.fault(OpCommit); err != nil {
		return err
	}
	t.commit()
	return nil
}

func (s *Store) AppendAuditRecord(_ context.Context, rec *domain.AuditRecord) error {
	if err := s.fault(OpAppendAudit); err != nil {
		return err
	}
	rec.ID = s.nextID("audits")
	now := time.Now()
	rec.CreatedAt, rec.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.audits[rec.ID] = *rec
	return nil
}

// ============================================================
// copy helpers
// ============================================================

func cloneEntry(e domain.QueueEntry) domain.QueueEntry {
	e.ManualPosition = clonePtr(e.ManualPosition)
	e.CounterID = clonePtr(e.CounterID)
	e.CalledAt = clonePtr(e.CalledAt)
	e.ServedAt = clonePtr(e.ServedAt)
	e.ArchivedAt = clonePtr(e.ArchivedAt)
	return e
}

func cloneCounter(c domain.Counter) domain.Counter {
	c.CurrentCustomerID = clonePtr(c.CurrentCustomerID)
	return c
}

func cloneTransaction(t domain.Transaction) domain.Transaction {
	t.QueueEntryID = clonePtr(t.QueueEntryID)
	return t
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
