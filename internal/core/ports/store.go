package ports

import (
	"context"
	"time"

	"shopserve/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Reader is the lock-free read side of the store. Reads see committed data only.
type Reader interface {
	GetEntry(ctx context.Context, id uint) (*domain.QueueEntry, error)
	ListActiveEntries(ctx context.Context) ([]domain.QueueEntry, error)
	ListQueueEvents(ctx context.Context, entryID uint) ([]domain.QueueEvent, error)
	GetCounter(ctx context.Context, id uint) (*domain.Counter, error)
	ListCounters(ctx context.Context) ([]domain.Counter, error)
	GetTransaction(ctx context.Context, id uint) (*domain.Transaction, error)
	ListSettlements(ctx context.Context, transactionID uint) ([]domain.Settlement, error)
	ListAuditRecords(ctx context.Context, transactionID uint) ([]domain.AuditRecord, error)
	GetArchivedEntry(ctx context.Context, originalID uint, archiveDate time.Time) (*domain.ArchivedEntry, error)
}

// Store opens transactions and serves committed reads
type Store interface {
	Reader

	// WithinTx runs fn inside one database transaction. fn returning an error
	// rolls everything back; row locks are held until commit or rollback.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	// AppendAuditRecord writes an audit row outside any caller transaction
	AppendAuditRecord(ctx context.Context, rec *domain.AuditRecord) error
}

// Tx is the write side, bound to one open transaction
type Tx interface {
	// Queue entries. Lock* methods take an exclusive row lock held until the transaction ends.
	CreateEntry(entry *domain.QueueEntry) error
	LockEntry(id uint) (*domain.QueueEntry, error)
	LockWaitingEntries() ([]domain.QueueEntry, error)
	LockEntriesForReset(dayStart time.Time) ([]domain.QueueEntry, error)
	SaveEntry(entry *domain.QueueEntry) error
	AppendQueueEvent(event *domain.QueueEvent) error
	UpsertArchivedEntry(archived *domain.ArchivedEntry) error

	// Counters. LockCounter must only be called after any entry lock in the same transaction.
	LockCounter(id uint) (*domain.Counter, error)
	SaveCounter(counter *domain.Counter) error
	ClearCounterBindings() (int64, error)

	// Ledger
	CreateTransaction(txn *domain.Transaction) error
	LockTransaction(id uint) (*domain.Transaction, error)
	SaveTransaction(txn *domain.Transaction) error
	SumSettlements(transactionID uint) (decimal.Decimal, error)
	InsertSettlement(settlement *domain.Settlement) error
	CreateAuditRecord(rec *domain.AuditRecord) error
	UpdateAuditRecord(rec *domain.AuditRecord) error
}
