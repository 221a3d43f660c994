package repositories

import (
	"context"
	"time"

	"shopserve/internal/adapters/persistence/models"
	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the MySQL-backed ports.Store
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ ports.Store = (*Store)(nil)

// ============================================================
// Reader
// ============================================================

func (s *Store) GetEntry(ctx context.Context, id uint) (*domain.QueueEntry, error) {
	var row models.QueueEntry
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, lookupError("get entry", "queue entry", id, err)
	}
	e := row.ToDomain()
	return &e, nil
}

func (s *Store) ListActiveEntries(ctx context.Context) ([]domain.QueueEntry, error) {
	var rows []models.QueueEntry
	err := s.db.WithContext(ctx).
		Where("status NOT IN ?", terminalStatuses()).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("list active entries", err)
	}
	return entriesToDomain(rows), nil
}

func (s *Store) ListQueueEvents(ctx context.Context, entryID uint) ([]domain.QueueEvent, error) {
	var rows []models.QueueEvent
	err := s.db.WithContext(ctx).
		Where("queue_entry_id = ?", entryID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("list queue events", err)
	}
	out := make([]domain.QueueEvent, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (s *Store) GetCounter(ctx context.Context, id uint) (*domain.Counter, error) {
	var row models.Counter
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, lookupError("get counter", "counter", id, err)
	}
	c := row.ToDomain()
	return &c, nil
}

func (s *Store) ListCounters(ctx context.Context) ([]domain.Counter, error) {
	var rows []models.Counter
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, mapError("list counters", err)
	}
	out := make([]domain.Counter, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uint) (*domain.Transaction, error) {
	var row models.Transaction
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, lookupError("get transaction", "transaction", id, err)
	}
	t := row.ToDomain()
	return &t, nil
}

func (s *Store) ListSettlements(ctx context.Context, transactionID uint) ([]domain.Settlement, error) {
	var rows []models.Settlement
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("list settlements", err)
	}
	out := make([]domain.Settlement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (s *Store) ListAuditRecords(ctx context.Context, transactionID uint) ([]domain.AuditRecord, error) {
	var rows []models.PaymentTracking
	err := s.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, mapError("list audit records", err)
	}
	out := make([]domain.AuditRecord, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (s *Store) GetArchivedEntry(ctx context.Context, originalID uint, archiveDate time.Time) (*domain.ArchivedEntry, error) {
	var row models.QueueEntryHistory
	err := s.db.WithContext(ctx).
		Where("original_id = ? AND archive_date = ?", originalID, archiveDate.Format(time.DateOnly)).
		First(&row).Error
	if err != nil {
		return nil, lookupError("get archived entry", "archived entry", originalID, err)
	}
	a := row.ToDomain()
	return &a, nil
}

// ============================================================
// Writes
// ============================================================

// WithinTx runs fn in one database transaction; any error rolls it back
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Tx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
	return mapError("transaction", err)
}

// AppendAuditRecord writes an audit row on its own connection, outside any open transaction
func (s *Store) AppendAuditRecord(ctx context.Context, rec *domain.AuditRecord) error {
	row := models.NewPaymentTracking(rec)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return mapError("append audit record", err)
	}
	rec.ID, rec.CreatedAt, rec.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

// ============================================================
// Query builders
// ============================================================

func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

// waitingEntriesQuery locks every Waiting row in primary-key order
func waitingEntriesQuery(db *gorm.DB) *gorm.DB {
	return forUpdate(db).
		Where("status = ?", string(domain.StatusWaiting)).
		Order("id")
}

// resetEntriesQuery locks non-terminal rows plus terminal rows served since
// dayStart that have not been archived yet
func resetEntriesQuery(db *gorm.DB, dayStart time.Time) *gorm.DB {
	return forUpdate(db).
		Where("status NOT IN ? OR (archived_at IS NULL AND served_at >= ?)", terminalStatuses(), dayStart).
		Order("id")
}

func busyCountersQuery(db *gorm.DB) *gorm.DB {
	return forUpdate(db).
		Where("current_customer_id IS NOT NULL").
		Order("id")
}

func terminalStatuses() []string {
	return []string{string(domain.StatusCompleted), string(domain.StatusCancelled)}
}

func entriesToDomain(rows []models.QueueEntry) []domain.QueueEntry {
	out := make([]domain.QueueEntry, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
