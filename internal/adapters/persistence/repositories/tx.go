package repositories

import (
	"fmt"
	"time"

	"shopserve/internal/adapters/persistence/models"
	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormTx is bound to one open *gorm.DB transaction
type gormTx struct {
	db *gorm.DB
}

var _ ports.Tx = (*gormTx)(nil)

// ============================================================
// Queue entries
// ============================================================

func (t *gormTx) CreateEntry(entry *domain.QueueEntry) error {
	row := models.NewQueueEntry(entry)
	if err := t.db.Create(row).Error; err != nil {
		return mapError("create entry", err)
	}
	entry.ID, entry.UpdatedAt = row.ID, row.UpdatedAt
	return nil
}

func (t *gormTx) LockEntry(id uint) (*domain.QueueEntry, error) {
	var row models.QueueEntry
	if err := forUpdate(t.db).First(&row, id).Error; err != nil {
		return nil, lookupError("lock entry", "queue entry", id, err)
	}
	e := row.ToDomain()
	return &e, nil
}

func (t *gormTx) LockWaitingEntries() ([]domain.QueueEntry, error) {
	var rows []models.QueueEntry
	if err := waitingEntriesQuery(t.db).Find(&rows).Error; err != nil {
		return nil, mapError("lock waiting entries", err)
	}
	return entriesToDomain(rows), nil
}

func (t *gormTx) LockEntriesForReset(dayStart time.Time) ([]domain.QueueEntry, error) {
	var rows []models.QueueEntry
	if err := resetEntriesQuery(t.db, dayStart).Find(&rows).Error; err != nil {
		return nil, mapError("lock entries for reset", err)
	}
	return entriesToDomain(rows), nil
}

func (t *gormTx) SaveEntry(entry *domain.QueueEntry) error {
	row := models.NewQueueEntry(entry)
	if err := t.db.Save(row).Error; err != nil {
		return mapError("save entry", err)
	}
	entry.UpdatedAt = row.UpdatedAt
	return nil
}

func (t *gormTx) AppendQueueEvent(event *domain.QueueEvent) error {
	row := models.NewQueueEvent(event)
	if err := t.db.Create(row).Error; err != nil {
		return mapError("append queue event", err)
	}
	event.ID = row.ID
	return nil
}

// UpsertArchivedEntry runs under a savepoint so a failed row leaves the
// surrounding transaction usable
func (t *gormTx) UpsertArchivedEntry(archived *domain.ArchivedEntry) error {
	sp := fmt.Sprintf("archive_%d", archived.OriginalID)
	if err := t.db.SavePoint(sp).Error; err != nil {
		return mapError("savepoint", err)
	}

	row := models.NewQueueEntryHistory(archived)
	err := t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "original_id"}, {Name: "archive_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_name", "status", "snapshot", "archived_by", "reason", "archived_at",
		}),
	}).Create(row).Error
	if err != nil {
		if rbErr := t.db.RollbackTo(sp).Error; rbErr != nil {
			return mapError("rollback to savepoint", rbErr)
		}
		return mapError("upsert archived entry", err)
	}
	return nil
}

// ============================================================
// Counters
// ============================================================

func (t *gormTx) LockCounter(id uint) (*domain.Counter, error) {
	var row models.Counter
	if err := forUpdate(t.db).First(&row, id).Error; err != nil {
		return nil, lookupError("lock counter", "counter", id, err)
	}
	c := row.ToDomain()
	return &c, nil
}

func (t *gormTx) SaveCounter(counter *domain.Counter) error {
	err := t.db.Model(&models.Counter{ID: counter.ID}).
		Select("is_active", "current_customer_id").
		Updates(models.NewCounter(counter)).Error
	if err != nil {
		return mapError("save counter", err)
	}
	counter.UpdatedAt = time.Now()
	return nil
}

func (t *gormTx) ClearCounterBindings() (int64, error) {
	var rows []models.Counter
	if err := busyCountersQuery(t.db).Find(&rows).Error; err != nil {
		return 0, mapError("lock busy counters", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	res := t.db.Model(&models.Counter{}).
		Where("id IN ?", ids).
		Update("current_customer_id", nil)
	if res.Error != nil {
		return 0, mapError("clear counter bindings", res.Error)
	}
	return res.RowsAffected, nil
}

// ============================================================
// Ledger
// ============================================================

func (t *gormTx) CreateTransaction(txn *domain.Transaction) error {
	row := models.NewTransaction(txn)
	if err := t.db.Create(row).Error; err != nil {
		return mapError("create transaction", err)
	}
	txn.ID, txn.UpdatedAt = row.ID, row.UpdatedAt
	return nil
}

func (t *gormTx) LockTransaction(id uint) (*domain.Transaction, error) {
	var row models.Transaction
	if err := forUpdate(t.db).First(&row, id).Error; err != nil {
		return nil, lookupError("lock transaction", "transaction", id, err)
	}
	txn := row.ToDomain()
	return &txn, nil
}

func (t *gormTx) SaveTransaction(txn *domain.Transaction) error {
	row := models.NewTransaction(txn)
	err := t.db.Model(&models.Transaction{ID: txn.ID}).
		Select("paid_amount", "balance_amount", "payment_status").
		Updates(row).Error
	if err != nil {
		return mapError("save transaction", err)
	}
	txn.UpdatedAt = time.Now()
	return nil
}

// SumSettlements reads the settled total inside the caller's lock scope
func (t *gormTx) SumSettlements(transactionID uint) (decimal.Decimal, error) {
	var sum decimal.Decimal
	row := t.db.Model(&models.Settlement{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("transaction_id = ?", transactionID).
		Row()
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, mapError("sum settlements", err)
	}
	return sum, nil
}

func (t *gormTx) InsertSettlement(settlement *domain.Settlement) error {
	row := models.NewSettlement(settlement)
	if err := t.db.Create(row).Error; err != nil {
		return mapError("insert settlement", err)
	}
	settlement.ID = row.ID
	return nil
}

func (t *gormTx) CreateAuditRecord(rec *domain.AuditRecord) error {
	row := models.NewPaymentTracking(rec)
	if err := t.db.Create(row).Error; err != nil {
		return mapError("create audit record", err)
	}
	rec.ID, rec.CreatedAt, rec.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (t *gormTx) UpdateAuditRecord(rec *domain.AuditRecord) error {
	row := models.NewPaymentTracking(rec)
	err := t.db.Model(&models.PaymentTracking{ID: rec.ID}).
		Select("event", "status", "error_message", "snapshot").
		Updates(row).Error
	if err != nil {
		return mapError("update audit record", err)
	}
	rec.UpdatedAt = time.Now()
	return nil
}
