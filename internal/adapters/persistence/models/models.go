package models

import (
	"time"

	"shopserve/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Ledger Tables
// ============================================================

// Transaction represents transactions table (one sale)
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	QueueEntryID  *uint           `gorm:"index" json:"queue_entry_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_amount"`
	PaymentStatus string          `gorm:"size:10;not null;default:'Unpaid';index" json:"payment_status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Settlement represents settlements table (append-only)
type Settlement struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMode   string          `gorm:"size:20;not null" json:"payment_mode"`
	CashierID     uint            `gorm:"not null;index" json:"cashier_id"`
	PaidAt        time.Time       `gorm:"not null" json:"paid_at"`
}

func (Settlement) TableName() string {
	return "settlements"
}

// PaymentTracking represents payment_tracking table (one row per settlement attempt)
type PaymentTracking struct {
	ID            uint                                     `gorm:"primaryKey" json:"id"`
	TransactionID uint                                     `gorm:"not null;index" json:"transaction_id"`
	CorrelationID string                                   `gorm:"size:36;not null;index" json:"correlation_id"`
	Event         string                                   `gorm:"size:10;not null" json:"event"`
	Amount        decimal.Decimal                          `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method        string                                   `gorm:"size:20" json:"method"`
	Status        string                                   `gorm:"size:20" json:"status"`
	ActorID       uint                                     `gorm:"index" json:"actor_id"`
	ErrorMessage  string                                   `gorm:"type:text" json:"error_message"`
	Snapshot      datatypes.JSONType[domain.AuditSnapshot] `gorm:"type:json" json:"snapshot"`
	CreatedAt     time.Time                                `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                                `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PaymentTracking) TableName() string {
	return "payment_tracking"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates every table the store uses
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Queue
		&Counter{},
		&QueueEntry{},
		&QueueEvent{},
		&QueueEntryHistory{},
		// Ledger
		&Transaction{},
		&Settlement{},
		&PaymentTracking{},
		// Analytics
		&QueueAnalytics{},
		&DailyQueueStat{},
	)
}
