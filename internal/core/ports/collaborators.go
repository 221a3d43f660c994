package ports

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

import (
	"context"
	"time"

	"shopserve/internal/core/domain"
)

// QueueUpdate is a queue-wide change broadcast to displays and counters
type QueueUpdate struct {
	Action    string             `json:"action"`
	EntryID   uint               `json:"entry_id,omitempty"`
	CounterID *uint              `json:"counter_id,omitempty"`
	Status    domain.QueueStatus `json:"status,omitempty"`
	Meta      map[string]any     `json:"meta,omitempty"`
}

// SettlementPayload describes a newly recorded settlement
type SettlementPayload struct {
	SettlementID  uint               `json:"settlement_id"`
	TransactionID uint               `json:"transaction_id"`
	Amount        string             `json:"amount"`
	Mode          domain.PaymentMode `json:"mode"`
	CashierID     uint               `json:"cashier_id"`
	PaidAt        time.Time          `json:"paid_at"`
}

// TransactionPayload describes the ledger state of a transaction
type TransactionPayload struct {
	TransactionID uint                 `json:"transaction_id"`
	Amount        string               `json:"amount"`
	PaidAmount    string               `json:"paid_amount"`
	BalanceAmount string               `json:"balance_amount"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// Notifier is the real-time broadcaster. Calls happen strictly after commit;
// returned errors are logged by the caller and never fail the operation.
type Notifier interface {
	NotifyQueueUpdate(ctx context.Context, update QueueUpdate) error
	NotifyStatusChanged(ctx context.Context, entryID uint, status domain.QueueStatus, meta map[string]any) error
	NotifySettlementCreated(ctx context.Context, payload SettlementPayload) error
	NotifyTransactionUpdate(ctx context.Context, payload TransactionPayload) error
}

// QueueAnalyticsEvent is one service-time analytics record
type QueueAnalyticsEvent struct {
	EntryID            uint
	EventType          string
	CounterID          *uint
	WaitTimeMinutes    *float64
	ServiceTimeMinutes *float64
	IsPriority         bool
	Reason             string
	OccurredAt         time.Time
}

// AnalyticsSink records queue analytics; strictly best-effort
type AnalyticsSink interface {
	RecordQueueEvent(ctx context.Context, event QueueAnalyticsEvent) error
	RecomputeDailyAggregates(ctx context.Context, day time.Time) error
}
