package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QueueStatus is the lifecycle state of a queue entry
type QueueStatus string

const (
	StatusWaiting    QueueStatus = "Waiting"
	StatusServing    QueueStatus = "Serving"
	StatusProcessing QueueStatus = "Processing"
	StatusCompleted  QueueStatus = "Completed"
	StatusCancelled  QueueStatus = "Cancelled"
)

// AllStatuses lists every queue status in lifecycle order
var AllStatuses = []QueueStatus{
	StatusWaiting,
	StatusServing,
	StatusProcessing,
	StatusCompleted,
	StatusCancelled,
}

// IsTerminal reports whether no transition may leave the status
func (s QueueStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid reports whether s is one of the five defined states
func (s QueueStatus) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseQueueStatus converts an inbound string into a QueueStatus
func ParseQueueStatus(raw string) (QueueStatus, error) {
	s := QueueStatus(raw)
	if !s.IsValid() {
		return "", NewValidationError("status", "unknown queue status "+raw)
	}
	return s, nil
}

// PriorityTier ranks priority classes; lower values are served first
type PriorityTier int

const (
	TierSeniorCitizen PriorityTier = iota
	TierPWD
	TierPregnant
	TierNone
)

// PriorityFlags holds the customer's declared priority classes
type PriorityFlags struct {
	SeniorCitizen bool `json:"senior_citizen"`
	PWD           bool `json:"pwd"`
	Pregnant      bool `json:"pregnant"`
}

// Tier returns the highest tier the flags qualify for
func (f PriorityFlags) Tier() PriorityTier {
	switch {
	case f.SeniorCitizen:
		return TierSeniorCitizen
	case f.PWD:
		return TierPWD
	case f.Pregnant:
		return TierPregnant
	default:
		return TierNone
	}
}

// IsPriority reports whether any priority flag is set
func (f PriorityFlags) IsPriority() bool {
	return f.Tier() != TierNone
}

// QueueEntry is a customer while queued or served
type QueueEntry struct {
	ID             uint          `json:"id"`
	CustomerName   string        `json:"customer_name"`
	Priority       PriorityFlags `json:"priority"`
	ManualPosition *int          `json:"manual_position,omitempty"`
	Status         QueueStatus   `json:"status"`
	Remarks        string        `json:"remarks"`
	CounterID      *uint         `json:"counter_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	CalledAt       *time.Time    `json:"called_at,omitempty"`
	ServedAt       *time.Time    `json:"served_at,omitempty"`
	ArchivedAt     *time.Time    `json:"archived_at,omitempty"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Counter is a service point that serves one entry at a time
type Counter struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	IsActive          bool      `json:"is_active"`
	CurrentCustomerID *uint     `json:"current_customer_id,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsBusy reports whether the counter is bound to an entry
func (c Counter) IsBusy() bool {
	return c.CurrentCustomerID != nil
}

// PaymentMode is the closed set of accepted settlement methods
type PaymentMode string

const (
	ModeCash         PaymentMode = "cash"
	ModeEWalletA     PaymentMode = "e-wallet-A"
	ModeEWalletB     PaymentMode = "e-wallet-B"
	ModeCreditCard   PaymentMode = "credit_card"
	ModeBankTransfer PaymentMode = "bank_transfer"
)

var paymentModes = map[PaymentMode]struct{}{
	ModeCash:         {},
	ModeEWalletA:     {},
	ModeEWalletB:     {},
	ModeCreditCard:   {},
	ModeBankTransfer: {},
}

// ParsePaymentMode validates an inbound payment mode
func ParsePaymentMode(raw string) (PaymentMode, error) {
	m := PaymentMode(raw)
	if _, ok := paymentModes[m]; !ok {
		return "", NewValidationError("mode", "unsupported payment mode "+raw)
	}
	return m, nil
}

// PaymentStatus is the aggregate settlement state of a transaction
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "Unpaid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentPaid    PaymentStatus = "Paid"
)

// Transaction is a sale settled by one or more settlements
type Transaction struct {
	ID            uint            `json:"id"`
	QueueEntryID  *uint           `json:"queue_entry_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceAmount decimal.Decimal `json:"balance_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ApplyPaid sets the paid aggregate and derives balance and status from it
func (t *Transaction) ApplyPaid(paid decimal.Decimal) {
	t.PaidAmount = paid
	t.BalanceAmount = t.Amount.Sub(paid)
	switch {
	case !paid.IsPositive():
		t.PaymentStatus = PaymentUnpaid
	case paid.GreaterThanOrEqual(t.Amount):
		t.PaymentStatus = PaymentPaid
	default:
		t.PaymentStatus = PaymentPartial
	}
}

// Settlement is one append-only payment against a transaction
type Settlement struct {
	ID            uint            `json:"id"`
	TransactionID uint            `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMode   PaymentMode     `json:"payment_mode"`
	CashierID     uint            `json:"cashier_id"`
	PaidAt        time.Time       `json:"paid_at"`
}

// AuditEvent is the lifecycle stage of a settlement attempt
type AuditEvent string

const (
	AuditInitiated AuditEvent = "initiated"
	AuditCompleted AuditEvent = "completed"
	AuditFailed    AuditEvent = "failed"
)

// Audit row statuses
const (
	AuditStatusPending = "pending"
	AuditStatusSuccess = "success"
	AuditStatusFailed  = "failed"
)

// AuditSnapshot captures ledger state once a settlement completes
type AuditSnapshot struct {
	PaidAmount    string        `json:"paid_amount,omitempty"`
	BalanceAmount string        `json:"balance_amount,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
	SettlementID  uint          `json:"settlement_id,omitempty"`
}

// AuditRecord is one payment_tracking row per settlement attempt
type AuditRecord struct {
	ID            uint            `json:"id"`
	TransactionID uint            `json:"transaction_id"`
	CorrelationID string          `json:"correlation_id"`
	Event         AuditEvent      `json:"event"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMode     `json:"method"`
	Status        string          `json:"status"`
	ActorID       uint            `json:"actor_id"`
	ErrorMessage  string          `json:"error_message"`
	Snapshot      AuditSnapshot   `json:"snapshot"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// QueueEvent is one append-only state transition row
type QueueEvent struct {
	ID                uint        `json:"id"`
	QueueEntryID      uint        `json:"queue_entry_id"`
	FromStatus        QueueStatus `json:"from_status"`
	ToStatus          QueueStatus `json:"to_status"`
	ActorID           uint        `json:"actor_id"`
	CounterID         *uint       `json:"counter_id,omitempty"`
	Reason            string      `json:"reason"`
	ProcessingStartAt *time.Time  `json:"processing_start_at,omitempty"`
	ProcessingEndAt   *time.Time  `json:"processing_end_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
}

// ArchivedEntry is the history copy of an entry for one archive date
type ArchivedEntry struct {
	OriginalID  uint       `json:"original_id"`
	ArchiveDate time.Time  `json:"archive_date"`
	Entry       QueueEntry `json:"entry"`
	ArchivedBy  uint       `json:"archived_by"`
	Reason      string     `json:"reason"`
	ArchivedAt  time.Time  `json:"archived_at"`
}

// StartOfDay truncates t to local midnight
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
