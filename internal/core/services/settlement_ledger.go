package services

import (
	"context"
	"log"
	"time"

	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// settlementTolerance absorbs rounding from upstream floating-point inputs
var settlementTolerance = decimal.New(1, -2)

// SettlementLedger records partial payments against transactions
type SettlementLedger struct {
	store         ports.Store
	notifier      ports.Notifier
	now           func() time.Time
	correlationID func() string
}

// NewSettlementLedger creates a new settlement ledger. notifier may be nil.
func NewSettlementLedger(store ports.Store, notifier ports.Notifier) *SettlementLedger {
	return &SettlementLedger{
		store:         store,
		notifier:      notifier,
		now:           time.Now,
		correlationID: func() string { return uuid.NewString() },
	}
}

// SetClock overrides the time source
func (l *SettlementLedger) SetClock(now func() time.Time) {
	l.now = now
}

// ============================================================
// Transactions
// ============================================================

// CreateTransactionInput represents a new sale
type CreateTransactionInput struct {
	Amount       decimal.Decimal `json:"amount" swaggertype:"string" example:"1000.00"`
	QueueEntryID *uint           `json:"queue_entry_id"`
}

// LedgerView is a transaction with its full settlement history
type LedgerView struct {
	Transaction *domain.Transaction `json:"transaction"`
	Settlements []domain.Settlement `json:"settlements"`
}

// CreateTransaction opens a sale with nothing paid yet
func (l *SettlementLedger) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	amount := input.Amount
	if input.QueueEntryID != nil {
		if _, err := l.store.GetEntry(ctx, *input.QueueEntryID); err != nil {
			return nil, err
		}
	}

	txn := &domain.Transaction{
		QueueEntryID: input.QueueEntryID,
		Amount:       amount,
		CreatedAt:    l.now(),
	}
	txn.ApplyPaid(decimal.Zero)

	var ob outbox
	err := l.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		l.transactionUpdateHook(&ob, *txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Transaction %d created: amount=%s", txn.ID, txn.Amount.StringFixed(2))
	return txn, nil
}

// GetLedger returns a transaction and its settlements as committed
func (l *SettlementLedger) GetLedger(ctx context.Context, transactionID uint) (*LedgerView, error) {
	txn, err := l.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	settlements, err := l.store.ListSettlements(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if settlements == nil {
		settlements = []domain.Settlement{}
	}
	return &LedgerView{Transaction: txn, Settlements: settlements}, nil
}

// GetAuditTrail returns every recorded settlement attempt for a transaction
func (l *SettlementLedger) GetAuditTrail(ctx context.Context, transactionID uint) ([]domain.AuditRecord, error) {
	return l.store.ListAuditRecords(ctx, transactionID)
}

// ============================================================
// Settlements
// ============================================================

// CreateSettlementInput represents one payment attempt
type CreateSettlementInput struct {
	TransactionID uint            `json:"transaction_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" swaggertype:"string" example:"250.00"`
	Mode          string          `json:"mode" validate:"required"`
	CashierID     uint            `json:"cashier_id" validate:"required"`
}

// CreateSettlement records a payment under an exclusive lock on the
// transaction. On failure the work is rolled back and a failed audit row is
// written separately under the same correlation id.
func (l *SettlementLedger) CreateSettlement(ctx context.Context, input CreateSettlementInput) (*LedgerView, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	amount := input.Amount
	mode, err := domain.ParsePaymentMode(input.Mode)
	if err != nil {
		return nil, err
	}

	correlationID := l.correlationID()
	var ob outbox
	err = l.store.WithinTx(ctx, func(tx ports.Tx) error {
		ob.reset()

		// 1. Serialize on the transaction row
		txn, err := tx.LockTransaction(input.TransactionID)
		if err != nil {
			return err
		}

		// 2. Recompute paid from settlement rows, never from the cached aggregate
		currentPaid, err := tx.SumSettlements(txn.ID)
		if err != nil {
			return err
		}

		// 3. Ledger guards
		remaining := txn.Amount.Sub(currentPaid)
		if amount.GreaterThan(remaining) {
			return &domain.OverpaymentError{Requested: amount, Remaining: remaining}
		}
		if currentPaid.Add(amount).Sub(txn.Amount).GreaterThan(settlementTolerance) {
			return &domain.OverpaymentError{Requested: amount, Remaining: remaining}
		}

		// 4. Audit: initiated
		audit := &domain.AuditRecord{
			TransactionID: txn.ID,
			CorrelationID: correlationID,
			Event:         domain.AuditInitiated,
			Amount:        amount,
			Method:        mode,
			Status:        domain.AuditStatusPending,
			ActorID:       input.CashierID,
		}
		if err := tx.CreateAuditRecord(audit); err != nil {
			return err
		}

		// 5. Settlement row
		settlement := &domain.Settlement{
			TransactionID: txn.ID,
			Amount:        amount,
			PaymentMode:   mode,
			CashierID:     input.CashierID,
			PaidAt:        l.now(),
		}
		if err := tx.InsertSettlement(settlement); err != nil {
			return err
		}

		// 6. Aggregates
		txn.ApplyPaid(currentPaid.Add(amount))
		if err := tx.SaveTransaction(txn); err != nil {
			return err
		}

		// 7. Audit: completed
		audit.Event = domain.AuditCompleted
		audit.Status = domain.AuditStatusSuccess
		audit.Snapshot = domain.AuditSnapshot{
			PaidAmount:    txn.PaidAmount.StringFixed(2),
			BalanceAmount: txn.BalanceAmount.StringFixed(2),
			PaymentStatus: txn.PaymentStatus,
			SettlementID:  settlement.ID,
		}
		if err := tx.UpdateAuditRecord(audit); err != nil {
			return err
		}

		l.transactionUpdateHook(&ob, *txn)
		if l.notifier != nil {
			payload := ports.SettlementPayload{
				SettlementID:  settlement.ID,
				TransactionID: txn.ID,
				Amount:        settlement.Amount.StringFixed(2),
				Mode:          settlement.PaymentMode,
				CashierID:     settlement.CashierID,
				PaidAt:        settlement.PaidAt,
			}
			ob.add("notify settlement created", func(ctx context.Context) error {
				return l.notifier.NotifySettlementCreated(ctx, payload)
			})
		}
		return nil
	})
	if err != nil {
		l.recordFailure(ctx, correlationID, input.TransactionID, amount, mode, input.CashierID, err)
		return nil, err
	}
	ob.flush(ctx)

	log.Printf("✅ Settlement recorded: transaction=%d amount=%s mode=%s (%s)",
		input.TransactionID, amount.StringFixed(2), mode, correlationID)

	return l.GetLedger(ctx, input.TransactionID)
}

// recordFailure writes the failed audit row outside the rolled-back
// transaction. Its own failure is logged only.
func (l *SettlementLedger) recordFailure(ctx context.Context, correlationID string, transactionID uint, amount decimal.Decimal, mode domain.PaymentMode, actorID uint, cause error) {
	rec := &domain.AuditRecord{
		TransactionID: transactionID,
		CorrelationID: correlationID,
		Event:         domain.AuditFailed,
		Amount:        amount,
		Method:        mode,
		Status:        domain.AuditStatusFailed,
		ActorID:       actorID,
		ErrorMessage:  cause.Error(),
	}
	if err := l.store.AppendAuditRecord(context.WithoutCancel(ctx), rec); err != nil {
		log.Printf("❌ Failed to write settlement failure audit %s: %v", correlationID, err)
		return
	}
	log.Printf("⚠️ Settlement failed: transaction=%d amount=%s (%s): %v",
		transactionID, amount.StringFixed(2), correlationID, cause)
}

func (l *SettlementLedger) transactionUpdateHook(ob *outbox, txn domain.Transaction) {
	if l.notifier == nil {
		return
	}
	payload := ports.TransactionPayload{
		TransactionID: txn.ID,
		Amount:        txn.Amount.StringFixed(2),
		PaidAmount:    txn.PaidAmount.StringFixed(2),
		BalanceAmount: txn.BalanceAmount.StringFixed(2),
		PaymentStatus: txn.PaymentStatus,
	}
	ob.add("notify transaction update", func(ctx context.Context) error {
		return l.notifier.NotifyTransactionUpdate(ctx, payload)
	})
}
