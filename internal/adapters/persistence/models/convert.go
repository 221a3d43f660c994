package models

import (
	"shopserve/internal/core/domain"

	"gorm.io/datatypes"
)

// ============================================================
// Row ↔ domain conversion
// ============================================================

func (r *QueueEntry) ToDomain() domain.QueueEntry {
	return domain.QueueEntry{
		ID:             r.ID,
		CustomerName:   r.CustomerName,
		Priority:       r.Priority.Data(),
		ManualPosition: r.ManualPosition,
		Status:         domain.QueueStatus(r.Status),
		Remarks:        r.Remarks,
		CounterID:      r.CounterID,
		CreatedAt:      r.CreatedAt,
		CalledAt:       r.CalledAt,
		ServedAt:       r.ServedAt,
		ArchivedAt:     r.ArchivedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewQueueEntry(e *domain.QueueEntry) *QueueEntry {
	return &QueueEntry{
		ID:             e.ID,
		CustomerName:   e.CustomerName,
		Priority:       datatypes.NewJSONType(e.Priority),
		ManualPosition: e.ManualPosition,
		Status:         string(e.Status),
		Remarks:        e.Remarks,
		CounterID:      e.CounterID,
		CreatedAt:      e.CreatedAt,
		CalledAt:       e.CalledAt,
		ServedAt:       e.ServedAt,
		ArchivedAt:     e.ArchivedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r *Counter) ToDomain() domain.Counter {
	return domain.Counter{
		ID:                r.ID,
		Name:              r.Name,
		IsActive:          r.IsActive,
		CurrentCustomerID: r.CurrentCustomerID,
		UpdatedAt:         r.UpdatedAt,
	}
}

func NewCounter(c *domain.Counter) *Counter {
	return &Counter{
		ID:                c.ID,
		Name:              c.Name,
		IsActive:          c.IsActive,
		CurrentCustomerID: c.CurrentCustomerID,
		UpdatedAt:         c.UpdatedAt,
	}
}

func (r *QueueEvent) ToDomain() domain.QueueEvent {
	return domain.QueueEvent{
		ID:                r.ID,
		QueueEntryID:      r.QueueEntryID,
		FromStatus:        domain.QueueStatus(r.FromStatus),
		ToStatus:          domain.QueueStatus(r.ToStatus),
		ActorID:           r.ActorID,
		CounterID:         r.CounterID,
		Reason:            r.Reason,
		ProcessingStartAt: r.ProcessingStartAt,
		ProcessingEndAt:   r.ProcessingEndAt,
		CreatedAt:         r.CreatedAt,
	}
}

func NewQueueEvent(e *domain.QueueEvent) *QueueEvent {
	return &QueueEvent{
		QueueEntryID:      e.QueueEntryID,
		FromStatus:        string(e.FromStatus),
		ToStatus:          string(e.ToStatus),
		ActorID:           e.ActorID,
		CounterID:         e.CounterID,
		Reason:            e.Reason,
		ProcessingStartAt: e.ProcessingStartAt,
		ProcessingEndAt:   e.ProcessingEndAt,
		CreatedAt:         e.CreatedAt,
	}
}

func (r *QueueEntryHistory) ToDomain() domain.ArchivedEntry {
	return domain.ArchivedEntry{
		OriginalID:  r.OriginalID,
		ArchiveDate: r.ArchiveDate,
		Entry:       r.Snapshot.Data(),
		ArchivedBy:  r.ArchivedBy,
		Reason:      r.Reason,
		ArchivedAt:  r.ArchivedAt,
	}
}

func NewQueueEntryHistory(a *domain.ArchivedEntry) *QueueEntryHistory {
	return &QueueEntryHistory{
		OriginalID:   a.OriginalID,
		ArchiveDate:  a.ArchiveDate,
		CustomerName: a.Entry.CustomerName,
		Status:       string(a.Entry.Status),
		Snapshot:     datatypes.NewJSONType(a.Entry),
		ArchivedBy:   a.ArchivedBy,
		Reason:       a.Reason,
		ArchivedAt:   a.ArchivedAt,
	}
}

func (r *Transaction) ToDomain() domain.Transaction {
	return domain.Transaction{
		ID:            r.ID,
		QueueEntryID:  r.QueueEntryID,
		Amount:        r.Amount,
		PaidAmount:    r.PaidAmount,
		BalanceAmount: r.BalanceAmount,
		PaymentStatus: domain.PaymentStatus(r.PaymentStatus),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func NewTransaction(t *domain.Transaction) *Transaction {
	return &Transaction{
		ID:            t.ID,
		QueueEntryID:  t.QueueEntryID,
		Amount:        t.Amount,
		PaidAmount:    t.PaidAmount,
		BalanceAmount: t.BalanceAmount,
		PaymentStatus: string(t.PaymentStatus),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (r *Settlement) ToDomain() domain.Settlement {
	return domain.Settlement{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		Amount:        r.Amount,
		PaymentMode:   domain.PaymentMode(r.PaymentMode),
		CashierID:     r.CashierID,
		PaidAt:        r.PaidAt,
	}
}

func NewSettlement(s *domain.Settlement) *Settlement {
	return &Settlement{
		TransactionID: s.TransactionID,
		Amount:        s.Amount,
		PaymentMode:   string(s.PaymentMode),
		CashierID:     s.CashierID,
		PaidAt:        s.PaidAt,
	}
}

func (r *PaymentTracking) ToDomain() domain.AuditRecord {
	return domain.AuditRecord{
		ID:            r.ID,
		TransactionID: r.TransactionID,
		CorrelationID: r.CorrelationID,
		Event:         domain.AuditEvent(r.Event),
		Amount:        r.Amount,
		Method:        domain.PaymentMode(r.Method),
		Status:        r.Status,
		ActorID:       r.ActorID,
		ErrorMessage:  r.ErrorMessage,
		Snapshot:      r.Snapshot.Data(),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func NewPaymentTracking(a *domain.AuditRecord) *PaymentTracking {
	return &PaymentTracking{
		ID:            a.ID,
		TransactionID: a.TransactionID,
		CorrelationID: a.CorrelationID,
		Event:         string(a.Event),
		Amount:        a.Amount,
		Method:        string(a.Method),
		Status:        a.Status,
		ActorID:       a.ActorID,
		ErrorMessage:  a.ErrorMessage,
		Snapshot:      datatypes.NewJSONType(a.Snapshot),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
