package models

import (
	"time"

	"shopserve/internal/core/domain"

	"gorm.io/datatypes"
)

// ============================================================
// Queue Tables
// ============================================================

type Counter struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CurrentCustomerID *uint     `gorm:"index" json:"current_customer_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Counter) TableName() string {
	return "counters"
}

type QueueEntry struct {
	ID             uint                                     `gorm:"primaryKey" json:"id"`
	CustomerName   string                                   `gorm:"size:150;not null" json:"customer_name"`
	Priority       datatypes.JSONType[domain.PriorityFlags] `gorm:"type:json" json:"priority"`
	ManualPosition *int                                     `json:"manual_position"`
	Status         string                                   `gorm:"size:20;not null;default:'Waiting';index" json:"status"`
	Remarks        string                                   `gorm:"type:text" json:"remarks"`
	CounterID      *uint                                    `gorm:"index" json:"counter_id"`
	CreatedAt      time.Time                                `gorm:"not null;index" json:"created_at"`
	CalledAt       *time.Time                               `json:"called_at"`
	ServedAt       *time.Time                               `gorm:"index" json:"served_at"`
	ArchivedAt     *time.Time                               `json:"archived_at"`
	UpdatedAt      time.Time                                `gorm:"autoUpdateTime" json:"updated_at"`
}

func (QueueEntry) TableName() string {
	return "queue_entries"
}

// QueueEvent represents queue_events table (append-only transition log)
type QueueEvent struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	QueueEntryID      uint       `gorm:"not null;index" json:"queue_entry_id"`
	FromStatus        string     `gorm:"size:20;not null" json:"from_status"`
	ToStatus          string     `gorm:"size:20;not null" json:"to_status"`
	ActorID           uint       `gorm:"index" json:"actor_id"`
	CounterID         *uint      `json:"counter_id"`
	Reason            string     `gorm:"size:255" json:"reason"`
	ProcessingStartAt *time.Time `json:"processing_start_at"`
	ProcessingEndAt   *time.Time `json:"processing_end_at"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (QueueEvent) TableName() string {
	return "queue_events"
}

// QueueEntryHistory represents queue_entry_history table, one row per entry per day
type QueueEntryHistory struct {
	ID           uint                                  `gorm:"primaryKey" json:"id"`
	OriginalID   uint                                  `gorm:"not null;uniqueIndex:uq_history_original_date" json:"original_id"`
	ArchiveDate  time.Time                             `gorm:"type:date;not null;uniqueIndex:uq_history_original_date" json:"archive_date"`
	CustomerName string                                `gorm:"size:150" json:"customer_name"`
	Status       string                                `gorm:"size:20" json:"status"`
	Snapshot     datatypes.JSONType[domain.QueueEntry] `gorm:"type:json" json:"snapshot"`
	ArchivedBy   uint                                  `json:"archived_by"`
	Reason       string                                `gorm:"size:255" json:"reason"`
	ArchivedAt   time.Time                             `gorm:"not null" json:"archived_at"`
}

func (QueueEntryHistory) TableName() string {
	return "queue_entry_history"
}

// ============================================================
// Analytics Tables
// ============================================================

type QueueAnalytics struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	QueueEntryID       uint      `gorm:"not null;index" json:"queue_entry_id"`
	EventType          string    `gorm:"size:20;not null" json:"event_type"`
	CounterID          *uint     `json:"counter_id"`
	WaitTimeMinutes    *float64  `gorm:"type:decimal(10,2)" json:"wait_time_minutes"`
	ServiceTimeMinutes *float64  `gorm:"type:decimal(10,2)" json:"service_time_minutes"`
	IsPriority         bool      `gorm:"default:false" json:"is_priority"`
	Reason             string    `gorm:"size:255" json:"reason"`
	OccurredAt         time.Time `gorm:"not null;index" json:"occurred_at"`
}

func (QueueAnalytics) TableName() string {
	return "queue_analytics"
}

type DailyQueueStat struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	StatDate          time.Time `gorm:"type:date;uniqueIndex;not null" json:"stat_date"`
	TotalCalled       int64     `json:"total_called"`
	TotalCompleted    int64     `json:"total_completed"`
	TotalCancelled    int64     `json:"total_cancelled"`
	PriorityServed    int64     `json:"priority_served"`
	AvgWaitMinutes    float64   `gorm:"type:decimal(10,2)" json:"avg_wait_minutes"`
	AvgServiceMinutes float64   `gorm:"type:decimal(10,2)" json:"avg_service_minutes"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailyQueueStat) TableName() string {
	return "daily_queue_stats"
}
