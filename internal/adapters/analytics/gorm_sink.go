// Package analytics persists queue service-time analytics
package analytics

import (
	"context"
	"fmt"
	"log"
	"time"

	"shopserve/internal/adapters/persistence/models"
	"shopserve/internal/core/domain"
	"shopserve/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSink writes analytics rows and daily aggregates to MySQL
type GormSink struct {
	db *gorm.DB
}

// NewGormSink creates a new sink
func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

var _ ports.AnalyticsSink = (*GormSink)(nil)

func (s *GormSink) RecordQueueEvent(ctx context.Context, event ports.QueueAnalyticsEvent) error {
	row := &models.QueueAnalytics{
		QueueEntryID:       event.EntryID,
		EventType:          event.EventType,
		CounterID:          event.CounterID,
		WaitTimeMinutes:    event.WaitTimeMinutes,
		ServiceTimeMinutes: event.ServiceTimeMinutes,
		IsPriority:         event.IsPriority,
		Reason:             event.Reason,
		OccurredAt:         event.OccurredAt,
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("record queue analytics: %w", err)
	}
	return nil
}

type dailyAggregate struct {
	TotalCalled    int64
	TotalCompleted int64
	TotalCancelled int64
	PriorityServed int64
	AvgWait        *float64
	AvgService     *float64
}

const dailyAggregateSelect = `
COALESCE(SUM(CASE WHEN event_type = 'called' THEN 1 ELSE 0 END), 0) AS total_called,
COALESCE(SUM(CASE WHEN event_type = 'completed' THEN 1 ELSE 0 END), 0) AS total_completed,
COALESCE(SUM(CASE WHEN event_type = 'cancelled' THEN 1 ELSE 0 END), 0) AS total_cancelled,
COALESCE(SUM(CASE WHEN event_type = 'completed' AND is_priority THEN 1 ELSE 0 END), 0) AS priority_served,
AVG(wait_time_minutes) AS avg_wait,
AVG(service_time_minutes) AS avg_service`

// RecomputeDailyAggregates rebuilds the daily_queue_stats row for day
func (s *GormSink) RecomputeDailyAggregates(ctx context.Context, day time.Time) error {
	start := domain.StartOfDay(day)
	end := start.AddDate(0, 0, 1)

	var agg dailyAggregate
	err := s.db.WithContext(ctx).
		Model(&models.QueueAnalytics{}).
		Select(dailyAggregateSelect).
		Where("occurred_at >= ? AND occurred_at < ?", start, end).
		Scan(&agg).Error
	if err != nil {
		return fmt.Errorf("aggregate queue analytics: %w", err)
	}

	stat := &models.DailyQueueStat{
		StatDate:          start,
		TotalCalled:       agg.TotalCalled,
		TotalCompleted:    agg.TotalCompleted,
		TotalCancelled:    agg.TotalCancelled,
		PriorityServed:    agg.PriorityServed,
		AvgWaitMinutes:    deref(agg.AvgWait),
		AvgServiceMinutes: deref(agg.AvgService),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "stat_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_called", "total_completed", "total_cancelled", "priority_served",
			"avg_wait_minutes", "avg_service_minutes", "updated_at",
		}),
	}).Create(stat).Error
	if err != nil {
		return fmt.Errorf("upsert daily queue stats: %w", err)
	}

	log.Printf("📊 Daily queue stats %s: called=%d completed=%d cancelled=%d",
		start.Format(time.DateOnly), stat.TotalCalled, stat.TotalCompleted, stat.TotalCancelled)
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
