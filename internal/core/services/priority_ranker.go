package services

import (
	"sort"

	"shopserve/internal/core/domain"
)

// RankedEntry is a waiting entry with its derived queue position
type RankedEntry struct {
	Entry                domain.QueueEntry `json:"entry"`
	Position             int               `json:"position"`
	EstimatedWaitMinutes int               `json:"estimated_wait_minutes"`
}

// PriorityRanker orders waiting entries. It holds no queue state; every call
// re-derives the order from the entries it is given.
type PriorityRanker struct {
	averageServiceMinutes int
}

// NewPriorityRanker creates a ranker using the configured average service time
func NewPriorityRanker(averageServiceMinutes int) *PriorityRanker {
	if averageServiceMinutes < 0 {
		averageServiceMinutes = 0
	}
	return &PriorityRanker{averageServiceMinutes: averageServiceMinutes}
}

// Less is the total order: manual position, then priority tier, then arrival, then id
func Less(a, b domain.QueueEntry) bool {
	switch {
	case a.ManualPosition != nil && b.ManualPosition != nil:
		if *a.ManualPosition != *b.ManualPosition {
			return *a.ManualPosition < *b.ManualPosition
		}
	case a.ManualPosition != nil:
		return true
	case b.ManualPosition != nil:
		return false
	}

	if at, bt := a.Priority.Tier(), b.Priority.Tier(); at != bt {
		return at < bt
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Sort returns a sorted copy of entries
func (r *PriorityRanker) Sort(entries []domain.QueueEntry) []domain.QueueEntry {
	sorted := make([]domain.QueueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return Less(sorted[i], sorted[j]) })
	return sorted
}

// Rank assigns 1-based positions and estimated waits
func (r *PriorityRanker) Rank(entries []domain.QueueEntry) []RankedEntry {
	sorted := r.Sort(entries)
	ranked := make([]RankedEntry, len(sorted))
	for i, e := range sorted {
		ranked[i] = RankedEntry{
			Entry:                e,
			Position:             i + 1,
			EstimatedWaitMinutes: r.EstimatedWait(i + 1),
		}
	}
	return ranked
}

// Next returns the entry that should be served first
func (r *PriorityRanker) Next(entries []domain.QueueEntry) (domain.QueueEntry, bool) {
	if len(entries) == 0 {
		return domain.QueueEntry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if Less(e, best) {
			best = e
		}
	}
	return best, true
}

// EstimatedWait is (position-1) × average service minutes
func (r *PriorityRanker) EstimatedWait(position int) int {
	if position < 1 {
		return 0
	}
	return (position - 1) * r.averageServiceMinutes
}

// PositionOf finds the ranked position of entryID, if it is present
func (r *PriorityRanker) PositionOf(entries []domain.QueueEntry, entryID uint) (RankedEntry, bool) {
	for _, re := range r.Rank(entries) {
		if re.Entry.ID == entryID {
			return re, true
		}
	}
	return RankedEntry{}, false
}
