package workflow

import (
	"sort"
	"time"

	"legalcrm/internal/models"
)

// Urgency scores for queue ranking
const (
	ScoreOverdue = 3
	ScoreExpress = 2
	ScoreNormal  = 1
)

// UrgencyScore ranks an item for operator triage: overdue beats express
// beats normal.
func UrgencyScore(item *models.ServiceItem, now time.Time) int {
	switch {
	case item.Deadline != nil && item.Deadline.Before(now):
		return ScoreOverdue
	case item.Priority == models.PriorityExpress:
		return ScoreExpress
	default:
		return ScoreNormal
	}
}

// BuildQueue ranks open items by urgency score descending, then
// deadline ascending. Items with equal score and deadline keep their
// input order, so repeated calls over the same snapshot are stable.
// Items without a deadline sort after dated ones within their score
// band. The input slice is not modified.
func BuildQueue(items []models.ServiceItem, now time.Time) []models.ServiceItem {
	queue := make([]models.ServiceItem, len(items))
	copy(queue, items)

	sort.SliceStable(queue, func(i, j int) bool {
		si, sj := UrgencyScore(&queue[i], now), UrgencyScore(&queue[j], now)
		if si != sj {
			return si > sj
		}
		di, dj := queue[i].Deadline, queue[j].Deadline
		switch {
		case di == nil && dj == nil:
			return false
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})

	return queue
}
