package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalcrm/internal/models"
)

func TestUrgencyScore(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)

	assert.Equal(t, ScoreOverdue, UrgencyScore(&models.ServiceItem{Deadline: &past}, now))
	assert.Equal(t, ScoreOverdue, UrgencyScore(&models.ServiceItem{Deadline: &past, Priority: models.PriorityExpress}, now))
	assert.Equal(t, ScoreExpress, UrgencyScore(&models.ServiceItem{Deadline: &future, Priority: models.PriorityExpress}, now))
	assert.Equal(t, ScoreExpress, UrgencyScore(&models.ServiceItem{Priority: models.PriorityExpress}, now))
	assert.Equal(t, ScoreNormal, UrgencyScore(&models.ServiceItem{Deadline: &future, Priority: models.PriorityNormal}, now))
}

func TestBuildQueueOrdersByScoreThenDeadline(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	overdue1 := now.Add(-48 * time.Hour)
	overdue2 := now.Add(-time.Hour)
	soon := now.Add(24 * time.Hour)
	later := now.Add(72 * time.Hour)

	items := []models.ServiceItem{
		{ID: 1, Priority: models.PriorityNormal, Deadline: &later},
		{ID: 2, Priority: models.PriorityExpress, Deadline: &soon},
		{ID: 3, Priority: models.PriorityNormal, Deadline: &overdue2},
		{ID: 4, Priority: models.PriorityNormal, Deadline: &soon},
		{ID: 5, Priority: models.PriorityExpress, Deadline: &overdue1},
	}

	queue := BuildQueue(items, now)
	require.Len(t, queue, 5)

	ids := make([]int64, len(queue))
	for i, item := range queue {
		ids[i] = item.ID
	}
	// overdue first (earliest deadline first), then express, then normal
	assert.Equal(t, []int64{5, 3, 2, 4, 1}, ids)
}

func TestBuildQueueNilDeadlinesSortLastInBand(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	soon := now.Add(24 * time.Hour)

	items := []models.ServiceItem{
		{ID: 1, Priority: models.PriorityExpress},
		{ID: 2, Priority: models.PriorityExpress, Deadline: &soon},
	}

	queue := BuildQueue(items, now)
	assert.Equal(t, int64(2), queue[0].ID)
	assert.Equal(t, int64(1), queue[1].ID)
}

func TestBuildQueueStable(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	soon := now.Add(24 * time.Hour)

	// same score, same deadline: input order is preserved
	items := []models.ServiceItem{
		{ID: 10, Priority: models.PriorityNormal, Deadline: &soon},
		{ID: 11, Priority: models.PriorityNormal, Deadline: &soon},
		{ID: 12, Priority: models.PriorityNormal, Deadline: &soon},
	}

	first := BuildQueue(items, now)
	second := BuildQueue(items, now)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(10), first[0].ID)
	assert.Equal(t, int64(11), first[1].ID)
	assert.Equal(t, int64(12), first[2].ID)
}

func TestBuildQueueDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	items := []models.ServiceItem{
		{ID: 1, Priority: models.PriorityNormal},
		{ID: 2, Priority: models.PriorityNormal, Deadline: &past},
	}

	_ = BuildQueue(items, now)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)
}
