package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"legalcrm/internal/models"
)

func TestPhasesMinjusPaths(t *testing.T) {
	phases := Phases(models.LegalizationMinjus, models.DestinationInternational)
	assert.Equal(t, []models.ItemStatus{
		models.StatusInit, models.StatusMinjusOut, models.StatusSentSpain,
		models.StatusSentClient, models.StatusDelivered,
	}, phases)

	phases = Phases(models.LegalizationMinjus, models.DestinationHavana)
	assert.Equal(t, []models.ItemStatus{
		models.StatusInit, models.StatusMinjusOut, models.StatusReadyPickup, models.StatusDelivered,
	}, phases)

	phases = Phases(models.LegalizationMinjus, models.DestinationCamaguey)
	assert.Equal(t, []models.ItemStatus{
		models.StatusInit, models.StatusMinjusOut, models.StatusSentCamaguey,
		models.StatusReadyPickup, models.StatusDelivered,
	}, phases)
}

func TestPhasesConsulateStartsAtPendingReceive(t *testing.T) {
	for _, dest := range []models.Destination{
		models.DestinationInternational, models.DestinationHavana, models.DestinationCamaguey,
	} {
		phases := Phases(models.LegalizationConsulate, dest)
		assert.Equal(t, models.StatusPendingReceive, phases[0], "destination %s", dest)
		assert.Equal(t, models.StatusDelivered, phases[len(phases)-1])
	}
}

func TestPhasesCombinedPathIncludesBothAuthorities(t *testing.T) {
	phases := Phases(models.LegalizationMinjusConsulate, models.DestinationInternational)
	assert.Contains(t, phases, models.StatusMinjusOut)
	assert.Contains(t, phases, models.StatusConsulateOut)
}

func TestPhasesFallback(t *testing.T) {
	// visas and shipping carry no legalization type
	assert.Equal(t, []models.ItemStatus{models.StatusInit, models.StatusDelivered},
		Phases("", models.DestinationHavana))
	assert.Equal(t, []models.ItemStatus{models.StatusInit, models.StatusDelivered},
		Phases(models.LegalizationMinjus, ""))
}

func TestPhasesReturnsCopy(t *testing.T) {
	phases := Phases(models.LegalizationMinjus, models.DestinationHavana)
	phases[0] = models.StatusDelivered

	again := Phases(models.LegalizationMinjus, models.DestinationHavana)
	assert.Equal(t, models.StatusInit, again[0])
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, IsOverdue(&models.ServiceItem{Status: models.StatusMinjusOut, Deadline: &past}, now))
	assert.False(t, IsOverdue(&models.ServiceItem{Status: models.StatusMinjusOut, Deadline: &future}, now))
	assert.False(t, IsOverdue(&models.ServiceItem{Status: models.StatusMinjusOut}, now))

	// terminal items are never overdue, even past their deadline
	assert.False(t, IsOverdue(&models.ServiceItem{Status: models.StatusDelivered, Deadline: &past}, now))
	assert.False(t, IsOverdue(&models.ServiceItem{Status: models.StatusReady, Deadline: &past}, now))
}

func TestComputeDeadline(t *testing.T) {
	ref := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, ref.AddDate(0, 0, 3), ComputeDeadline(models.PriorityExpress, ref))
	assert.Equal(t, ref.AddDate(0, 0, 15), ComputeDeadline(models.PriorityNormal, ref))
	// unknown priorities fall back to the normal window
	assert.Equal(t, ref.AddDate(0, 0, 15), ComputeDeadline("", ref))
}
