// Package workflow holds the pure domain rules around service item
// progress: the phase table per (legalization type, delivery
// destination), the SLA deadline policy, the overdue predicate and the
// smart-queue ranking. Nothing here touches storage; everything is
// deterministic given its inputs.
package workflow

import (
	"time"

	"legalcrm/internal/models"
)

// phaseTable maps legalization type and delivery destination to the
// intended sequence of statuses. The sequence is advisory metadata for
// progress display; the services do not enforce transitions against it.
var phaseTable = map[models.LegalizationType]map[models.Destination][]models.ItemStatus{
	models.LegalizationMinjus: {
		models.DestinationInternational: {models.StatusInit, models.StatusMinjusOut, models.StatusSentSpain, models.StatusSentClient, models.StatusDelivered},
		models.DestinationHavana:        {models.StatusInit, models.StatusMinjusOut, models.StatusReadyPickup, models.StatusDelivered},
		models.DestinationCamaguey:      {models.StatusInit, models.StatusMinjusOut, models.StatusSentCamaguey, models.StatusReadyPickup, models.StatusDelivered},
	},
	models.LegalizationConsulate: {
		models.DestinationInternational: {models.StatusPendingReceive, models.StatusReceived, models.StatusLegalized, models.StatusSentSpain, models.StatusSentClient, models.StatusDelivered},
		models.DestinationHavana:        {models.StatusPendingReceive, models.StatusReceived, models.StatusLegalized, models.StatusReadyPickup, models.StatusDelivered},
		models.DestinationCamaguey:      {models.StatusPendingReceive, models.StatusReceived, models.StatusLegalized, models.StatusSentCamaguey, models.StatusReadyPickup, models.StatusDelivered},
	},
	models.LegalizationMinjusConsulate: {
		models.DestinationInternational: {models.StatusInit, models.StatusMinjusOut, models.StatusConsulateOut, models.StatusSentSpain, models.StatusSentClient, models.StatusDelivered},
		models.DestinationHavana:        {models.StatusInit, models.StatusMinjusOut, models.StatusConsulateOut, models.StatusReadyPickup, models.StatusDelivered},
		models.DestinationCamaguey:      {models.StatusInit, models.StatusMinjusOut, models.StatusConsulateOut, models.StatusSentCamaguey, models.StatusReadyPickup, models.StatusDelivered},
	},
}

// fallbackPhases is the minimal two-stage path for undefined combinations
// (visas, shipping, unset legalization type).
var fallbackPhases = []models.ItemStatus{models.StatusInit, models.StatusDelivered}

// Phases returns the ordered status sequence for the given legalization
// type and delivery destination. The returned slice is a copy.
func Phases(legType models.LegalizationType, dest models.Destination) []models.ItemStatus {
	phases, ok := phaseTable[legType][dest]
	if !ok {
		phases = fallbackPhases
	}
	out := make([]models.ItemStatus, len(phases))
	copy(out, phases)
	return out
}

// IsOverdue reports whether the item is past its deadline. Items without
// a deadline and items in a terminal status are never overdue. Derived
// on read, never stored.
func IsOverdue(item *models.ServiceItem, now time.Time) bool {
	if item.Deadline == nil || item.Status.Terminal() {
		return false
	}
	return now.After(*item.Deadline)
}
