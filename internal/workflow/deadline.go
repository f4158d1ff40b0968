package workflow

import (
	"time"

	"legalcrm/internal/models"
)

// SLA windows per priority
const (
	ExpressSLA = 3 * 24 * time.Hour
	NormalSLA  = 15 * 24 * time.Hour
)

// ComputeDeadline returns the due date for an item created at ref with
// the given priority. Applied only when no explicit deadline was
// supplied; an explicit deadline is never recomputed.
func ComputeDeadline(priority models.Priority, ref time.Time) time.Time {
	if priority == models.PriorityExpress {
		return ref.Add(ExpressSLA)
	}
	return ref.Add(NormalSLA)
}
