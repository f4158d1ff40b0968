package service

import (
	"context"

	"go.uber.org/zap"

	"legalcrm/internal/models"
	"legalcrm/internal/store"
	"legalcrm/internal/util"
)

// ActivityRecorder appends audit entries for state-changing operations.
// Every mutating service calls it after the mutation committed, never
// before, so the trail only reflects committed state.
type ActivityRecorder struct {
	store  *store.Store
	logger *zap.Logger
}

// NewActivityRecorder creates a new activity recorder
func NewActivityRecorder(store *store.Store) *ActivityRecorder {
	return &ActivityRecorder{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Record appends one audit entry to an order's trail. A failure to
// record is logged and returned but the caller's mutation already
// committed; callers surface the entry when they need it and otherwise
// log and continue.
func (ar *ActivityRecorder) Record(ctx context.Context, orderID int64, actingUser *int64,
	action models.ActionType, description string, metadata models.Metadata) (*models.ActivityLog, error) {

	entry := &models.ActivityLog{
		OrderID:     orderID,
		UserID:      actingUser,
		ActionType:  action,
		Description: description,
		Metadata:    metadata,
	}

	if err := ar.store.InsertActivity(ctx, entry); err != nil {
		ar.logger.Error("Failed to record activity",
			zap.Int64("order_id", orderID),
			zap.String("action", string(action)),
			zap.Error(err))
		return nil, err
	}

	util.ActivityEntriesTotal.WithLabelValues(string(action)).Inc()
	return entry, nil
}
