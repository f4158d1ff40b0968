package store

import (
	"context"
	"fmt"

	"legalcrm/internal/models"
)

// InsertActivity appends an activity log entry. Entries are append-only;
// there is no update or delete path.
func (s *Store) InsertActivity(ctx context.Context, entry *models.ActivityLog) error {
	err := s.db.GetContext(ctx, entry, `
		INSERT INTO activity_logs (order_id, user_id, action_type, description, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, timestamp`,
		entry.OrderID, entry.UserID, entry.ActionType, entry.Description, entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}
	return nil
}

// ListActivityByOrder retrieves an order's activity trail, newest first
func (s *Store) ListActivityByOrder(ctx context.Context, orderID int64) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM activity_logs WHERE order_id = $1 ORDER BY timestamp DESC, id DESC", orderID)
	return logs, err
}
