package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"legalcrm/internal/models"
)

// CountActiveOrders counts orders currently in processing
func (s *Store) CountActiveOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE status = $1", models.OrderStatusProcessing)
	return count, err
}

// CountOpenItems counts items outside the terminal statuses
func (s *Store) CountOpenItems(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM service_items WHERE status NOT IN ('READY', 'DELIVERED')")
	return count, err
}

// CountUpcomingDeadlines counts items whose deadline falls within the
// next seven days.
func (s *Store) CountUpcomingDeadlines(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM service_items
		WHERE deadline >= $1 AND deadline <= $2`,
		now, now.Add(7*24*time.Hour))
	return count, err
}

// SumOrderTotals sums total_amount and total_margin over all orders in
// the given currency.
func (s *Store) SumOrderTotals(ctx context.Context, currency models.Currency) (revenue, margin decimal.Decimal, err error) {
	var row struct {
		Revenue decimal.Decimal `db:"revenue"`
		Margin  decimal.Decimal `db:"margin"`
	}
	err = s.db.GetContext(ctx, &row, `
		SELECT COALESCE(SUM(total_amount), 0) AS revenue,
			COALESCE(SUM(total_margin), 0) AS margin
		FROM orders WHERE currency = $1`, currency)
	return row.Revenue, row.Margin, err
}
