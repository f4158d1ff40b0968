package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"legalcrm/internal/models"
	"legalcrm/internal/redisclient"
	"legalcrm/internal/store"
	"legalcrm/internal/util"
	"legalcrm/internal/workflow"
)

const (
	dashboardCachePrefix = "dashboard:stats"
	dashboardCacheTTL    = 30 * time.Second
)

// dashboardCacheKey keys the stats cache per currency so requests for
// different currencies do not evict each other.
func dashboardCacheKey(currency models.Currency) string {
	return fmt.Sprintf("%s:%s", dashboardCachePrefix, currency)
}

// DashboardService serves the operator-facing read models: the smart
// queue, the dashboard stats and the Kanban board.
type DashboardService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *store.Store, redis *redisclient.Client) *DashboardService {
	return &DashboardService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// QueueEntry is one ranked row of the smart queue
type QueueEntry struct {
	Item         models.ServiceItem `json:"item"`
	UrgencyScore int                `json:"urgency_score"`
	Overdue      bool               `json:"overdue"`
}

// SmartQueue ranks every open item by urgency for operator triage.
// Built fresh from the database on each call; the queue is a pure
// projection and holds no state of its own.
func (ds *DashboardService) SmartQueue(ctx context.Context) ([]QueueEntry, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.SmartQueue")
	defer span.End()

	start := time.Now()
	items, err := ds.store.ListOpenItems(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ranked := workflow.BuildQueue(items, now)

	entries := make([]QueueEntry, 0, len(ranked))
	for i := range ranked {
		entries = append(entries, QueueEntry{
			Item:         ranked[i],
			UrgencyScore: workflow.UrgencyScore(&ranked[i], now),
			Overdue:      workflow.IsOverdue(&ranked[i], now),
		})
	}

	util.QueueBuildLatency.Observe(time.Since(start).Seconds())
	util.QueueLength.Set(float64(len(entries)))
	return entries, nil
}

// DashboardStats is the aggregate snapshot shown on the landing page
type DashboardStats struct {
	ActiveOrders      int64           `json:"active_orders"`
	OpenItems         int64           `json:"open_items"`
	UpcomingDeadlines int64           `json:"upcoming_deadlines"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalMargin       decimal.Decimal `json:"total_margin"`
	Currency          models.Currency `json:"currency"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// Stats aggregates the dashboard counters, cached briefly in Redis so
// board refreshes don't hammer the database. Mutating services
// invalidate the cache, so the TTL only bounds staleness for writes
// that bypass this process.
func (ds *DashboardService) Stats(ctx context.Context, currency models.Currency) (*DashboardStats, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.Stats")
	defer span.End()

	if currency == "" {
		currency = models.CurrencyEUR
	}

	if ds.redis != nil {
		cached, found, err := ds.redis.GetCached(ctx, dashboardCacheKey(currency))
		if err != nil {
			ds.logger.Warn("Dashboard cache read failed", zap.Error(err))
		} else if found {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats := &DashboardStats{Currency: currency, GeneratedAt: time.Now()}

	var err error
	if stats.ActiveOrders, err = ds.store.CountActiveOrders(ctx); err != nil {
		return nil, err
	}
	if stats.OpenItems, err = ds.store.CountOpenItems(ctx); err != nil {
		return nil, err
	}
	if stats.UpcomingDeadlines, err = ds.store.CountUpcomingDeadlines(ctx, time.Now()); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, stats.TotalMargin, err = ds.store.SumOrderTotals(ctx, currency); err != nil {
		return nil, err
	}

	if ds.redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := ds.redis.SetCached(ctx, dashboardCacheKey(currency), string(data), dashboardCacheTTL); err != nil {
				ds.logger.Warn("Dashboard cache write failed", zap.Error(err))
			}
		}
	}

	return stats, nil
}

// KanbanColumn is one stage of the board with its orders
type KanbanColumn struct {
	Status models.GlobalStatus `json:"status"`
	Label  string              `json:"label"`
	Orders []models.Order      `json:"orders"`
}

// Kanban groups orders into the six board columns, newest first within
// each column. Columns with no matching orders are still returned, so
// the board shape is fixed.
func (ds *DashboardService) Kanban(ctx context.Context, filter store.OrderFilter) ([]KanbanColumn, error) {
	ctx, span := util.StartSpan(ctx, "DashboardService.Kanban")
	defer span.End()

	columns := make([]KanbanColumn, 0, len(models.GlobalStatuses))
	for _, status := range models.GlobalStatuses {
		orders, err := ds.store.ListOrdersByGlobalStatus(ctx, status, filter)
		if err != nil {
			return nil, err
		}
		if orders == nil {
			orders = []models.Order{}
		}
		columns = append(columns, KanbanColumn{
			Status: status,
			Label:  status.Label(),
			Orders: orders,
		})
	}
	return columns, nil
}
