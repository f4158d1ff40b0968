package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"legalcrm/internal/broker"
	"legalcrm/internal/models"
	"legalcrm/internal/redisclient"
	"legalcrm/internal/service"
	"legalcrm/internal/util"
)

// NotificationWorker consumes domain events and performs the
// client-facing follow-ups: receipts after payments and an audit note
// when an item reaches a terminal status. Delivery itself is a no-op
// here; the mail gateway is external and only the audit trail is owned
// by this service.
type NotificationWorker struct {
	consumer *broker.Consumer
	payments *service.PaymentService
	activity *service.ActivityRecorder
	redis    *redisclient.Client
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, payments *service.PaymentService, activity *service.ActivityRecorder, redis *redisclient.Client) *NotificationWorker {
	return &NotificationWorker{
		consumer: consumer,
		payments: payments,
		activity: activity,
		redis:    redis,
		logger:   util.GetLogger(),
	}
}

// Start begins consuming events in a background goroutine
func (w *NotificationWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	handler := broker.NewEventHandler()
	handler.OnPaymentRegistered(w.handlePaymentRegistered)
	handler.OnItemStatusChanged(w.handleItemStatusChanged)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.StartConsuming(ctx, handler.HandleMessage); err != nil && ctx.Err() == nil {
			w.logger.Error("Notification consumer stopped", zap.Error(err))
		}
	}()

	w.logger.Info("Notification worker started")
}

// Stop cancels the consumer loop and waits for it to drain
func (w *NotificationWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	if err := w.consumer.Close(); err != nil {
		w.logger.Error("Failed to close consumer", zap.Error(err))
	}
	w.logger.Info("Notification worker stopped")
}

func (w *NotificationWorker) handlePaymentRegistered(ctx context.Context, event *models.PaymentRegisteredEvent) error {
	// at-least-once delivery: the lock keeps a redelivered event from
	// producing a second receipt entry
	if w.redis != nil {
		lockKey := fmt.Sprintf("receipt:%d", event.PaymentID)
		acquired, err := w.redis.AcquireLock(ctx, lockKey, 24*time.Hour)
		if err != nil {
			w.logger.Warn("Receipt lock check failed, proceeding", zap.Error(err))
		} else if !acquired {
			w.logger.Info("Receipt already sent, skipping",
				zap.Int64("payment_id", event.PaymentID))
			return nil
		}
	}

	w.logger.Info("Sending payment receipt",
		zap.Int64("order_id", event.OrderID),
		zap.Int64("payment_id", event.PaymentID))
	return w.payments.SendReceipt(ctx, event.OrderID, event.PaymentID)
}

func (w *NotificationWorker) handleItemStatusChanged(ctx context.Context, event *models.ItemStatusChangedEvent) error {
	if !event.NewStatus.Terminal() {
		return nil
	}

	w.logger.Info("Notifying client of completed service",
		zap.Int64("order_id", event.OrderID),
		zap.Int64("item_id", event.ItemID),
		zap.String("status", string(event.NewStatus)))

	_, err := w.activity.Record(ctx, event.OrderID, nil, models.ActionEmail,
		"Completion notification sent to client",
		models.Metadata{
			"item_id": models.MetaNumber(float64(event.ItemID)),
			"status":  models.MetaString(string(event.NewStatus)),
		})
	return err
}
