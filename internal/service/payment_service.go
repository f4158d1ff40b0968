package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"legalcrm/internal/broker"
	"legalcrm/internal/errs"
	"legalcrm/internal/models"
	"legalcrm/internal/store"
	"legalcrm/internal/util"
)

// PaymentService registers client payments against orders and keeps
// the order's payment status current.
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	activity       *ActivityRecorder
	logger         *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher, activity *ActivityRecorder) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		activity:       activity,
		logger:         util.GetLogger(),
	}
}

// RegisterPaymentRequest represents a payment registration
type RegisterPaymentRequest struct {
	Amount             decimal.Decimal      `json:"amount"`
	Currency           models.Currency      `json:"currency"`
	Method             models.PaymentMethod `json:"method"`
	DestinationAccount models.Account       `json:"destination_account"`
	Notes              string               `json:"notes"`
}

// RegisterPayment creates a payment under an order and recomputes
// total_paid and payment_status. The amount's sign and a currency
// mismatch with the order are intentionally not checked; corrections
// are entered as negative payments in practice.
func (ps *PaymentService) RegisterPayment(ctx context.Context, orderID int64, req *RegisterPaymentRequest, actingUser *int64) (*models.Payment, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.RegisterPayment")
	defer span.End()

	order, err := ps.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = order.Currency
	}
	if !currency.Valid() {
		return nil, errs.NewValidationError("currency", fmt.Sprintf("unknown currency %q", currency))
	}
	method := req.Method
	if method == "" {
		method = models.MethodTransfer
	}
	if !method.Valid() {
		return nil, errs.NewValidationError("method", fmt.Sprintf("unknown payment method %q", method))
	}
	account := req.DestinationAccount
	if account == "" {
		account = models.AccountSpain
	}
	if !account.Valid() {
		return nil, errs.NewValidationError("destination_account", fmt.Sprintf("unknown account %q", account))
	}

	payment := &models.Payment{
		OrderID:            orderID,
		Amount:             req.Amount,
		Currency:           currency,
		Method:             method,
		DestinationAccount: account,
		Notes:              req.Notes,
	}

	if err := ps.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	util.PaymentsRegisteredTotal.WithLabelValues(string(method)).Inc()
	ps.logger.Info("Payment registered",
		zap.Int64("order_id", orderID),
		zap.Int64("payment_id", payment.ID),
		zap.String("amount", payment.Amount.String()),
		zap.String("currency", string(currency)))

	_, _ = ps.activity.Record(ctx, orderID, actingUser, models.ActionPayment,
		fmt.Sprintf("Payment registered: %s %s", payment.Amount.StringFixed(2), currency),
		models.Metadata{
			"payment_id": models.MetaNumber(float64(payment.ID)),
			"method":     models.MetaString(string(method)),
		})

	// reload for the recomputed payment status
	updated, err := ps.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	event := &models.PaymentRegisteredEvent{
		BaseEvent:     newBaseEvent(models.EventTypePaymentRegistered),
		OrderID:       orderID,
		PaymentID:     payment.ID,
		Amount:        payment.Amount,
		Currency:      currency,
		Method:        method,
		PaymentStatus: updated.PaymentStatus,
	}
	if err := ps.eventPublisher.PublishPaymentRegistered(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentRegistered event", zap.Error(err))
	}

	return payment, nil
}

// SendReceipt performs the receipt side effect for a payment: marks it
// sent and leaves an EMAIL audit entry. Actual delivery belongs to an
// external system.
func (ps *PaymentService) SendReceipt(ctx context.Context, orderID, paymentID int64) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.SendReceipt")
	defer span.End()

	if err := ps.store.MarkReceiptSent(ctx, paymentID); err != nil {
		return fmt.Errorf("failed to mark receipt sent: %w", err)
	}

	_, err := ps.activity.Record(ctx, orderID, nil, models.ActionEmail,
		"Payment receipt sent to client",
		models.Metadata{"payment_id": models.MetaNumber(float64(paymentID))})
	return err
}
