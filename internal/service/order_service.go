package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"legalcrm/internal/broker"
	"legalcrm/internal/errs"
	"legalcrm/internal/models"
	"legalcrm/internal/redisclient"
	"legalcrm/internal/store"
	"legalcrm/internal/util"
	"legalcrm/internal/workflow"
)

// OrderService is the order/item lifecycle controller: it orchestrates
// creation, item addition, status transitions and order-level updates,
// triggering ledger recomputation and audit recording.
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	activity       *ActivityRecorder
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	activity *ActivityRecorder,
) *OrderService {
	return &OrderService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		activity:       activity,
		logger:         util.GetLogger(),
	}
}

// ServiceItemRequest represents one item in a create/add request
type ServiceItemRequest struct {
	ServiceType         models.ServiceType      `json:"service_type"`
	DocumentType        models.DocumentType     `json:"document_type"`
	LegalizationType    models.LegalizationType `json:"legalization_type"`
	TitularName         string                  `json:"titular_name"`
	DeliveryDestination models.Destination      `json:"delivery_destination"`
	Responsible         models.Responsible      `json:"responsible"`
	LogisticsStatus     models.LogisticsStatus  `json:"logistics_status"`
	CurrentLocation     models.Location         `json:"current_location"`
	Cost                decimal.Decimal         `json:"cost"`
	Price               decimal.Decimal         `json:"price"`
	Priority            models.Priority         `json:"priority"`
	Deadline            *time.Time              `json:"deadline,omitempty"`
	Notes               string                  `json:"notes"`
}

// CreateOrderRequest represents a smart-cart request: an order together
// with its initial service items.
type CreateOrderRequest struct {
	ClientID int64                `json:"client_id" binding:"required"`
	Currency models.Currency      `json:"currency"`
	Notes    string               `json:"notes"`
	Items    []ServiceItemRequest `json:"items"`
}

// OrderDetail is the full aggregate view of one order
type OrderDetail struct {
	Order    *models.Order        `json:"order"`
	Client   *models.Client       `json:"client"`
	Items    []models.ServiceItem `json:"items"`
	Payments []models.Payment     `json:"payments"`
	Activity []models.ActivityLog `json:"activity"`
}

// CreateOrder creates an order with its initial items in one atomic
// step: on any item-level failure no partial order remains. Records a
// single SERVICE_ADDED entry summarizing the item count.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest, actingUser *int64) (*OrderDetail, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	client, err := s.store.GetClientByID(ctx, req.ClientID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_client").Inc()
		if errsIsNotFound(err) {
			return nil, errs.NewValidationError("client_id", fmt.Sprintf("client %d does not exist", req.ClientID))
		}
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = models.CurrencyEUR
	}
	if !currency.Valid() {
		return nil, errs.NewValidationError("currency", fmt.Sprintf("unknown currency %q", currency))
	}

	now := time.Now()
	items := make([]*models.ServiceItem, 0, len(req.Items))
	for i, itemReq := range req.Items {
		item, err := buildItem(&itemReq, now)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("invalid_item").Inc()
			return nil, prefixValidation(err, fmt.Sprintf("items[%d]", i))
		}
		items = append(items, item)
	}

	order := &models.Order{
		FriendlyID:    NewFriendlyID(client.FullName, now),
		ClientID:      client.ID,
		CreatedBy:     actingUser,
		Status:        models.OrderStatusPending,
		GlobalStatus:  models.GlobalStatusNewRequest,
		PaymentStatus: models.PaymentStatusPending,
		Currency:      currency,
		Notes:         req.Notes,
	}

	err = s.store.CreateOrderWithItems(ctx, order, items, func() string {
		return NewFriendlyID(client.FullName, now)
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.String("friendly_id", order.FriendlyID),
		zap.Int("items", len(items)))

	_, _ = s.activity.Record(ctx, order.ID, actingUser, models.ActionServiceAdded,
		fmt.Sprintf("Order created with %d services", len(items)), nil)

	s.publishOrderCreated(ctx, order, len(items))
	s.invalidateDashboard(ctx)

	return s.GetOrderDetail(ctx, order.ID)
}

// AddItem creates an item under an existing order, applying the
// deadline policy when no deadline was supplied.
func (s *OrderService) AddItem(ctx context.Context, orderID int64, req *ServiceItemRequest, actingUser *int64) (*models.ServiceItem, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AddItem")
	defer span.End()

	if _, err := s.store.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	item, err := buildItem(req, time.Now())
	if err != nil {
		return nil, err
	}
	item.OrderID = orderID

	if err := s.store.AddServiceItem(ctx, item); err != nil {
		return nil, err
	}

	util.ServiceItemsAddedTotal.Inc()
	s.logger.Info("Service item added",
		zap.Int64("order_id", orderID),
		zap.Int64("item_id", item.ID))

	_, _ = s.activity.Record(ctx, orderID, actingUser, models.ActionServiceAdded,
		fmt.Sprintf("Service added: %s", item.ServiceType.Label()), nil)

	event := &models.ServiceAddedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeServiceAdded),
		OrderID:     orderID,
		ItemID:      item.ID,
		ServiceType: item.ServiceType,
		Price:       item.Price,
	}
	if err := s.eventPublisher.PublishServiceAdded(ctx, event); err != nil {
		s.logger.Error("Failed to publish ServiceAdded event", zap.Error(err))
	}
	s.invalidateDashboard(ctx)

	return item, nil
}

// ItemStatusPatch carries the optional fields of a status-change
// request; nil fields are left untouched.
type ItemStatusPatch struct {
	Status             *models.ItemStatus `json:"status,omitempty"`
	CurrentLocation    *models.Location   `json:"current_location,omitempty"`
	AssignedTramitador *int64             `json:"assigned_tramitador,omitempty"`
	PhaseDates         models.PhaseDates  `json:"phase_dates,omitempty"`
}

// ChangeItemStatus applies any subset of status, location, assignee and
// phase dates to an item and records the old → new transition. The
// workflow table is deliberately not consulted: any status is reachable
// from any other.
func (s *OrderService) ChangeItemStatus(ctx context.Context, itemID int64, patch *ItemStatusPatch, actingUser *int64) (*models.ServiceItem, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ChangeItemStatus")
	defer span.End()

	item, err := s.store.GetServiceItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	oldStatus := item.Status

	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, errs.NewValidationError("status", fmt.Sprintf("unknown status %q", *patch.Status))
		}
		item.Status = *patch.Status
	}
	if patch.CurrentLocation != nil {
		if !patch.CurrentLocation.Valid() {
			return nil, errs.NewValidationError("current_location", fmt.Sprintf("unknown location %q", *patch.CurrentLocation))
		}
		item.CurrentLocation = *patch.CurrentLocation
	}
	if patch.AssignedTramitador != nil {
		item.AssignedTramitador = patch.AssignedTramitador
	}
	if patch.PhaseDates != nil {
		item.PhaseDates = patch.PhaseDates
	}

	item.RecomputeMargin()
	if err := s.store.UpdateServiceItem(ctx, item); err != nil {
		return nil, err
	}

	util.ItemStatusChangesTotal.WithLabelValues(string(item.Status)).Inc()

	_, _ = s.activity.Record(ctx, item.OrderID, actingUser, models.ActionStatusChange,
		fmt.Sprintf("Service '%s': %s → %s", item.TitularName, oldStatus.Label(), item.Status.Label()), nil)

	event := &models.ItemStatusChangedEvent{
		BaseEvent: newBaseEvent(models.EventTypeItemStatusChanged),
		OrderID:   item.OrderID,
		ItemID:    item.ID,
		OldStatus: oldStatus,
		NewStatus: item.Status,
	}
	if err := s.eventPublisher.PublishItemStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish ItemStatusChanged event", zap.Error(err))
	}
	s.invalidateDashboard(ctx)

	return item, nil
}

// OrderPatch carries the optional order-level field changes
type OrderPatch struct {
	GlobalStatus *models.GlobalStatus `json:"global_status,omitempty"`
	AssignedTo   *int64               `json:"assigned_to,omitempty"`
	Notes        *string              `json:"notes,omitempty"`
}

// UpdateOrderFields applies global status, assignee and notes changes.
// All changes in one call produce a single combined audit entry with
// the change descriptions joined by "; ". Notes changes alone are not
// logged.
func (s *OrderService) UpdateOrderFields(ctx context.Context, orderID int64, patch *OrderPatch, actingUser *int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrderFields")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var changes []string
	if patch.GlobalStatus != nil && *patch.GlobalStatus != order.GlobalStatus {
		if !patch.GlobalStatus.Valid() {
			return nil, errs.NewValidationError("global_status", fmt.Sprintf("unknown status %q", *patch.GlobalStatus))
		}
		changes = append(changes, fmt.Sprintf("Status changed from '%s' to '%s'",
			order.GlobalStatus.Label(), patch.GlobalStatus.Label()))
		order.GlobalStatus = *patch.GlobalStatus
	}
	if patch.AssignedTo != nil {
		order.AssignedTo = patch.AssignedTo
		changes = append(changes, "Assigned to manager")
	}
	if patch.Notes != nil {
		order.Notes = *patch.Notes
	}

	if err := s.store.UpdateOrderFields(ctx, order); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		_, _ = s.activity.Record(ctx, order.ID, actingUser, models.ActionStatusChange,
			strings.Join(changes, "; "), nil)
	}

	event := &models.OrderUpdatedEvent{
		BaseEvent:    newBaseEvent(models.EventTypeOrderUpdated),
		OrderID:      order.ID,
		GlobalStatus: order.GlobalStatus,
	}
	if err := s.eventPublisher.PublishOrderUpdated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderUpdated event", zap.Error(err))
	}
	s.invalidateDashboard(ctx)

	return order, nil
}

// RequestPayment performs the payment-request side effect. Actual email
// delivery belongs to an external system; here it only leaves an EMAIL
// audit entry.
func (s *OrderService) RequestPayment(ctx context.Context, orderID int64, actingUser *int64) error {
	ctx, span := util.StartSpan(ctx, "OrderService.RequestPayment")
	defer span.End()

	if _, err := s.store.GetOrderByID(ctx, orderID); err != nil {
		return err
	}

	_, err := s.activity.Record(ctx, orderID, actingUser, models.ActionEmail,
		"Payment request sent to client", nil)
	return err
}

// GenerateInvoice performs the invoice side effect: real PDF rendering
// belongs to an external system, so only a DOCUMENT_UPLOAD audit entry
// is recorded. Returns the order so the transport can name the file
// after its friendly id.
func (s *OrderService) GenerateInvoice(ctx context.Context, orderID int64, actingUser *int64) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GenerateInvoice")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	_, err = s.activity.Record(ctx, orderID, actingUser, models.ActionDocumentUpload,
		"Invoice generated", nil)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderDetail retrieves an order with its items, payments and
// activity trail.
func (s *OrderService) GetOrderDetail(ctx context.Context, orderID int64) (*OrderDetail, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	client, err := s.store.GetClientByID(ctx, order.ClientID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.ListPaymentsByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	activity, err := s.store.ListActivityByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{
		Order:    order,
		Client:   client,
		Items:    items,
		Payments: payments,
		Activity: activity,
	}, nil
}

// ListOrders retrieves orders, optionally filtered by client email
func (s *OrderService) ListOrders(ctx context.Context, clientEmail string) ([]models.Order, error) {
	return s.store.ListOrders(ctx, clientEmail)
}

// GetItem retrieves a service item by ID
func (s *OrderService) GetItem(ctx context.Context, itemID int64) (*models.ServiceItem, error) {
	return s.store.GetServiceItem(ctx, itemID)
}

// ListActivity retrieves an order's audit trail, newest first
func (s *OrderService) ListActivity(ctx context.Context, orderID int64) ([]models.ActivityLog, error) {
	if _, err := s.store.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.store.ListActivityByOrder(ctx, orderID)
}

// ItemProgress returns the advisory workflow phases for an item and
// its overdue flag, for progress rendering.
func (s *OrderService) ItemProgress(item *models.ServiceItem, now time.Time) ([]models.ItemStatus, bool) {
	return workflow.Phases(item.LegalizationType, item.DeliveryDestination), workflow.IsOverdue(item, now)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order, itemCount int) {
	event := &models.OrderCreatedEvent{
		BaseEvent:   newBaseEvent(models.EventTypeOrderCreated),
		OrderID:     order.ID,
		FriendlyID:  order.FriendlyID,
		ClientID:    order.ClientID,
		Currency:    order.Currency,
		TotalAmount: order.TotalAmount,
		ItemCount:   itemCount,
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}
}

func (s *OrderService) invalidateDashboard(ctx context.Context) {
	if s.redis == nil {
		return
	}
	for _, currency := range models.Currencies {
		if err := s.redis.InvalidateCached(ctx, dashboardCacheKey(currency)); err != nil {
			s.logger.Warn("Failed to invalidate dashboard cache",
				zap.String("currency", string(currency)), zap.Error(err))
		}
	}
}

// buildItem turns a request into a ServiceItem, filling enum defaults,
// enforcing margin = price - cost and applying the deadline policy when
// no explicit deadline was supplied.
func buildItem(req *ServiceItemRequest, now time.Time) (*models.ServiceItem, error) {
	item := &models.ServiceItem{
		ServiceType:         req.ServiceType,
		DocumentType:        req.DocumentType,
		LegalizationType:    req.LegalizationType,
		TitularName:         req.TitularName,
		Status:              models.StatusInit,
		DeliveryDestination: req.DeliveryDestination,
		Responsible:         req.Responsible,
		LogisticsStatus:     req.LogisticsStatus,
		CurrentLocation:     req.CurrentLocation,
		Cost:                req.Cost,
		Price:               req.Price,
		Priority:            req.Priority,
		Deadline:            req.Deadline,
		PhaseDates:          models.PhaseDates{},
		Notes:               req.Notes,
	}

	if item.ServiceType == "" {
		item.ServiceType = models.ServiceTypeLegalization
	}
	if item.DeliveryDestination == "" {
		item.DeliveryDestination = models.DestinationInternational
	}
	if item.Responsible == "" {
		item.Responsible = models.ResponsibleOfficeCuba
	}
	if item.LogisticsStatus == "" {
		item.LogisticsStatus = models.LogisticsNA
	}
	if item.CurrentLocation == "" {
		item.CurrentLocation = models.LocationOfficeHavana
	}
	if item.Priority == "" {
		item.Priority = models.PriorityNormal
	}

	if !item.ServiceType.Valid() {
		return nil, errs.NewValidationError("service_type", fmt.Sprintf("unknown service type %q", item.ServiceType))
	}
	if item.LegalizationType != "" && !item.LegalizationType.Valid() {
		return nil, errs.NewValidationError("legalization_type", fmt.Sprintf("unknown legalization type %q", item.LegalizationType))
	}
	if !item.DeliveryDestination.Valid() {
		return nil, errs.NewValidationError("delivery_destination", fmt.Sprintf("unknown destination %q", item.DeliveryDestination))
	}
	if !item.Responsible.Valid() {
		return nil, errs.NewValidationError("responsible", fmt.Sprintf("unknown responsible %q", item.Responsible))
	}
	if !item.LogisticsStatus.Valid() {
		return nil, errs.NewValidationError("logistics_status", fmt.Sprintf("unknown logistics status %q", item.LogisticsStatus))
	}
	if !item.CurrentLocation.Valid() {
		return nil, errs.NewValidationError("current_location", fmt.Sprintf("unknown location %q", item.CurrentLocation))
	}
	if !item.Priority.Valid() {
		return nil, errs.NewValidationError("priority", fmt.Sprintf("unknown priority %q", item.Priority))
	}

	item.RecomputeMargin()

	if item.Deadline == nil {
		deadline := workflow.ComputeDeadline(item.Priority, now)
		item.Deadline = &deadline
	}

	return item, nil
}

// NewFriendlyID derives the human-friendly order identifier: the first
// five uppercase characters of the client name with spaces removed, the
// creation date and a short random suffix. Truncation counts runes, so
// accented names stay valid UTF-8.
func NewFriendlyID(clientName string, now time.Time) string {
	clean := []rune(strings.ToUpper(strings.ReplaceAll(clientName, " ", "")))
	if len(clean) > 5 {
		clean = clean[:5]
	}
	suffix := strings.ToUpper(uuid.New().String()[:4])
	return fmt.Sprintf("%s_%s_%s", string(clean), now.Format("20060102"), suffix)
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}
