package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderCreated      = "ORDER_CREATED"
	EventTypeServiceAdded      = "SERVICE_ADDED"
	EventTypeItemStatusChanged = "ITEM_STATUS_CHANGED"
	EventTypePaymentRegistered = "PAYMENT_REGISTERED"
	EventTypeOrderUpdated      = "ORDER_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published when an order is created with its initial items
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	FriendlyID  string          `json:"friendly_id"`
	ClientID    int64           `json:"client_id"`
	Currency    Currency        `json:"currency"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// ServiceAddedEvent published when an item is added to an existing order
type ServiceAddedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	ItemID      int64           `json:"item_id"`
	ServiceType ServiceType     `json:"service_type"`
	Price       decimal.Decimal `json:"price"`
}

// ItemStatusChangedEvent published when an item's workflow status changes
type ItemStatusChangedEvent struct {
	BaseEvent
	OrderID   int64      `json:"order_id"`
	ItemID    int64      `json:"item_id"`
	OldStatus ItemStatus `json:"old_status"`
	NewStatus ItemStatus `json:"new_status"`
}

// PaymentRegisteredEvent published when a payment is recorded against an order.
// The notification worker consumes it to send the client receipt.
type PaymentRegisteredEvent struct {
	BaseEvent
	OrderID       int64           `json:"order_id"`
	PaymentID     int64           `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Method        PaymentMethod   `json:"method"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// OrderUpdatedEvent published when order-level fields change
type OrderUpdatedEvent struct {
	BaseEvent
	OrderID      int64        `json:"order_id"`
	GlobalStatus GlobalStatus `json:"global_status"`
}
