package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"legalcrm/internal/models"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishServiceAdded publishes a ServiceAdded event
func (ep *EventPublisher) PublishServiceAdded(ctx context.Context, event *models.ServiceAddedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishItemStatusChanged publishes an ItemStatusChanged event
func (ep *EventPublisher) PublishItemStatusChanged(ctx context.Context, event *models.ItemStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishPaymentRegistered publishes a PaymentRegistered event
func (ep *EventPublisher) PublishPaymentRegistered(ctx context.Context, event *models.PaymentRegisteredEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderUpdated publishes an OrderUpdated event
func (ep *EventPublisher) PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

func orderKey(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}

// EventHandler routes incoming events to registered callbacks
type EventHandler struct {
	onPaymentRegistered func(context.Context, *models.PaymentRegisteredEvent) error
	onItemStatusChanged func(context.Context, *models.ItemStatusChangedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnPaymentRegistered registers a handler for PaymentRegistered events
func (eh *EventHandler) OnPaymentRegistered(handler func(context.Context, *models.PaymentRegisteredEvent) error) {
	eh.onPaymentRegistered = handler
}

// OnItemStatusChanged registers a handler for ItemStatusChanged events
func (eh *EventHandler) OnItemStatusChanged(handler func(context.Context, *models.ItemStatusChangedEvent) error) {
	eh.onItemStatusChanged = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypePaymentRegistered:
		if eh.onPaymentRegistered != nil {
			var event models.PaymentRegisteredEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PaymentRegistered event: %w", err)
			}
			return eh.onPaymentRegistered(ctx, &event)
		}

	case models.EventTypeItemStatusChanged:
		if eh.onItemStatusChanged != nil {
			var event models.ItemStatusChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal ItemStatusChanged event: %w", err)
			}
			return eh.onItemStatusChanged(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
