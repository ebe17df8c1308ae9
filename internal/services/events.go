package services

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/shipbid/apiserver/types"
)

// OrderEventsChannel is the broker channel carrying order lifecycle events.
const OrderEventsChannel = "order-events"

// Event kinds published on OrderEventsChannel.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher publishes serialized events to a named channel. *mq.MQ
// satisfies it; a nil publisher disables eventing.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// OrderEvent is the payload published for order lifecycle changes.
type OrderEvent struct {
	Kind       string            `json:"kind"`
	OrderID    int               `json:"order_id"`
	AuctionID  int               `json:"auction_id"`
	ShipperID  int               `json:"shipper_id"`
	CustomerID int               `json:"customer_id"`
	Status     types.OrderStatus `json:"status"`
	PrevStatus types.OrderStatus `json:"prev_status,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// publishOrderEvent sends the event on a best-effort basis. Delivery
// failures are logged, never surfaced to the caller: the order change is
// already committed by the time we get here.
func publishOrderEvent(ctx context.Context, publisher EventPublisher, event OrderEvent) {
	if publisher == nil {
		return
	}
	event.OccurredAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("order event marshal failed: %v", err)
		return
	}
	attrs := map[string]string{
		"kind":     event.Kind,
		"order_id": strconv.Itoa(event.OrderID),
	}
	if _, err := publisher.Publish(ctx, OrderEventsChannel, data, attrs); err != nil {
		log.Printf("order event publish failed: %v", err)
	}
}
