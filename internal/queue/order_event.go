package queue

import (
	"fmt"
	"time"
)

// Event types published on the order topic.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message written to Kafka whenever an order is created or
// its status moves. Consumers treat it as advisory; the sqlite record stays
// the source of truth.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderNo    string    `json:"order_no"`
	BuyerID    string    `json:"buyer_id"`
	ProductID  uint      `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate does minimal field checks so consumers never see dirty messages.
func (e OrderEvent) Validate() error {
	if e.Type != EventOrderPlaced && e.Type != EventOrderStatusChanged {
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.OrderNo == "" {
		return fmt.Errorf("order_no is required")
	}
	if e.Status == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}
