package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// Handler processes one decoded order event. A nil return commits the offset
// implicitly via ReadMessage semantics; handlers must be idempotent since
// redelivery is possible.
type Handler func(ctx context.Context, ev OrderEvent) error

// Consumer reads order events for the status tracker.
type Consumer struct {
	r *kafka.Reader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

// Run loops until ctx is cancelled or the connection drops. Undecodable
// messages are logged and skipped; handler errors are logged and the loop
// moves on, leaving the cache to be corrected by the next event.
func (c *Consumer) Run(ctx context.Context, h Handler) {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			return
		}

		var ev OrderEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("consumer unmarshal: %v", err)
			continue
		}
		if err := ev.Validate(); err != nil {
			log.Printf("consumer invalid event: %v", err)
			continue
		}
		if err := h(ctx, ev); err != nil {
			log.Printf("consumer handle %s %s: %v", ev.Type, ev.OrderNo, err)
		}
	}
}
