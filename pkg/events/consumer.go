package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID string, topics []string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			GroupTopics: topics,
			MinBytes:    1,
			MaxBytes:    1 << 20,
		}),
	}
}

// Run hands every decoded event to handle until ctx is cancelled.
// Messages that fail to decode are logged and skipped.
func (c *Consumer) Run(ctx context.Context, handle func(Event)) error {
	l := logging.FromContext(ctx).With("component", "events.consumer")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return fmt.Errorf("kafka: read: %w", err)
		}

		ev, err := Decode(msg.Value)
		if err != nil {
			l.Warn("event_decode_failed", "topic", msg.Topic, "offset", msg.Offset, "error", err)
			continue
		}
		handle(ev)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func Decode(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, err
	}
	if ev.Type == "" {
		return Event{}, errors.New("event without type")
	}
	return ev, nil
}
