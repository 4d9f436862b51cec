package events

import (
	"context"
	"time"
)

const (
	TypeOrderStatusChanged = "orderStatusChanged"
	TypeProductCreated     = "productCreated"
	TypeProductDeleted     = "productDeleted"
)

const (
	TopicOrders   = "order_events"
	TopicProducts = "product_events"
)

var Topics = []string{TopicOrders, TopicProducts}

type Event struct {
	Type     string    `json:"type"`
	Message  string    `json:"message"`
	EntityID uint      `json:"entity_id"`
	At       time.Time `json:"at"`
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}
