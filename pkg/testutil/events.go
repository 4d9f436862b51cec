package testutil

import (
	"context"
	"sync"

	"github.com/Skotchmaster/shop_admin/pkg/events"
)

// Publisher records every event it is given. Safe for concurrent use.
type Publisher struct {
	mu     sync.Mutex
	topics []string
	events []events.Event
	Err    error
}

func (p *Publisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ev, ok := event.(events.Event); ok {
		p.topics = append(p.topics, topic)
		p.events = append(p.events, ev)
	}
	return p.Err
}

func (p *Publisher) Close() error { return nil }

func (p *Publisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func (p *Publisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
