package events

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

const defaultPublishTimeout = 5 * time.Second

// Notifier emits events without making the caller wait for delivery.
// A nil Notifier or one without a Publisher drops every event.
type Notifier struct {
	Pub     Publisher
	Timeout time.Duration
	Now     func() time.Time

	wg sync.WaitGroup
}

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{Pub: pub}
}

func (n *Notifier) Emit(ctx context.Context, topic string, ev Event) {
	if n == nil || n.Pub == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = n.now()
	}

	l := logging.FromContext(ctx)
	pubCtx := context.WithoutCancel(ctx)
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.publish(pubCtx, l, topic, ev, timeout)
	}()
}

func (n *Notifier) publish(ctx context.Context, l *slog.Logger, topic string, ev Event, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	key := strconv.FormatUint(uint64(ev.EntityID), 10)
	if err := n.Pub.PublishEvent(ctx, topic, key, ev); err != nil {
		l.Error("event_publish_failed", "topic", topic, "type", ev.Type, "entity_id", ev.EntityID, "error", err)
		return
	}
	l.Debug("event_published", "topic", topic, "type", ev.Type, "entity_id", ev.EntityID)
}

// Wait blocks until in-flight publishes finish.
func (n *Notifier) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}

func (n *Notifier) Close() error {
	if n == nil || n.Pub == nil {
		return nil
	}
	n.Wait()
	return n.Pub.Close()
}

func (n *Notifier) now() time.Time {
	if n.Now != nil {
		return n.Now().UTC()
	}
	return time.Now().UTC()
}
