package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	keys   []string
	events []Event
	err    error
	block  chan struct{}
	closed bool
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.keys = append(p.keys, key)
	p.events = append(p.events, event.(Event))
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func TestNotifier_EmitPublishesEvent(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	n := &Notifier{Pub: pub, Now: func() time.Time { return at }}

	n.Emit(context.Background(), TopicOrders, Event{Type: TypeOrderStatusChanged, Message: "Order 3 changed to shipped", EntityID: 3})
	n.Wait()

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicOrders, pub.topics[0])
	assert.Equal(t, "3", pub.keys[0])
	assert.Equal(t, TypeOrderStatusChanged, pub.events[0].Type)
	assert.Equal(t, at, pub.events[0].At)
}

func TestNotifier_EmitDoesNotWaitForDelivery(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{block: make(chan struct{})}
	n := NewNotifier(pub)

	done := make(chan struct{})
	go func() {
		n.Emit(context.Background(), TopicProducts, Event{Type: TypeProductCreated, Message: "Lamp", EntityID: 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a slow publisher")
	}

	close(pub.block)
	n.Wait()
	assert.Len(t, pub.events, 1)
}

func TestNotifier_FailureIsSwallowed(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("broker down")}
	n := NewNotifier(pub)

	ctx, cancel := context.WithCancel(context.Background())
	n.Emit(ctx, TopicProducts, Event{Type: TypeProductDeleted, EntityID: 9})
	cancel()
	n.Wait()

	assert.Len(t, pub.events, 1)
}

func TestNotifier_NilIsNoop(t *testing.T) {
	t.Parallel()

	var n *Notifier
	n.Emit(context.Background(), TopicOrders, Event{Type: TypeOrderStatusChanged})
	n.Wait()
	require.NoError(t, n.Close())

	empty := &Notifier{}
	empty.Emit(context.Background(), TopicOrders, Event{Type: TypeOrderStatusChanged})
	require.NoError(t, empty.Close())
}

func TestNotifier_CloseWaitsAndClosesPublisher(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	n := NewNotifier(pub)
	n.Emit(context.Background(), TopicOrders, Event{Type: TypeOrderStatusChanged, EntityID: 1})

	require.NoError(t, n.Close())
	assert.True(t, pub.closed)
	assert.Len(t, pub.events, 1)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	ev, err := Decode([]byte(`{"type":"productCreated","message":"Lamp","entity_id":4}`))
	require.NoError(t, err)
	assert.Equal(t, TypeProductCreated, ev.Type)
	assert.EqualValues(t, 4, ev.EntityID)

	_, err = Decode([]byte(`{"message":"no type"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}
