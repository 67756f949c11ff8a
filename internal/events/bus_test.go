package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBusPublishSync(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	var got atomic.Int64
	sub := bus.SubscribeFunc(CardStaked, func(_ context.Context, e Event) error {
		assert.Equal(t, CardStaked, e.Type())
		got.Add(1)
		return nil
	})
	defer sub.Unsubscribe()

	ev := CardStakedEvent{BaseEvent: BaseEvent{EventType: CardStaked, EventTime: time.Now()}, CardIndex: 2}
	require.NoError(t, bus.PublishSync(context.Background(), ev))
	assert.Equal(t, int64(1), got.Load())
}

func TestBusAsyncDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)

	done := make(chan EventType, 1)
	bus.SubscribeFunc(BoosterOpened, func(_ context.Context, e Event) error {
		done <- e.Type()
		return nil
	})

	ev := BoosterOpenedEvent{BaseEvent: BaseEvent{EventType: BoosterOpened, EventTime: time.Now()}}
	require.NoError(t, bus.Publish(ev))

	select {
	case typ := <-done:
		assert.Equal(t, BoosterOpened, typ)
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	require.NoError(t, bus.Shutdown(context.Background()))
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(zap.NewNop(), 8)
	defer func() { _ = bus.Shutdown(context.Background()) }()

	var calls atomic.Int64
	sub := bus.SubscribeFunc(CardsRecycled, func(_ context.Context, _ Event) error {
		calls.Add(1)
		return nil
	})
	sub.Unsubscribe()

	ev := CardsRecycledEvent{BaseEvent: BaseEvent{EventType: CardsRecycled, EventTime: time.Now()}}
	require.NoError(t, bus.PublishSync(context.Background(), ev))
	assert.Zero(t, calls.Load())
}
