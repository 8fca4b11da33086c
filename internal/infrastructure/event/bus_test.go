package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	tests := []struct {
		name      string
		subscribe []string
		publish   []string
		want      int
	}{
		{name: "matching type", subscribe: []string{"OrderPlaced"}, publish: []string{"OrderPlaced"}, want: 1},
		{name: "several events", subscribe: []string{"OrderPlaced"}, publish: []string{"OrderPlaced", "OrderPlaced"}, want: 2},
		{name: "several types", subscribe: []string{"OrderPlaced", "ClaimSubmitted"}, publish: []string{"ClaimSubmitted", "OrderPlaced", "WarrantyIssued"}, want: 2},
		{name: "no match", subscribe: []string{"ClaimSubmitted"}, publish: []string{"OrderPlaced"}, want: 0},
		{name: "wildcard", subscribe: nil, publish: []string{"OrderPlaced", "WarrantyIssued"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())
			handler := newTestHandler(tt.subscribe...)
			bus.Subscribe(handler)

			events := make([]shared.DomainEvent, len(tt.publish))
			for i, eventType := range tt.publish {
				events[i] = newTestEvent(eventType)
			}
			require.NoError(t, bus.Publish(context.Background(), events...))
			assert.Equal(t, tt.want, handler.count())
		})
	}
}

func TestInMemoryEventBus_Publish_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler, "ClaimSubmitted")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("ClaimSubmitted")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Publish_SkipsNilEvents(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newTestHandler()
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), nil, newTestEvent("OrderPlaced")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Publish_HandlerFailures(t *testing.T) {
	tests := []struct {
		name    string
		failing *testHandler
		message string
	}{
		{name: "error", failing: &testHandler{eventTypes: []string{"OrderPlaced"}, err: errors.New("metrics down")}, message: "metrics down"},
		{name: "panic", failing: &testHandler{eventTypes: []string{"OrderPlaced"}, panicWith: "nil map"}, message: "handler panicked: nil map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			bus := NewInMemoryEventBus(zap.New(core))
			next := newTestHandler("OrderPlaced")
			bus.Subscribe(tt.failing)
			bus.Subscribe(next)

			event := newTestEvent("OrderPlaced")
			require.NoError(t, bus.Publish(context.Background(), event))

			assert.Equal(t, 1, tt.failing.count())
			assert.Equal(t, 1, next.count(), "later handlers still run")

			entries := logs.FilterMessage("Event handler failed").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, "OrderPlaced", fields["event_type"])
			assert.Equal(t, event.EventID().String(), fields["event_id"])
			assert.Equal(t, tt.message, fields["error"])
		})
	}
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("OrderPlaced")
	wildcard := newTestHandler()
	bus.Subscribe(handler)
	bus.Subscribe(wildcard)

	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
	bus.Unsubscribe(handler)
	bus.Unsubscribe(wildcard)
	_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	assert.Equal(t, 1, handler.count())
	assert.Equal(t, 1, wildcard.count())
	assert.Zero(t, bus.registry.Len())
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
	assert.Equal(t, 1, handler.count())

	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
	assert.Equal(t, 1, handler.count(), "stopped bus drops events")

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_ConcurrentPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("OrderPlaced")
	bus.Subscribe(handler)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, handler.count())
}
