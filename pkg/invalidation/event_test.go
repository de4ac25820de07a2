package invalidation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	t.Run("valid event", func(t *testing.T) {
		evt, err := ParseEvent([]byte(`{"entity":"orders","scope":"v1","id":"o1"}`))
		require.NoError(t, err)
		assert.Equal(t, Event{Entity: "orders", Scope: "v1", ID: "o1"}, evt)
	})

	t.Run("malformed payload", func(t *testing.T) {
		_, err := ParseEvent([]byte("not json"))
		require.Error(t, err)
	})

	t.Run("missing entity", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"scope":"v1"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing entity")
	})
}

func TestConsumer_Dispatch(t *testing.T) {
	ctx := context.Background()
	c := &Consumer{
		handlers: make(map[string]Invalidator),
		logger:   zerolog.Nop(),
	}

	var handled []Event
	c.Register("orders", func(_ context.Context, evt Event) {
		handled = append(handled, evt)
	})

	t.Run("routes to the registered handler", func(t *testing.T) {
		c.dispatch(ctx, "m1", []byte(`{"entity":"orders","scope":"v1"}`))
		require.Len(t, handled, 1)
		assert.Equal(t, "v1", handled[0].Scope)
	})

	t.Run("drops malformed events", func(t *testing.T) {
		c.dispatch(ctx, "m2", []byte("not json"))
		assert.Len(t, handled, 1)
	})

	t.Run("drops events for unregistered entities", func(t *testing.T) {
		c.dispatch(ctx, "m3", []byte(`{"entity":"unknown"}`))
		assert.Len(t, handled, 1)
	})

	t.Run("repeated delivery of the same event is harmless", func(t *testing.T) {
		c.dispatch(ctx, "m4", []byte(`{"entity":"orders","scope":"v1"}`))
		c.dispatch(ctx, "m4", []byte(`{"entity":"orders","scope":"v1"}`))
		assert.Len(t, handled, 3, "handlers are idempotent sweeps, so duplicates only repeat work")
	})
}
