package hub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wellle/fzf/hub"
)

func TestEmitCoalesces(t *testing.T) {
	h := hub.New()
	h.Emit(hub.EvtSearchNew, hub.QuerySnapshot{Text: "a", CursorX: 1})
	h.Emit(hub.EvtSearchNew, hub.QuerySnapshot{Text: "ab", CursorX: 2})

	events := h.Take()
	assert.Len(t, events, 1)
	assert.Equal(t, hub.QuerySnapshot{Text: "ab", CursorX: 2}, events[hub.EvtSearchNew],
		"only the most recent value per kind is retained")

	assert.Empty(t, h.Take(), "Take clears the pending map")
}

func TestWaitWakesOnEmit(t *testing.T) {
	h := hub.New()

	got := make(chan hub.Events)
	go func() {
		h.Wait(func(events hub.Events) {
			snapshot := hub.Events{}
			for k, v := range events {
				snapshot[k] = v
			}
			events.Clear()
			got <- snapshot
		})
	}()

	// Give the waiter a chance to block first
	time.Sleep(10 * time.Millisecond)
	h.Emit(hub.EvtReadNew, true)

	select {
	case events := <-got:
		assert.Contains(t, events, hub.EvtReadNew)
	case <-time.After(time.Second):
		t.Fatal("Wait did not wake up after Emit")
	}

	assert.False(t, h.Peek(hub.EvtReadNew), "Wait callback cleared the event")
}

func TestPeekDoesNotConsume(t *testing.T) {
	h := hub.New()
	assert.False(t, h.Peek(hub.EvtSearchNew))

	h.Emit(hub.EvtSearchNew, hub.QuerySnapshot{Text: "x", CursorX: 1})
	assert.True(t, h.Peek(hub.EvtSearchNew))
	assert.True(t, h.Peek(hub.EvtSearchNew), "Peek leaves the event pending")

	events := h.Take()
	assert.Contains(t, events, hub.EvtSearchNew)
}

func TestMultipleKindsInOnePickup(t *testing.T) {
	h := hub.New()
	h.Emit(hub.EvtReadNew, true)
	h.Emit(hub.EvtReadFin, true)
	h.Emit(hub.EvtSearchNew, hub.QuerySnapshot{})

	events := h.Take()
	assert.Len(t, events, 3, "one pickup drains every pending kind")
}
