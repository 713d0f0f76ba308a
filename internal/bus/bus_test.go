package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("notify.", 10)
	defer unsub()

	b.Emit("notify.progress", 3)

	select {
	case evt := <-ch:
		if evt.Kind != "notify.progress" {
			t.Errorf("kind = %q, want notify.progress", evt.Kind)
		}
		if evt.Payload != 3 {
			t.Errorf("payload = %v, want 3", evt.Payload)
		}
		if evt.Timestamp.IsZero() {
			t.Error("Emit should stamp the event")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("paging.", 10)
	defer unsub()

	b.Emit("notify.progress", nil)
	b.Emit("paging.page", nil)

	select {
	case evt := <-ch:
		if evt.Kind != "paging.page" {
			t.Errorf("kind = %q, want paging.page", evt.Kind)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeTwice(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("notify.", 10)
	unsub()
	unsub()

	b.Emit("notify.completed", nil)

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("notify.", 1)
	defer unsub()

	b.Emit("notify.progress", 1)
	b.Emit("notify.progress", 2)

	evt := <-ch
	if evt.Payload != 1 {
		t.Errorf("payload = %v, want 1 (second event dropped)", evt.Payload)
	}
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var b *Bus
	b.Emit("notify.progress", 1)
}
