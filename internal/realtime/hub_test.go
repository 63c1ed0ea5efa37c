package realtime

import (
	"testing"
	"time"
)

func TestBroadcastReachesRoomSubscribers(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("project-1")
	defer hub.Unsubscribe(sub)

	hub.Broadcast("project-1", "task_created", map[string]interface{}{"taskId": "t1"})

	select {
	case ev := <-sub.Events():
		if ev.Name != "task_created" {
			t.Errorf("event name = %q, want %q", ev.Name, "task_created")
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}
}

func TestBroadcastIsScopedToRoom(t *testing.T) {
	hub := NewHub()

	inRoom := hub.Subscribe("project-1")
	otherRoom := hub.Subscribe("project-2")
	defer hub.Unsubscribe(inRoom)
	defer hub.Unsubscribe(otherRoom)

	hub.Broadcast("project-1", "column_created", nil)

	select {
	case <-inRoom.Events():
	case <-time.After(time.Second):
		t.Fatal("subscriber in the room did not receive the event")
	}

	select {
	case ev := <-otherRoom.Events():
		t.Fatalf("subscriber of another project received %q", ev.Name)
	default:
	}
}

func TestBroadcastWithNoSubscribersIsNoop(t *testing.T) {
	hub := NewHub()

	// Must not panic or block.
	hub.Broadcast("empty-project", "task_updated", nil)
}

func TestBroadcastPreservesOrder(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("project-1")
	defer hub.Unsubscribe(sub)

	names := []string{"task_created", "task_updated", "task_deleted"}
	for _, name := range names {
		hub.Broadcast("project-1", name, nil)
	}

	for _, want := range names {
		select {
		case ev := <-sub.Events():
			if ev.Name != want {
				t.Fatalf("got %q, want %q", ev.Name, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing event %q", want)
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("project-1")
	defer hub.Unsubscribe(sub)

	// Fill the buffer and then some; the overflow must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer+10; i++ {
			hub.Broadcast("project-1", "task_updated", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}

	if got := len(sub.events); got != subscriberBuffer {
		t.Errorf("buffered events = %d, want %d", got, subscriberBuffer)
	}
}

func TestUnsubscribeClosesChannelAndEmptiesRoom(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("project-1")
	if got := hub.RoomSize("project-1"); got != 1 {
		t.Fatalf("RoomSize = %d, want 1", got)
	}

	hub.Unsubscribe(sub)

	if got := hub.RoomSize("project-1"); got != 0 {
		t.Errorf("RoomSize after unsubscribe = %d, want 0", got)
	}
	if _, open := <-sub.Events(); open {
		t.Error("events channel should be closed after unsubscribe")
	}

	// Double unsubscribe is a no-op.
	hub.Unsubscribe(sub)
}

func TestEnvelope(t *testing.T) {
	payload := Envelope("task_move", "u1", "Jane Doe", map[string]interface{}{
		"taskId": "t1",
	})

	if payload["type"] != "task_move" {
		t.Errorf("type = %v, want task_move", payload["type"])
	}
	if payload["userId"] != "u1" {
		t.Errorf("userId = %v, want u1", payload["userId"])
	}
	if payload["userName"] != "Jane Doe" {
		t.Errorf("userName = %v, want Jane Doe", payload["userName"])
	}
	if payload["taskId"] != "t1" {
		t.Errorf("taskId = %v, want t1", payload["taskId"])
	}
	if _, err := time.Parse(time.RFC3339, payload["timestamp"].(string)); err != nil {
		t.Errorf("timestamp is not RFC3339: %v", err)
	}
}
