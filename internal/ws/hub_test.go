package ws

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(buffer int) *Client {
	return &Client{
		send:  make(chan []byte, buffer),
		rooms: make(map[uint]bool),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	return hub
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case payload, ok := <-client.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var event Event
		assert.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, client *Client) {
	t.Helper()
	select {
	case payload := <-client.send:
		t.Fatalf("unexpected event: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastGlobal(t *testing.T) {
	hub := startHub(t)

	first := newTestClient(clientBufferSize)
	second := newTestClient(clientBufferSize)
	hub.register <- first
	hub.register <- second

	hub.BroadcastGlobal("inspection-created", map[string]interface{}{"inspection_id": 1})

	for _, client := range []*Client{first, second} {
		event := receiveEvent(t, client)
		assert.Equal(t, "inspection-created", event.Event)
	}
}

func TestBroadcastRoom_OnlyReachesSubscribers(t *testing.T) {
	hub := startHub(t)

	subscriber := newTestClient(clientBufferSize)
	bystander := newTestClient(clientBufferSize)
	hub.register <- subscriber
	hub.register <- bystander
	hub.join <- joinRequest{client: subscriber, room: 5}

	hub.BroadcastRoom(5, "lineitem-added", map[string]interface{}{"line_item_id": 9})

	event := receiveEvent(t, subscriber)
	assert.Equal(t, "lineitem-added", event.Event)
	assertNoEvent(t, bystander)
}

func TestBroadcastRoom_DifferentRoomsIsolated(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(clientBufferSize)
	hub.register <- client
	hub.join <- joinRequest{client: client, room: 5}

	hub.BroadcastRoom(6, "inspection-updated", nil)
	assertNoEvent(t, client)
}

func TestBroadcastRoom_DeliversInOrder(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(clientBufferSize)
	hub.register <- client
	hub.join <- joinRequest{client: client, room: 3}

	for i := 0; i < 10; i++ {
		hub.BroadcastRoom(3, fmt.Sprintf("event-%d", i), nil)
	}

	for i := 0; i < 10; i++ {
		event := receiveEvent(t, client)
		assert.Equal(t, fmt.Sprintf("event-%d", i), event.Event)
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := startHub(t)

	slow := newTestClient(1)
	healthy := newTestClient(clientBufferSize)
	hub.register <- slow
	hub.register <- healthy

	hub.BroadcastGlobal("first", nil)
	hub.BroadcastGlobal("second", nil)
	hub.BroadcastGlobal("third", nil)

	for _, name := range []string{"first", "second", "third"} {
		event := receiveEvent(t, healthy)
		assert.Equal(t, name, event.Event)
	}

	// the slow client got the first event, then its buffer filled and it
	// was dropped, which closes the send channel
	event := receiveEvent(t, slow)
	assert.Equal(t, "first", event.Event)

	select {
	case _, ok := <-slow.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestStopTerminatesRun(t *testing.T) {
	hub := NewHub()

	finished := make(chan struct{})
	go func() {
		hub.Run()
		close(finished)
	}()

	hub.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("dispatch loop did not stop")
	}
}

func TestUnregisterCleansUpRooms(t *testing.T) {
	hub := startHub(t)

	client := newTestClient(clientBufferSize)
	hub.register <- client
	hub.join <- joinRequest{client: client, room: 7}
	hub.unregister <- client

	// synchronize on the dispatch loop before inspecting state
	observer := newTestClient(clientBufferSize)
	hub.register <- observer

	hub.BroadcastRoom(7, "inspection-updated", nil)
	assertNoEvent(t, observer)

	select {
	case _, ok := <-client.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}
