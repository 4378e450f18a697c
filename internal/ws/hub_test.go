package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := &Client{hub: hub, send: make(chan []byte, 4)}
	b := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- a
	hub.register <- b

	hub.Broadcast("order.created", map[string]string{"order_no": "ORD-20260315-0001"})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var event Event
			if err := json.Unmarshal(msg, &event); err != nil {
				t.Fatalf("unmarshal event: %v", err)
			}
			if event.Type != "order.created" {
				t.Errorf("event type = %q, want order.created", event.Type)
			}
			var payload map[string]string
			if err := json.Unmarshal(event.Payload, &payload); err != nil {
				t.Fatalf("unmarshal payload: %v", err)
			}
			if payload["order_no"] != "ORD-20260315-0001" {
				t.Errorf("payload order_no = %q", payload["order_no"])
			}
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestUnregisteredClientStopsReceiving(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- c
	hub.unregister <- c

	// The hub closes the send channel on unregister.
	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed channel, got message")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
}

func TestSlowClientDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Unbuffered send channel: first broadcast cannot be delivered.
	c := &Client{hub: hub, send: make(chan []byte)}
	hub.register <- c

	hub.Broadcast("order.updated", map[string]string{})

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("expected closed channel for slow client")
		}
	case <-time.After(time.Second):
		t.Fatal("slow client not dropped")
	}
}
