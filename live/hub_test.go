package live

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: RoomFor("u1"),
	}

	hub.register <- client

	data := []byte(`{"action":"notify"}`)
	hub.Broadcast(RoomFor("u1"), data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubBroadcastIsRoomScoped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	mine := &Client{Send: make(chan []byte, 1), Room: RoomFor("u1")}
	other := &Client{Send: make(chan []byte, 1), Room: RoomFor("u2")}
	hub.register <- mine
	hub.register <- other

	hub.Broadcast(RoomFor("u1"), []byte("x"))

	select {
	case <-mine.Send:
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	select {
	case msg := <-other.Send:
		t.Fatalf("unexpected cross-room delivery: %s", msg)
	case <-time.After(100 * time.Millisecond):
	}
}
