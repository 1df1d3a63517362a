package identity

import (
	"testing"
	"time"
)

func TestBroadcasterDeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster()

	ch1, cancel1 := b.Subscribe()
	defer cancel1()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(SignIn{UserID: "u1", DeviceID: "d1"})

	for _, ch := range []<-chan SignIn{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.UserID != "u1" || ev.DeviceID != "d1" {
				t.Fatalf("unexpected event: %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroadcasterCancelledSubscriberIsSkipped(t *testing.T) {
	b := NewBroadcaster()

	ch, cancel := b.Subscribe()
	cancel()

	// Publishing after cancel must not panic or block.
	b.Publish(SignIn{UserID: "u2", DeviceID: "d2"})

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}
}

func TestBroadcasterDoesNotBlockOnFullSubscriber(t *testing.T) {
	b := NewBroadcaster()

	_, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			b.Publish(SignIn{UserID: "u3", DeviceID: "d3"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
