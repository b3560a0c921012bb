package notify

import (
	"context"
	"testing"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/events"
)

func event(kind events.Kind, org string) events.Event {
	return events.New(kind, "g1", org, "m1", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestBusDeliversToMatchingOrganization(t *testing.T) {
	bus := NewBus(4, nil)
	orgA, cancelA := bus.Subscribe("org-a")
	defer cancelA()
	all, cancelAll := bus.Subscribe("")
	defer cancelAll()

	_ = bus.Publish(context.Background(), event(events.GameCreated, "org-a"))
	_ = bus.Publish(context.Background(), event(events.GameCreated, "org-b"))

	if got := len(orgA); got != 1 {
		t.Fatalf("expected org-a subscriber to receive 1 event, got %d", got)
	}
	if ev := <-orgA; ev.OrganizationID != "org-a" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if got := len(all); got != 2 {
		t.Fatalf("expected wildcard subscriber to receive 2 events, got %d", got)
	}
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus(1, nil)
	ch, cancel := bus.Subscribe("org-a")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			_ = bus.Publish(context.Background(), event(events.GameUpdated, "org-a"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected publish to never block on a full subscriber")
	}
	if len(ch) != 1 {
		t.Fatalf("expected buffer to hold 1 event, got %d", len(ch))
	}
	if bus.Dropped() != 4 {
		t.Fatalf("expected 4 dropped deliveries, got %d", bus.Dropped())
	}
}

func TestBusCancelClosesChannel(t *testing.T) {
	bus := NewBus(0, nil)
	ch, cancel := bus.Subscribe("org-a")
	if bus.Subscribers() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", bus.Subscribers())
	}
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after cancel")
	}
	if bus.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", bus.Subscribers())
	}
	if err := bus.Publish(context.Background(), event(events.GameDeleted, "org-a")); err != nil {
		t.Fatalf("expected publish without subscribers to succeed, got %v", err)
	}
}

func TestBusCloseEndsSubscriptions(t *testing.T) {
	bus := NewBus(2, nil)
	ch, cancel := bus.Subscribe("")
	_ = bus.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed by bus close")
	}
	late, _ := bus.Subscribe("")
	if _, ok := <-late; ok {
		t.Fatal("expected subscriptions after close to be closed immediately")
	}
}
