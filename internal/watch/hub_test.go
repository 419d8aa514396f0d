package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToSubscribedCollection(t *testing.T) {
	hub := NewHub()
	got := make(chan Event, 1)

	unsubscribe := hub.Subscribe(CollectionVehicles, func(e Event) {
		got <- e
	})
	defer unsubscribe()

	hub.Publish(Event{Collection: CollectionVehicles, Op: OpUpdate, RecordID: 7, VehicleID: 7})

	select {
	case e := <-got:
		assert.Equal(t, OpUpdate, e.Op)
		assert.Equal(t, uint(7), e.RecordID)
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestHubIgnoresOtherCollections(t *testing.T) {
	hub := NewHub()
	got := make(chan Event, 1)

	unsubscribe := hub.Subscribe(CollectionLoans, func(e Event) {
		got <- e
	})
	defer unsubscribe()

	hub.Publish(Event{Collection: CollectionEntries, Op: OpCreate, RecordID: 1})

	select {
	case <-got:
		t.Fatal("loan subscriber received an entry event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	got := make(chan Event, 2)

	unsubscribe := hub.Subscribe(CollectionObligations, func(e Event) {
		got <- e
	})

	hub.Publish(Event{Collection: CollectionObligations, Op: OpCreate, RecordID: 1})
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the first event")
	}

	unsubscribe()
	hub.Publish(Event{Collection: CollectionObligations, Op: OpDelete, RecordID: 1})

	select {
	case <-got:
		t.Fatal("unsubscribed handler received an event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	first := make(chan Event, 1)
	second := make(chan Event, 1)

	defer hub.Subscribe(CollectionLoans, func(e Event) { first <- e })()
	defer hub.Subscribe(CollectionLoans, func(e Event) { second <- e })()

	hub.Publish(Event{Collection: CollectionLoans, Op: OpUpdate, RecordID: 3})

	for _, ch := range []chan Event{first, second} {
		select {
		case e := <-ch:
			require.Equal(t, uint(3), e.RecordID)
		case <-time.After(time.Second):
			t.Fatal("a subscriber missed the fan-out")
		}
	}
}
