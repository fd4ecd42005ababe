package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	ch1, unsub1 := bus.Subscribe()
	ch2, unsub2 := bus.Subscribe()
	defer unsub1()
	defer unsub2()

	bus.Publish(Event{ID: "e1", Type: TypeNotificationCreated, OwnerID: "u1"})

	e1 := <-ch1
	e2 := <-ch2
	assert.Equal(t, "e1", e1.ID)
	assert.Equal(t, "e1", e2.ID)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Unsubscribing twice must not panic.
	unsub()

	// Publishing after unsubscribe goes nowhere and must not block.
	bus.Publish(Event{ID: "e1", Type: TypeNotificationRead})
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	defer unsub()

	// Fill the subscriber buffer and then some; the extra publishes are
	// dropped instead of blocking the publisher.
	for i := 0; i < 150; i++ {
		bus.Publish(Event{ID: "e", Type: TypeNotificationCreated})
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			require.Equal(t, 100, received)
			return
		}
	}
}
