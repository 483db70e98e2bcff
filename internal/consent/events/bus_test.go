package events

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"classifieds/internal/consent/models"
)

func TestBusSynchronousDelivery(t *testing.T) {
	bus := NewBus()
	var got []models.Notification
	unsubscribe := bus.Subscribe(func(_ context.Context, n models.Notification) {
		got = append(got, n)
	})

	bus.Notify(context.Background(), models.Notification{ID: "1", Preferences: models.AcceptAll()})
	unsubscribe()
	bus.Notify(context.Background(), models.Notification{ID: "2"})

	if assert.Len(t, got, 1) {
		assert.Equal(t, "1", got[0].ID)
		assert.True(t, got[0].Preferences.Analytics)
	}
}

func TestBusAsyncDrainsOnClose(t *testing.T) {
	bus := NewBus(WithAsyncBuffer(16))
	var mu sync.Mutex
	count := 0
	bus.Subscribe(func(context.Context, models.Notification) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	for range 5 {
		bus.Notify(ctx, models.Notification{Name: models.NotificationName})
	}
	cancel()
	bus.Close()

	assert.Equal(t, 5, count)
}

func TestBusDropsNotificationsAfterClose(t *testing.T) {
	for name, bus := range map[string]*Bus{
		"sync":  NewBus(),
		"async": NewBus(WithAsyncBuffer(4)),
	} {
		t.Run(name, func(t *testing.T) {
			delivered := 0
			bus.Subscribe(func(context.Context, models.Notification) { delivered++ })

			bus.Close()
			assert.NotPanics(t, func() {
				bus.Notify(context.Background(), models.Notification{ID: "late"})
				bus.Close()
			})
			assert.Zero(t, delivered)
		})
	}
}
