package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hotel-staff-service/internal/events"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	var seen []events.EventType
	dispatcher.Subscribe(events.EventIdentityOrphaned, func(_ context.Context, event events.Event) error {
		seen = append(seen, event.Type)
		return nil
	})
	dispatcher.Subscribe(events.EventStaffProvisioned, func(_ context.Context, event events.Event) error {
		seen = append(seen, event.Type)
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.Event{ID: "e-1", Type: events.EventIdentityOrphaned})
	require.NoError(t, err)
	require.Equal(t, []events.EventType{events.EventIdentityOrphaned}, seen)
}

func TestDispatcherContinuesPastHandlerErrors(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()

	calls := 0
	dispatcher.Subscribe(events.EventIdentityOrphaned, func(_ context.Context, _ events.Event) error {
		calls++
		return errors.New("first handler failed")
	})
	dispatcher.Subscribe(events.EventIdentityOrphaned, func(_ context.Context, _ events.Event) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), events.Event{ID: "e-1", Type: events.EventIdentityOrphaned})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
