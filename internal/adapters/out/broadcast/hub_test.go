package broadcast_test

import (
	"testing"
	"time"

	"dispatch/internal/adapters/out/broadcast"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusEvent(t *testing.T, status task.Status, agentID *kernel.UUID) tracking.Event {
	t.Helper()
	return tracking.NewStatusEvent(tracking.NewStatusWire(status, time.Now(), agentID))
}

func locationEvent(t *testing.T, agentID kernel.UUID, sampledAt time.Time) tracking.Event {
	t.Helper()

	point, err := kernel.NewGeoPoint(48.8566, 2.3522)
	require.NoError(t, err)
	sample, err := tracking.NewLocationSample(agentID, point, 3.5, 90, sampledAt)
	require.NoError(t, err)
	return tracking.NewLocationEvent(sample.Wire())
}

func receiveEvent(t *testing.T, events <-chan tracking.Event) tracking.Event {
	t.Helper()

	select {
	case event, ok := <-events:
		require.True(t, ok, "feed closed unexpectedly")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed event")
		return tracking.Event{}
	}
}

func requireClosed(t *testing.T, events <-chan tracking.Event) {
	t.Helper()

	select {
	case _, ok := <-events:
		require.False(t, ok, "expected feed to be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for feed to close")
	}
}

func TestSubscribe_ThenBroadcast_DeliversInOrder(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, statusEvent(t, task.Assigned, &agentID)))
	require.NoError(t, hub.Broadcast(t.Context(), taskID, locationEvent(t, agentID, time.Now())))

	first := receiveEvent(t, sub.Events())
	assert.Equal(t, tracking.EventStatus, first.Kind)
	assert.Equal(t, "ASSIGNED", first.Status.Status)

	second := receiveEvent(t, sub.Events())
	assert.Equal(t, tracking.EventLocation, second.Kind)
	assert.Equal(t, agentID.String(), second.Location.RiderID)
}

func TestSubscribe_MidDelivery_ReplaysCurrentState(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, statusEvent(t, task.OnTheWay, &agentID)))
	require.NoError(t, hub.Broadcast(t.Context(), taskID, locationEvent(t, agentID, time.Now())))

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	first := receiveEvent(t, sub.Events())
	assert.Equal(t, tracking.EventStatus, first.Kind)
	assert.Equal(t, "ON_THE_WAY", first.Status.Status)

	second := receiveEvent(t, sub.Events())
	assert.Equal(t, tracking.EventLocation, second.Kind)
}

func TestSubscribe_NoEventsYet_ReplaysNothing(t *testing.T) {
	hub := broadcast.NewHub()

	sub, err := hub.Subscribe(t.Context(), kernel.NewUUID())
	require.NoError(t, err)
	defer sub.Close()

	select {
	case event := <-sub.Events():
		t.Fatalf("unexpected replayed event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcast_ReplayKeepsLatestOnly(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()
	base := time.Now()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, locationEvent(t, agentID, base)))
	require.NoError(t, hub.Broadcast(t.Context(), taskID, locationEvent(t, agentID, base.Add(time.Second))))

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	replayed := receiveEvent(t, sub.Events())
	assert.Equal(t, base.Add(time.Second).UnixMilli(), replayed.Location.Ts)

	select {
	case event := <-sub.Events():
		t.Fatalf("expected a single replayed event, got second: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcast_DeliveredStatus_ClosesSubscriptions(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, statusEvent(t, task.Delivered, &agentID)))

	final := receiveEvent(t, sub.Events())
	assert.Equal(t, "DELIVERED", final.Status.Status)
	requireClosed(t, sub.Events())
}

func TestSubscribe_AfterDelivery_ReplaysFinalStatusThenCloses(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, locationEvent(t, agentID, time.Now())))
	require.NoError(t, hub.Broadcast(t.Context(), taskID, statusEvent(t, task.Delivered, &agentID)))

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	final := receiveEvent(t, sub.Events())
	assert.Equal(t, tracking.EventStatus, final.Kind)
	assert.Equal(t, "DELIVERED", final.Status.Status)
	requireClosed(t, sub.Events())
}

func TestBroadcast_AfterDelivery_IsNoOp(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, statusEvent(t, task.Delivered, &agentID)))
	require.NoError(t, hub.Broadcast(t.Context(), taskID, locationEvent(t, agentID, time.Now())))

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	final := receiveEvent(t, sub.Events())
	assert.Equal(t, tracking.EventStatus, final.Kind)
	requireClosed(t, sub.Events())
}

func TestClose_IsIdempotent(t *testing.T) {
	hub := broadcast.NewHub()

	sub, err := hub.Subscribe(t.Context(), kernel.NewUUID())
	require.NoError(t, err)

	sub.Close()
	sub.Close()
	requireClosed(t, sub.Events())
}

func TestClose_StopsDelivery(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	sub.Close()

	require.NoError(t, hub.Broadcast(t.Context(), taskID, statusEvent(t, task.Assigned, &agentID)))
	requireClosed(t, sub.Events())
}

func TestSlowSubscriber_DropsOldestNotNewest(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()
	agentID := kernel.NewUUID()
	base := time.Now()

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)
	defer sub.Close()

	// Overflow the subscriber buffer without draining it.
	for i := 0; i < 40; i++ {
		event := locationEvent(t, agentID, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, hub.Broadcast(t.Context(), taskID, event))
	}

	var last tracking.Event
	drained := 0
	for {
		select {
		case event := <-sub.Events():
			last = event
			drained++
			continue
		case <-time.After(50 * time.Millisecond):
		}
		break
	}

	assert.Less(t, drained, 40)
	assert.Equal(t, base.Add(39*time.Second).UnixMilli(), last.Location.Ts)
}

func TestShutdown_ClosesFeedsAndRejectsSubscribers(t *testing.T) {
	hub := broadcast.NewHub()
	taskID := kernel.NewUUID()

	sub, err := hub.Subscribe(t.Context(), taskID)
	require.NoError(t, err)

	hub.Shutdown()
	requireClosed(t, sub.Events())

	_, err = hub.Subscribe(t.Context(), taskID)
	require.ErrorIs(t, err, broadcast.ErrHubClosed)

	err = hub.Broadcast(t.Context(), taskID, statusEvent(t, task.Assigned, nil))
	require.ErrorIs(t, err, broadcast.ErrHubClosed)
}
