package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

func testAddress(t *testing.T, street string) kernel.Address {
	t.Helper()
	address, err := kernel.NewAddress(street, "Testville")
	require.NoError(t, err)
	return address
}

func newPendingTask(t *testing.T, restaurantID kernel.UUID) *task.DeliveryTask {
	t.Helper()
	deliveryTask, err := task.NewDeliveryTask(
		kernel.NewUUID(),
		kernel.NewUUID(),
		restaurantID,
		testAddress(t, "1 Restaurant Row"),
		testAddress(t, "9 Customer Close"),
	)
	require.NoError(t, err)
	return deliveryTask
}

func newActiveAgent(t *testing.T, restaurantID kernel.UUID) *agent.Agent {
	t.Helper()
	executor, err := agent.NewAgent(kernel.NewUUID(), restaurantID, "Dana", 3)
	require.NoError(t, err)
	require.NoError(t, executor.SetActivationState(agent.Active))
	require.NoError(t, executor.SetAvailability(true))
	return executor
}

// newAssignedPair returns a task in the given status together with the agent
// working it, wired up through the real dispatch service.
func newAssignedPair(t *testing.T, status task.Status) (*task.DeliveryTask, *agent.Agent) {
	t.Helper()
	restaurantID := kernel.NewUUID()
	executor := newActiveAgent(t, restaurantID)
	deliveryTask := newPendingTask(t, restaurantID)
	require.NoError(t, services.NewTaskDispatcher().Assign(deliveryTask, executor, time.Now()))

	for _, next := range []task.Status{task.PickedUp, task.OnTheWay, task.Delivered} {
		if deliveryTask.Status() == status {
			break
		}
		require.NoError(t, deliveryTask.AdvanceTo(next, time.Now()))
	}
	require.Equal(t, status, deliveryTask.Status())

	return deliveryTask, executor
}
