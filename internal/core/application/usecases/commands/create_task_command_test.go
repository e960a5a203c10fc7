package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateTaskCommand_ValidInput(t *testing.T) {
	taskID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	restaurantID := kernel.NewUUID()
	pickup := testAddress(t, "1 Restaurant Row")
	dropoff := testAddress(t, "9 Customer Close")

	cmd, err := commands.NewCreateTaskCommand(taskID, orderID, restaurantID, pickup, dropoff)

	require.NoError(t, err)
	assert.Equal(t, taskID, cmd.TaskID())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, restaurantID, cmd.RestaurantID())
	assert.True(t, cmd.Pickup().IsEqual(pickup))
	assert.True(t, cmd.Dropoff().IsEqual(dropoff))
}

func TestNewCreateTaskCommand_InvalidTaskID(t *testing.T) {
	_, err := commands.NewCreateTaskCommand(
		kernel.UUID{},
		kernel.NewUUID(),
		kernel.NewUUID(),
		testAddress(t, "1 Restaurant Row"),
		testAddress(t, "9 Customer Close"),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewCreateTaskCommand_MissingDropoff(t *testing.T) {
	_, err := commands.NewCreateTaskCommand(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		testAddress(t, "1 Restaurant Row"),
		kernel.Address{},
	)

	require.Error(t, err)
}

func TestCreateTaskCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.CreateTaskCommand{}
	require.ErrorIs(t, cmd.Validate(), commands.ErrCreateTaskCommandIsNotConstructed)
}
