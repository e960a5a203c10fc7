package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateAgentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateAgentCommand(kernel.NewUUID(), kernel.NewUUID(), "Dana", 0)
	require.NoError(t, err)

	repo := new(MockAgentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateAgentCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)

	created := repo.Calls[0].Arguments[1].(*agent.Agent)
	assert.Equal(t, agent.Pending, created.ActivationState())
	assert.False(t, created.IsAvailable())
	assert.Equal(t, 0, created.CurrentLoad())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSetAgentAvailabilityCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	restaurantID := kernel.NewUUID()
	executor := newActiveAgent(t, restaurantID)
	require.NoError(t, executor.SetAvailability(false))

	cmd, err := commands.NewSetAgentAvailabilityCommand(executor.ID(), true)
	require.NoError(t, err)

	repo := new(MockAgentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, executor.ID()).Return(executor, nil).Once(),
		repo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, executor.IsAvailable())
	uow.AssertExpectations(t)
}

func TestSetAgentAvailabilityCommandHandler_Handle_InactiveAgent(t *testing.T) {
	ctx := t.Context()
	executor, err := agent.NewAgent(kernel.NewUUID(), kernel.NewUUID(), "Dana", 3)
	require.NoError(t, err)

	cmd, err := commands.NewSetAgentAvailabilityCommand(executor.ID(), true)
	require.NoError(t, err)

	repo := new(MockAgentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, executor.ID()).Return(executor, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAgentAvailabilityCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, agent.ErrAgentInactive)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSetAgentActivationCommandHandler_Handle_SuspensionClearsAvailability(t *testing.T) {
	ctx := t.Context()
	executor := newActiveAgent(t, kernel.NewUUID())

	cmd, err := commands.NewSetAgentActivationCommand(executor.ID(), agent.Suspended)
	require.NoError(t, err)

	repo := new(MockAgentRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(repo).Once(),
		repo.On("GetForUpdate", ctx, executor.ID()).Return(executor, nil).Once(),
		repo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAgentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewSetAgentActivationCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, agent.Suspended, executor.ActivationState())
	assert.False(t, executor.IsAvailable())
	uow.AssertExpectations(t)
}

func TestSetAgentActivationCommand_InvalidState(t *testing.T) {
	_, err := commands.NewSetAgentActivationCommand(kernel.NewUUID(), agent.UnknownState)
	require.Error(t, err)
}
