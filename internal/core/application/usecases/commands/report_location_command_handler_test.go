package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReportLocationCommand(t *testing.T, taskID, agentID kernel.UUID) commands.ReportLocationCommand {
	t.Helper()
	cmd, err := commands.NewReportLocationCommand(taskID, agentID, 41.0082, 28.9784, 4.2, 90, time.Now())
	require.NoError(t, err)
	return cmd
}

func TestReportLocationCommandHandler_Handle_StoresAndPublishes(t *testing.T) {
	ctx := t.Context()
	deliveryTask, executor := newAssignedPair(t, task.OnTheWay)
	cmd := newReportLocationCommand(t, deliveryTask.ID(), executor.ID())

	taskRepo := new(MockTaskRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, deliveryTask.ID()).Return(deliveryTask, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	store := new(MockLocationStore)
	store.On("Put", ctx, deliveryTask.ID(), cmd.Sample()).Return(true, nil).Once()

	publisher := new(MockTrackingPublisher)
	publisher.On("PublishLocation", ctx, deliveryTask.ID(), cmd.Sample()).Once()

	handler := commands.NewReportLocationCommandHandler(factory, store, publisher)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReportLocationCommandHandler_Handle_StaleSampleDropped(t *testing.T) {
	ctx := t.Context()
	deliveryTask, executor := newAssignedPair(t, task.PickedUp)
	cmd := newReportLocationCommand(t, deliveryTask.ID(), executor.ID())

	taskRepo := new(MockTaskRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, deliveryTask.ID()).Return(deliveryTask, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	store := new(MockLocationStore)
	store.On("Put", ctx, deliveryTask.ID(), cmd.Sample()).Return(false, nil).Once()

	publisher := new(MockTrackingPublisher)

	handler := commands.NewReportLocationCommandHandler(factory, store, publisher)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	publisher.AssertNotCalled(t, "PublishLocation", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportLocationCommandHandler_Handle_DeliveredTask(t *testing.T) {
	ctx := t.Context()
	deliveryTask, executor := newAssignedPair(t, task.Delivered)
	cmd := newReportLocationCommand(t, deliveryTask.ID(), executor.ID())

	taskRepo := new(MockTaskRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, deliveryTask.ID()).Return(deliveryTask, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	store := new(MockLocationStore)
	publisher := new(MockTrackingPublisher)

	handler := commands.NewReportLocationCommandHandler(factory, store, publisher)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, task.ErrAlreadyDelivered)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportLocationCommandHandler_Handle_WrongAgent(t *testing.T) {
	ctx := t.Context()
	deliveryTask, _ := newAssignedPair(t, task.OnTheWay)
	cmd := newReportLocationCommand(t, deliveryTask.ID(), kernel.NewUUID())

	taskRepo := new(MockTaskRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, deliveryTask.ID()).Return(deliveryTask, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	store := new(MockLocationStore)
	publisher := new(MockTrackingPublisher)

	handler := commands.NewReportLocationCommandHandler(factory, store, publisher)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrReporterNotAssigned)
}

func TestReportLocationCommandHandler_Handle_NotTrackingYet(t *testing.T) {
	ctx := t.Context()
	deliveryTask, executor := newAssignedPair(t, task.Assigned)
	cmd := newReportLocationCommand(t, deliveryTask.ID(), executor.ID())

	taskRepo := new(MockTaskRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("TaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, deliveryTask.ID()).Return(deliveryTask, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTaskUoWFactory)
	factory.On("Create").Return(uow).Once()

	store := new(MockLocationStore)
	publisher := new(MockTrackingPublisher)

	handler := commands.NewReportLocationCommandHandler(factory, store, publisher)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrTaskNotTracking)
	assert.Equal(t, task.Assigned, deliveryTask.Status())
}
