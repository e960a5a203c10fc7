package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

// Shared mocks for the command handler tests. Every handler talks to the same
// small set of ports, so one set of mocks serves all of them.

type MockAgentRepository struct{ mock.Mock }

func (m *MockAgentRepository) Add(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, a *agent.Agent) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agent.Agent), args.Error(1)
}

type MockTaskRepository struct{ mock.Mock }

func (m *MockTaskRepository) Add(ctx context.Context, tsk *task.DeliveryTask) error {
	args := m.Called(ctx, tsk)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, tsk *task.DeliveryTask) error {
	args := m.Called(ctx, tsk)
	return args.Error(0)
}

func (m *MockTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.DeliveryTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.DeliveryTask), args.Error(1)
}

func (m *MockTaskRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*task.DeliveryTask, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.DeliveryTask), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) AgentRepository() ports.AgentRepository {
	args := m.Called()
	return args.Get(0).(ports.AgentRepository)
}

func (m *MockUoW) TaskRepository() ports.TaskRepository {
	args := m.Called()
	return args.Get(0).(ports.TaskRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTaskUoWFactory struct{ mock.Mock }

func (m *MockTaskUoWFactory) Create() commands.TaskUoW {
	args := m.Called()
	return args.Get(0).(commands.TaskUoW)
}

type MockAgentUoWFactory struct{ mock.Mock }

func (m *MockAgentUoWFactory) Create() commands.AgentUoW {
	args := m.Called()
	return args.Get(0).(commands.AgentUoW)
}

type MockTrackingPublisher struct{ mock.Mock }

func (m *MockTrackingPublisher) PublishLocation(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample) {
	m.Called(ctx, taskID, sample)
}

func (m *MockTrackingPublisher) PublishStatus(ctx context.Context, taskID kernel.UUID, status tracking.StatusWire) {
	m.Called(ctx, taskID, status)
}

type MockOrderLifecycleNotifier struct{ mock.Mock }

func (m *MockOrderLifecycleNotifier) OnDeliveryCompleted(ctx context.Context, orderID kernel.UUID, deliveredAt time.Time) {
	m.Called(ctx, orderID, deliveredAt)
}

type MockLocationStore struct{ mock.Mock }

func (m *MockLocationStore) Put(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample) (bool, error) {
	args := m.Called(ctx, taskID, sample)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationStore) Get(ctx context.Context, taskID kernel.UUID) (tracking.LocationSample, bool, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(tracking.LocationSample), args.Bool(1), args.Error(2)
}

func (m *MockLocationStore) Remove(ctx context.Context, taskID kernel.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

type MockCompletionRedriver struct{ mock.Mock }

func (m *MockCompletionRedriver) RedriveCompletions(ctx context.Context) {
	m.Called(ctx)
}

type MockDegradedBroadcasts struct{ mock.Mock }

func (m *MockDegradedBroadcasts) Degraded(ctx context.Context) ([]kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockDegradedBroadcasts) Resolve(ctx context.Context, taskID kernel.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}
