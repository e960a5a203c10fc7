package taskrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/taskrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// TaskRepositoryIntegrationTestSuite provides integration tests for TaskRepository
// using PostgreSQL containers to verify database persistence behavior, the
// one-task-per-order unique index and the optimistic version guard.
type TaskRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *taskrepo.GormTaskRepository
	tracker    *MockAggregateTracker
}

func (suite *TaskRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	// TranslateError maps the unique index violation on order_id to
	// gorm.ErrDuplicatedKey, which Add relies on.
	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&taskrepo.TaskDTO{}))
}

func (suite *TaskRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE delivery_tasks").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = taskrepo.NewGormTaskRepository(suite.db, suite.tracker)
}

func (suite *TaskRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *TaskRepositoryIntegrationTestSuite) createPendingTask(orderID kernel.UUID) *task.DeliveryTask {
	pickup, err := kernel.NewAddress("12 Curry Lane", "Springfield")
	suite.Require().NoError(err)
	dropoff, err := kernel.NewAddress("7 Elm Street", "Springfield")
	suite.Require().NoError(err)

	deliveryTask, err := task.NewDeliveryTask(kernel.NewUUID(), orderID, kernel.NewUUID(), pickup, dropoff)
	suite.Require().NoError(err)
	return deliveryTask
}

func (suite *TaskRepositoryIntegrationTestSuite) TestAdd_ValidTask_Success() {
	ctx := context.Background()
	deliveryTask := suite.createPendingTask(kernel.NewUUID())

	suite.tracker.On("TrackAggregate", deliveryTask.ID(), deliveryTask).Once()

	err := suite.repository.Add(ctx, deliveryTask)
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Table("delivery_tasks").Count(&count).Error)
	suite.Equal(int64(1), count)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestAdd_SecondTaskForOrder_DuplicateOrderTask() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	first := suite.createPendingTask(orderID)
	second := suite.createPendingTask(orderID)

	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	err := suite.repository.Add(ctx, second)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, ports.ErrDuplicateOrderTask)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGet_RoundTripPreservesState() {
	ctx := context.Background()
	deliveryTask := suite.createPendingTask(kernel.NewUUID())
	agentID := kernel.NewUUID()
	assignedAt := time.Now().UTC().Truncate(time.Millisecond)
	suite.Require().NoError(deliveryTask.Assign(agentID, assignedAt))

	suite.tracker.On("TrackAggregate", deliveryTask.ID(), deliveryTask).Once()
	suite.Require().NoError(suite.repository.Add(ctx, deliveryTask))

	restored, err := suite.repository.Get(ctx, deliveryTask.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(deliveryTask.ID()))
	suite.True(restored.OrderID().IsEqual(deliveryTask.OrderID()))
	suite.Equal(task.Assigned, restored.Status())
	suite.Require().NotNil(restored.AgentID())
	suite.True(restored.AgentID().IsEqual(agentID))
	suite.Require().NotNil(restored.AssignedAt())
	suite.True(restored.AssignedAt().Equal(assignedAt))
	suite.Equal("12 Curry Lane", restored.Pickup().Street())
	suite.Equal("7 Elm Street", restored.Dropoff().Street())
	suite.Equal(int64(1), restored.Version())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGetByOrderID_ReturnsTask() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	deliveryTask := suite.createPendingTask(orderID)

	suite.tracker.On("TrackAggregate", deliveryTask.ID(), deliveryTask).Once()
	suite.Require().NoError(suite.repository.Add(ctx, deliveryTask))

	restored, err := suite.repository.GetByOrderID(ctx, orderID)
	suite.Require().NoError(err)
	suite.True(restored.ID().IsEqual(deliveryTask.ID()))
}

func (suite *TaskRepositoryIntegrationTestSuite) TestUpdate_BumpsStoredVersion() {
	ctx := context.Background()
	deliveryTask := suite.createPendingTask(kernel.NewUUID())

	suite.tracker.On("TrackAggregate", deliveryTask.ID(), deliveryTask).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, deliveryTask))

	suite.Require().NoError(deliveryTask.Assign(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, deliveryTask))

	restored, err := suite.repository.Get(ctx, deliveryTask.ID())
	suite.Require().NoError(err)
	suite.Equal(task.Assigned, restored.Status())
	suite.Equal(int64(2), restored.Version())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *TaskRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ConcurrencyConflict() {
	ctx := context.Background()
	deliveryTask := suite.createPendingTask(kernel.NewUUID())

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, deliveryTask))

	// Two loads of the same row; the second write loses the race.
	winner, err := suite.repository.Get(ctx, deliveryTask.ID())
	suite.Require().NoError(err)
	loser, err := suite.repository.Get(ctx, deliveryTask.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(winner.Assign(kernel.NewUUID(), time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, winner))

	suite.Require().NoError(loser.Assign(kernel.NewUUID(), time.Now().UTC()))
	err = suite.repository.Update(ctx, loser)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestUpdate_MissingTask_ConcurrencyConflict() {
	deliveryTask := suite.createPendingTask(kernel.NewUUID())

	err := suite.repository.Update(context.Background(), deliveryTask)

	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConcurrencyConflict)
}

func TestTaskRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(TaskRepositoryIntegrationTestSuite))
}
