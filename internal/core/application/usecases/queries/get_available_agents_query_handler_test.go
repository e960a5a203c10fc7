package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/agentrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the repository's aggregate tracking without a unit of
// work; query tests only need seeded rows.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type GetAvailableAgentsQueryHandlerTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *agentrepo.GormAgentRepository
	handler    queries.GetAvailableAgentsQueryHandler
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) SetupSuite() {
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

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&agentrepo.AgentDTO{}))

	suite.repository = agentrepo.NewGormAgentRepository(db, noopTracker{})
	suite.handler = queries.NewGetAvailableAgentsQueryHandler(db)
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE agents").Error)
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) seedAgent(
	restaurantID kernel.UUID,
	name string,
	load int,
	maxLoad int,
	state agent.ActivationState,
	available bool,
) *agent.Agent {
	executor, err := agent.NewAgent(kernel.NewUUID(), restaurantID, name, maxLoad)
	suite.Require().NoError(err)
	suite.Require().NoError(executor.SetActivationState(agent.Active))
	suite.Require().NoError(executor.SetAvailability(true))
	for range load {
		suite.Require().NoError(executor.AcquireSlot())
	}
	suite.Require().NoError(executor.SetActivationState(state))
	suite.Require().NoError(executor.SetAvailability(available))

	suite.Require().NoError(suite.repository.Add(context.Background(), executor))
	return executor
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query, err := queries.NewGetAvailableAgentsQuery(kernel.NewUUID(), 3)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TestHandle_OrdersByLoadThenName() {
	restaurantID := kernel.NewUUID()
	busy := suite.seedAgent(restaurantID, "Zoe", 2, 3, agent.Active, true)
	idle := suite.seedAgent(restaurantID, "Mia", 0, 3, agent.Active, true)
	mid := suite.seedAgent(restaurantID, "Ben", 1, 3, agent.Active, true)

	query, err := queries.NewGetAvailableAgentsQuery(restaurantID, 3)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)
	suite.True(result[0].ID.IsEqual(idle.ID()))
	suite.True(result[1].ID.IsEqual(mid.ID()))
	suite.True(result[2].ID.IsEqual(busy.ID()))
	suite.Equal(0, result[0].CurrentLoad)
	suite.Equal(3, result[0].MaxLoad)
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TestHandle_NameBreaksLoadTies() {
	restaurantID := kernel.NewUUID()
	suite.seedAgent(restaurantID, "Noah", 1, 3, agent.Active, true)
	suite.seedAgent(restaurantID, "Ava", 1, 3, agent.Active, true)

	query, err := queries.NewGetAvailableAgentsQuery(restaurantID, 3)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal("Ava", result[0].Name)
	suite.Equal("Noah", result[1].Name)
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TestHandle_ExcludesNonDispatchableAgents() {
	restaurantID := kernel.NewUUID()
	dispatchable := suite.seedAgent(restaurantID, "Dana", 0, 2, agent.Active, true)
	suite.seedAgent(restaurantID, "Full", 2, 2, agent.Active, true)
	suite.seedAgent(restaurantID, "Away", 0, 2, agent.Active, false)
	suite.seedAgent(restaurantID, "Benched", 0, 2, agent.Suspended, false)
	suite.seedAgent(kernel.NewUUID(), "Elsewhere", 0, 2, agent.Active, true)

	query, err := queries.NewGetAvailableAgentsQuery(restaurantID, 3)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(dispatchable.ID()))
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TestHandle_CallerThresholdTightensAgentCap() {
	restaurantID := kernel.NewUUID()
	idle := suite.seedAgent(restaurantID, "Mia", 0, 5, agent.Active, true)
	light := suite.seedAgent(restaurantID, "Ben", 1, 5, agent.Active, true)
	suite.seedAgent(restaurantID, "Zoe", 2, 5, agent.Active, true)

	query, err := queries.NewGetAvailableAgentsQuery(restaurantID, 2)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.True(result[0].ID.IsEqual(idle.ID()))
	suite.True(result[1].ID.IsEqual(light.ID()))
}

func (suite *GetAvailableAgentsQueryHandlerTestSuite) TestNewQuery_RejectsNonPositiveMaxLoad() {
	_, err := queries.NewGetAvailableAgentsQuery(kernel.NewUUID(), 0)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func TestGetAvailableAgentsQueryHandlerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(GetAvailableAgentsQueryHandlerTestSuite))
}
