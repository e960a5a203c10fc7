package cmd

import (
	"log/slog"
	"os"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/broadcast"
	"dispatch/internal/adapters/out/orderwebhook"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redis/locationstore"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. All shared
// infrastructure (database, redis, tracking hub) is created once here;
// handlers are cheap values created per call site.
type CompositionRoot struct {
	config        Config
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	locationStore ports.LocationStore
	hub           *broadcast.Hub
	publisher     *broadcast.Publisher
	notifier      *orderwebhook.Notifier
	logger        *slog.Logger
}

// NewCompositionRoot builds the object graph over the given connections.
func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *goredis.Client) (*CompositionRoot, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	store, err := locationstore.NewStore(redisClient, config.LocationTTL)
	if err != nil {
		return nil, err
	}

	hub := broadcast.NewHub()
	publisher := broadcast.NewPublisher(
		hub,
		logger,
		broadcast.WithAttempts(config.BroadcastAttempts),
		broadcast.WithDelay(config.BroadcastDelay),
	)

	notifier, err := orderwebhook.NewNotifier(config.OrderWebhookURL, nil, logger)
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		config:        config,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		locationStore: store,
		hub:           hub,
		publisher:     publisher,
		notifier:      notifier,
		logger:        logger,
	}, nil
}

// Logger returns the application logger.
func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

// Hub returns the live tracking fanout; main shuts it down on exit.
func (c *CompositionRoot) Hub() *broadcast.Hub {
	return c.hub
}

// Notifier returns the completion webhook; main drains it on exit.
func (c *CompositionRoot) Notifier() *orderwebhook.Notifier {
	return c.notifier
}

func (c *CompositionRoot) agentUoWFactory() commands.AgentUoWFactory {
	return FuncAgentUoWFactory(func() commands.AgentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) taskUoWFactory() commands.TaskUoWFactory {
	return FuncTaskUoWFactory(func() commands.TaskUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateTaskCommandHandler() commands.CreateTaskCommandHandler {
	return commands.NewCreateTaskCommandHandler(c.taskUoWFactory())
}

func (c *CompositionRoot) CreateCreateAgentCommandHandler() commands.CreateAgentCommandHandler {
	return commands.NewCreateAgentCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateSetAgentAvailabilityCommandHandler() commands.SetAgentAvailabilityCommandHandler {
	return commands.NewSetAgentAvailabilityCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateSetAgentActivationCommandHandler() commands.SetAgentActivationCommandHandler {
	return commands.NewSetAgentActivationCommandHandler(c.agentUoWFactory())
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateUnassignAgentCommandHandler() commands.UnassignAgentCommandHandler {
	return commands.NewUnassignAgentCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAdvanceStatusCommandHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(c.fullUoWFactory(), c.publisher, c.notifier, c.locationStore)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(c.taskUoWFactory(), c.locationStore, c.publisher)
}

func (c *CompositionRoot) CreateRedriveBroadcastsCommandHandler() commands.RedriveBroadcastsCommandHandler {
	return commands.NewRedriveBroadcastsCommandHandler(c.publisher, c.taskUoWFactory(), c.locationStore, c.publisher, c.notifier)
}

func (c *CompositionRoot) CreateGetAvailableAgentsQueryHandler() queries.GetAvailableAgentsQueryHandler {
	return queries.NewGetAvailableAgentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTaskTrackingQueryHandler() queries.GetTaskTrackingQueryHandler {
	return queries.NewGetTaskTrackingQueryHandler(c.gormDB, c.locationStore)
}

// CreateHTTPServer assembles the REST and SSE surface.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateTaskCommandHandler(),
		c.CreateCreateAgentCommandHandler(),
		c.CreateSetAgentAvailabilityCommandHandler(),
		c.CreateSetAgentActivationCommandHandler(),
		c.CreateAssignAgentCommandHandler(),
		c.CreateUnassignAgentCommandHandler(),
		c.CreateAdvanceStatusCommandHandler(),
		c.CreateReportLocationCommandHandler(),
		c.CreateGetAvailableAgentsQueryHandler(),
		c.CreateGetTaskTrackingQueryHandler(),
		c.hub,
	)
}

// CreateJobManager assembles the background jobs. Returns nil when the
// redrive sweep is disabled by configuration.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.config.RedriveDisabled {
		return nil
	}
	return jobs.NewJobManager(c.CreateRedriveBroadcastsCommandHandler(), c.logger)
}

type FuncAgentUoWFactory func() commands.AgentUoW

func (f FuncAgentUoWFactory) Create() commands.AgentUoW {
	return f()
}

type FuncTaskUoWFactory func() commands.TaskUoW

func (f FuncTaskUoWFactory) Create() commands.TaskUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
