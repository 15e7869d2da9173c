package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/freeflowhq/automation-engine/pkg/eventbus"
	"github.com/freeflowhq/automation-engine/pkg/persistence"
	"github.com/freeflowhq/automation-engine/pkg/registry"
	"github.com/freeflowhq/automation-engine/pkg/runner"
	"github.com/freeflowhq/automation-engine/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	var publisher eventbus.EventPublisher
	if a.eventBus != nil {
		publisher = a.eventBus
	}

	engine := runner.NewRunner(a.persistence, a.registry, publisher, a.tracer, a.logger)
	handlers := web.NewAPIHandlers(a.persistence, a.registry, engine, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Automation Engine API")
	})

	g := app.Group("/automations")
	g.Get("/", handlers.ListAutomations)
	g.Post("/", handlers.CreateAutomation)
	g.Get("/:id", handlers.GetAutomation)
	g.Delete("/:id", handlers.DeleteAutomation)
	g.Post("/:id/run", handlers.RunAutomation)
	g.Get("/:id/executions", handlers.ListExecutions)

	app.Get("/executions/:id", handlers.GetExecution)
	app.Get("/action-types", handlers.ListActionTypes)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
