package app

import (
	"fmt"
	"log"
	"time"

	"userapi/internal/config"
	"userapi/internal/database"
	"userapi/internal/handlers"
	"userapi/internal/middleware"
	"userapi/internal/repositories"
	"userapi/internal/services"
	"userapi/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// App bundles the HTTP server with the resources it owns.
type App struct {
	Fiber   *fiber.App
	Config  config.Config
	closers []func() error
}

// New wires repositories, services and handlers according to cfg.
func New(cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	userRepo, err := a.openUserRepository(cfg.Database)
	if err != nil {
		a.Close()
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.closers = append(a.closers, mqClient.Close)
		publisher = mqClient

		if cfg.RabbitMQ.Consume {
			if err := mqClient.ConsumeUserEvents(rabbitmq.LogUserEvent); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to start RabbitMQ consumer: %w", err)
			}
		}
	} else {
		log.Println("RABBITMQ_URL not set, user events will not be published.")
	}

	userService := services.NewUserService(userRepo, publisher, cfg.UsersDefaultLimit)
	userHandler := handlers.NewUserHandler(userService)

	var writeGuards []fiber.Handler
	if cfg.JWTSecret != "" {
		tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
		writeGuards = append(writeGuards, middleware.AuthRequired(tokenService))
	}

	app := fiber.New(fiber.Config{AppName: "userapi"})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	userHandler.RegisterRoutes(app, writeGuards...)

	a.Fiber = app
	return a, nil
}

// Close releases database and broker connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing app: %v", errs)
	}
	return nil
}

func (a *App) openUserRepository(cfg config.DatabaseConfig) (repositories.UserRepository, error) {
	if cfg.Driver == config.DriverMemory {
		return repositories.NewMockUserRepository(), nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	a.closers = append(a.closers, sqlDB.Close)

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return repositories.NewGORMUserRepository(db), nil
}
