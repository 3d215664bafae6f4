package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"landora/internal/config"
	"landora/internal/handlers"
	"landora/internal/logger"
	"landora/internal/middleware"
	"landora/internal/models"
	"landora/internal/repositories"
	"landora/internal/services"
	"landora/internal/validation"
	"landora/pkg/cache"
	"landora/pkg/rabbitmq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, closeLogger, err := logger.New(logger.Config{
		Level:         cfg.Log.Level,
		Format:        cfg.Log.Format,
		Color:         cfg.Log.Color,
		FluentEnabled: cfg.FluentBit.Enabled,
		FluentHost:    cfg.FluentBit.Host,
		FluentPort:    cfg.FluentBit.Port,
		FluentTag:     cfg.FluentBit.Tag,
	})
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer closeLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	go func() {
		log.Info("Starting server", "port", cfg.Port, "store", cfg.Store.Driver)
		if err := app.Listen(cfg.Port); err != nil {
			log.Error("Server failed to start", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("Error during Fiber shutdown", "error", err)
	}
	log.Info("Server gracefully stopped")
}

// newApp wires stores, cache, messaging and routes. The returned cleanup
// releases every connection that was opened.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error("Error during cleanup", "error", err)
			}
		}
	}
	fail := func(err error) (*fiber.App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	propertyRepo, userRepo, closeStore, err := openStores(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeStore)

	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, redisCache.Close)
		propertyRepo = repositories.NewCachedPropertyRepository(propertyRepo, redisCache, cfg.Redis.TTL, log)
		log.Info("Property cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
			Queue:    cfg.RabbitMQ.Queue,
		}, log)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, mqClient.Close)
		publisher = mqClient

		if err := mqClient.ConsumeEvents(logPropertyEvent(log)); err != nil {
			log.Error("Failed to start RabbitMQ consumer", "error", err)
		}
	}

	propertyService := services.NewPropertyService(propertyRepo, publisher, log)
	if cfg.Store.Seed {
		seedProperties(ctx, propertyService, log)
	}

	schema, err := validation.NewPropertySchema()
	if err != nil {
		return fail(err)
	}
	propertyHandler := handlers.NewPropertyHandler(propertyService, schema)

	app := fiber.New(fiber.Config{AppName: cfg.AppName})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.Store.Driver,
		})
	})

	apiV1 := app.Group("/api/v1")
	if cfg.Auth.Enabled {
		authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
		propertyHandler.RegisterRoutes(apiV1, middleware.AuthRequired(authService))
	} else {
		propertyHandler.RegisterRoutes(apiV1)
	}

	return app, cleanup, nil
}

// openStores returns the property and user repositories for the configured driver.
func openStores(ctx context.Context, cfg *config.Config) (repositories.PropertyRepository, repositories.UserRepository, func() error, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return repositories.NewMockPropertyRepository(), repositories.NewMockUserRepository(), func() error { return nil }, nil

	case config.DriverSQLite, config.DriverPostgres:
		dialector := sqlite.Open(cfg.Store.DSN)
		if cfg.Store.Driver == config.DriverPostgres {
			dialector = postgres.Open(cfg.Store.DSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		if err := db.WithContext(ctx).AutoMigrate(&models.Property{}, &models.User{}); err != nil {
			sqlDB.Close()
			return nil, nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
		}
		return repositories.NewGORMPropertyRepository(db), repositories.NewGORMUserRepository(db), sqlDB.Close, nil

	case config.DriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		disconnect := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(ctx)
		}
		if err := client.Ping(ctx, nil); err != nil {
			disconnect()
			return nil, nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		db := client.Database(cfg.Store.MongoDatabase)
		userRepo, err := repositories.NewMongoUserRepository(ctx, db.Collection("users"))
		if err != nil {
			disconnect()
			return nil, nil, nil, err
		}
		return repositories.NewMongoPropertyRepository(db.Collection(cfg.Store.MongoCollection)), userRepo, disconnect, nil
	}
	return nil, nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// logPropertyEvent returns a consumer handler that records each event.
func logPropertyEvent(log *slog.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.PropertyEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("malformed property event: %w", err)
		}
		if event.PropertyID == "" {
			return errors.New("property event without property id")
		}
		log.Info("Received property event",
			"type", event.Type,
			"property_id", event.PropertyID,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}

func boolPtr(b bool) *bool { return &b }

// seedProperties adds demo listings when the store is empty.
func seedProperties(ctx context.Context, service *services.PropertyService, log *slog.Logger) {
	existing, err := service.GetAllProperties(ctx)
	if err != nil {
		log.Error("Error checking properties before seeding", "error", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	demo := []services.PropertyInput{
		{Name: "Beach Cottage", Location: "Goa", Price: 500000, Description: "Sea view", Availability: boolPtr(true)},
		{Name: "Lake House", Location: "Udaipur", Price: 820000, Description: "Quiet house by the lake, three bedrooms", Availability: boolPtr(true)},
		{Name: "Hill Cabin", Location: "Manali", Price: 310000.5, Description: "Wooden cabin, snow in winter", Availability: boolPtr(false)},
	}
	for _, in := range demo {
		p, err := service.CreateProperty(ctx, in)
		if err != nil {
			log.Error("Error seeding property", "name", in.Name, "error", err)
			continue
		}
		log.Info("Seeded property", "name", p.Name, "property_id", p.ID)
	}
}
