package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/api/middleware"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/cache"
	"github.com/phrazzld/tasktrack-api/internal/platform/natsbus"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Optional integrations; nil when not configured.
	publisher *natsbus.Publisher
	cache     *cache.UserExistenceCache

	jwtService          auth.JWTService
	taskService         service.TaskService
	userService         service.UserService
	subscriptionService service.SubscriptionService

	limiter *middleware.RateLimiter
}

// newApplication wires the services over st.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, st store.Store) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	emitter, err := app.setupEvents(cfg.Events)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	userOpts := []service.UserServiceOption{service.WithTokenService(app.jwtService)}
	if cfg.Cache.RedisAddr != "" {
		app.cache, err = cache.Connect(ctx, cfg.Cache.RedisAddr, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		userOpts = append(userOpts, service.WithExistenceCache(app.cache))
		logger.Info("user existence cache enabled", "ttl_seconds", cfg.Cache.TTLSeconds)
	}

	app.taskService, err = service.NewTaskService(st, emitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.userService, err = service.NewUserService(st.Users(), auth.NewBcrypt(cfg.Auth.BcryptCost), logger, userOpts...)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.subscriptionService, err = service.NewSubscriptionService(st.Subscriptions(), logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create subscription service: %w", err)
	}

	app.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	return app, nil
}

// setupEvents publishes task events to NATS when a URL is configured and
// discards them otherwise.
func (app *application) setupEvents(cfg config.EventsConfig) (events.EventEmitter, error) {
	if cfg.NATSURL == "" {
		app.logger.Info("event publication disabled")
		return events.NopEmitter{}, nil
	}

	publisher, err := natsbus.Connect(cfg.NATSURL, cfg.SubjectPrefix, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	app.publisher = publisher

	emitter := events.NewInMemoryEventEmitter(app.logger)
	emitter.RegisterHandler(publisher)
	app.logger.Info("publishing task events", "subject_prefix", cfg.SubjectPrefix)
	return emitter, nil
}

// cleanup releases the optional integrations.
func (app *application) cleanup() {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("failed to close NATS connection", "error", err)
		}
	}
	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("failed to close redis client", "error", err)
		}
	}
}
