package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/restaurantchain/order-backend/internal/api/rest"
	"github.com/restaurantchain/order-backend/internal/api/rest/handlers"
	"github.com/restaurantchain/order-backend/internal/api/rest/middlewares"
	"github.com/restaurantchain/order-backend/internal/authn"
	"github.com/restaurantchain/order-backend/internal/config"
	"github.com/restaurantchain/order-backend/internal/events"
	"github.com/restaurantchain/order-backend/internal/events/kafka"
	"github.com/restaurantchain/order-backend/internal/events/rabbitmq"
	"github.com/restaurantchain/order-backend/internal/keyfetcher"
	"github.com/restaurantchain/order-backend/internal/repository/orm"
	"github.com/restaurantchain/order-backend/internal/seed"
	"github.com/restaurantchain/order-backend/internal/service/order"
	"github.com/restaurantchain/order-backend/internal/telemetry"
	"github.com/restaurantchain/order-backend/internal/version"
)

const (
	ReadHeaderTimeout = 5 * time.Second
	ReadTimeout       = 10 * time.Second
	WriteTimeout      = 20 * time.Second
	IdleTimeout       = 120 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("version", version.Version),
	)

	if err := run(logger); err != nil {
		logger.Error("api_failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("load_config: %w", err)
	}
	logger.Info("api_starting",
		"port", cfg.Port,
		"db_driver", cfg.Database.Driver,
		"auth_enabled", cfg.Auth.Enabled,
		"events_backend", cfg.Events.Backend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("tracing_shutdown_failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	db, closeDB, err := orm.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		return err
	}
	defer closeDB()

	catalogRepo := orm.NewCatalogRepository(db)
	userRepo := orm.NewUserRepository(db)

	if cfg.SeedFile != "" {
		if err := applySeed(ctx, cfg.SeedFile, catalogRepo, userRepo); err != nil {
			logger.Error("seed_failed", "file", cfg.SeedFile, "error", err)
			return err
		}
		logger.Info("seed_applied", "file", cfg.SeedFile)
	}

	publisher, err := newPublisher(cfg.Events, logger)
	if err != nil {
		logger.Error("events_init_failed", "backend", cfg.Events.Backend, "error", err)
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("events_close_failed", "error", err)
		}
	}()

	service := order.NewService(
		orm.NewOrderRepository(db),
		logger,
		order.WithPublisher(publisher),
		order.WithRecorder(metrics),
		order.WithTracer(tp.Tracer("order-service")),
	)

	routerConfig := &rest.RouterConfig{
		OrderHandler:   handlers.NewOrderHandler(service, logger),
		CatalogHandler: handlers.NewCatalogHandler(catalogRepo, logger),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Middlewares: []middlewares.Middleware{
			middlewares.NewRequestIDMiddleware(),
			middlewares.NewAccessLogMiddleware(metrics, logger),
		},
	}

	if cfg.Auth.Enabled {
		if err := withAuth(routerConfig, cfg.Auth, db, userRepo, logger); err != nil {
			logger.Error("enforcer_init_failed", "engine", cfg.Auth.Engine, "error", err)
			return err
		}
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           rest.NewRouterWithHandlers(routerConfig),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("api_stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func applySeed(ctx context.Context, path string, catalog seed.CatalogSaver, users seed.UserSaver) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}

	return seed.Apply(ctx, f, catalog, users)
}

// newPublisher returns the event publisher for the configured backend.
func newPublisher(cfg config.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	switch cfg.Backend {
	case config.EventsRabbitMQ:
		return rabbitmq.NewPublisher(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Exchange, logger)
	case config.EventsKafka:
		return kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic), nil
	default:
		return events.NewLogPublisher(logger), nil
	}
}

// withAuth guards the API with the configured enforcer and exposes the sign-in endpoint.
func withAuth(
	rc *rest.RouterConfig,
	cfg config.AuthConfig,
	db *gorm.DB,
	users authn.UserRepository,
	logger *slog.Logger,
) error {
	e, err := newEnforcer(cfg.Engine, db, logger)
	if err != nil {
		return err
	}

	rc.AuthorisationMiddleware = middlewares.NewJWTAuthorizationMiddleware(
		e,
		keyfetcher.CachePublicKey(keyfetcher.FromBase64Env(cfg.PublicKeyEnv)),
		middlewares.TokenValidation{
			Issuer:   cfg.Issuer,
			Audience: cfg.Audience,
			Leeway:   cfg.ClockSkew,
		},
		logger,
	)
	rc.SignInHandler = handlers.NewSignInHandler(
		authn.NewPasswordAuthenticator(users),
		keyfetcher.CachePrivateKey(keyfetcher.FromBase64Env(cfg.PrivateKeyEnv)),
		handlers.TokenOptions{
			Issuer:   cfg.Issuer,
			Audience: cfg.Audience,
			TTL:      cfg.TokenTTL,
		},
		logger,
	)

	return nil
}
