package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hotel-staff-service/internal/api/http"
	"github.com/spec-kit/hotel-staff-service/internal/api/http/handlers"
	"github.com/spec-kit/hotel-staff-service/internal/config"
	"github.com/spec-kit/hotel-staff-service/internal/events"
	"github.com/spec-kit/hotel-staff-service/internal/identity"
	"github.com/spec-kit/hotel-staff-service/internal/observability"
	"github.com/spec-kit/hotel-staff-service/internal/persistence"
	"github.com/spec-kit/hotel-staff-service/internal/repository"
	"github.com/spec-kit/hotel-staff-service/internal/service"
	"github.com/spec-kit/hotel-staff-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Datastore, logger)
	if err != nil {
		logger.Fatal("failed to connect tenant datastore", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Datastore.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	profileRepo := repository.NewProfileRepository(pg.ServiceRole())
	orphanRepo := repository.NewOrphanRepository(redis)
	identityClient := identity.NewClient(cfg.Identity, logger)

	provisioningService := service.NewProvisioningService(service.ProvisioningDependencies{
		ProfileRepo: profileRepo,
		Identity:    identityClient,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	reconciliationService := service.NewReconciliationService(service.ReconciliationDependencies{
		ProfileRepo: profileRepo,
		OrphanRepo:  orphanRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
	})
	worker.StartReconciliationWorker(reconciliationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	staffHandler := handlers.NewStaffHandler(provisioningService)
	reconciliationHandler := handlers.NewReconciliationHandler(reconciliationService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Staff:          staffHandler,
		Reconciliation: reconciliationHandler,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
