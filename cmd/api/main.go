package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/pedro17pedroo/tts-sub001/internal/api/http"
	"github.com/pedro17pedroo/tts-sub001/internal/api/http/handlers"
	"github.com/pedro17pedroo/tts-sub001/internal/auth"
	"github.com/pedro17pedroo/tts-sub001/internal/config"
	"github.com/pedro17pedroo/tts-sub001/internal/events"
	"github.com/pedro17pedroo/tts-sub001/internal/i18n"
	"github.com/pedro17pedroo/tts-sub001/internal/observability"
	"github.com/pedro17pedroo/tts-sub001/internal/persistence"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
	"github.com/pedro17pedroo/tts-sub001/internal/worker"
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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	tenantRepo := repository.NewTenantRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	slaConfigRepo := repository.NewCachedSlaConfigRepository(
		repository.NewSlaConfigRepository(pool), redis.Client, cfg.Sla.ConfigCacheTTL())
	slaAlertRepo := repository.NewSlaAlertRepository(pool)
	hourBankRepo := repository.NewHourBankRepository(pool)
	timeEntryRepo := repository.NewTimeEntryRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	formatter := i18n.NewFormatter(cfg.Locale.Default)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		TenantRepo: tenantRepo,
		UserRepo:   userRepo,
	})
	slaService := service.NewSlaService(cfg.Sla, service.SlaDependencies{
		ConfigRepo: slaConfigRepo,
		AlertRepo:  slaAlertRepo,
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		Cache:      redis.Client,
	})
	hourBankService := service.NewHourBankService(cfg.HourBank, service.HourBankDependencies{
		BankRepo:     hourBankRepo,
		EntryRepo:    timeEntryRepo,
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
		Formatter:    formatter,
		Currency:     cfg.Locale.Currency,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		Sla:          slaService,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	customerService := service.NewCustomerService(customerRepo)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Sla:            handlers.NewSlaHandler(slaService),
		HourBanks:      handlers.NewHourBanksHandler(hourBankService),
		TimeEntries:    handlers.NewTimeEntriesHandler(hourBankService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Customers:      handlers.NewCustomersHandler(customerService),
		AuthMiddleware: authMiddleware,
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
