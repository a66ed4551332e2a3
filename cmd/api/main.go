package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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
	ruleRepo := repository.NewEscalationRuleRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	topicRepo := repository.NewHelpTopicRepository(pool)
	cannedRepo := repository.NewCannedResponseRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	ruleCache := persistence.NewRuleCache(redis, cfg.Escalation.CacheTTL(), logger)

	escalationService := service.NewEscalationService(service.EscalationDependencies{
		RuleRepo:   ruleRepo,
		RoleRepo:   roleRepo,
		Cache:      ruleCache,
		Dispatcher: dispatcher,
	})
	roleService := service.NewRoleService(roleRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		TopicRepo:   topicRepo,
		CannedRepo:  cannedRepo,
		Dispatcher:  dispatcher,
	})
	userService := service.NewUserService(userRepo, roleRepo)
	catalogService := service.NewCatalogService(topicRepo, cannedRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	sweeper := service.NewEscalationSweeper(escalationService, ticketRepo, dispatcher, logger, cfg.Escalation.SweepBatchSize)
	worker.StartEscalationWorker(ctx, sweeper, cfg.Escalation.SweepInterval(), logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		EscalationRules: handlers.NewEscalationRulesHandler(escalationService),
		Roles:           handlers.NewRolesHandler(roleService),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Users:           handlers.NewUsersHandler(userService),
		Catalog:         handlers.NewCatalogHandler(catalogService),
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
