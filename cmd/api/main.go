package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sust-hall/hall-service/internal/api/http"
	"github.com/sust-hall/hall-service/internal/api/http/handlers"
	"github.com/sust-hall/hall-service/internal/auth"
	"github.com/sust-hall/hall-service/internal/config"
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/observability"
	"github.com/sust-hall/hall-service/internal/persistence"
	"github.com/sust-hall/hall-service/internal/repository"
	"github.com/sust-hall/hall-service/internal/service"
	"github.com/sust-hall/hall-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	noteRepo := repository.NewComplaintNoteRepository(pool)
	hallRepo := repository.NewHallRepository(pool)
	mealRepo := repository.NewMealRepository(pool)
	menuItemRepo := repository.NewMenuItemRepository(pool)
	transactor := repository.NewTransactor(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	validate := validator.New()
	clock := service.SystemClock()
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	accountService := service.NewAccountService(cfg.Account, service.AccountDependencies{
		UserRepo:   userRepo,
		Transactor: transactor,
		Hasher:     hasher,
		Clock:      clock,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Validator:  validate,
		Logger:     logger.Named("accounts"),
	})
	complaintService := service.NewComplaintService(cfg.Complaint, service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		NoteRepo:      noteRepo,
		UserRepo:      userRepo,
		Transactor:    transactor,
		Clock:         clock,
		Dispatcher:    dispatcher,
		Metrics:       metrics,
		Validator:     validate,
		Logger:        logger.Named("complaints"),
	})
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo: userRepo,
		Verifier: hasher,
		Tokens:   tokens,
		Logger:   logger.Named("auth"),
	})

	hallService := service.NewHallService(service.HallDependencies{
		HallRepo:   hallRepo,
		Transactor: transactor,
		Clock:      clock,
		Dispatcher: dispatcher,
		Validator:  validate,
		Logger:     logger.Named("halls"),
	})
	mealService := service.NewMealService(service.MealDependencies{
		MealRepo:   mealRepo,
		HallRepo:   hallRepo,
		Transactor: transactor,
		Clock:      clock,
		Validator:  validate,
		Logger:     logger.Named("meals"),
	})
	menuItemService := service.NewMenuItemService(service.MenuItemDependencies{
		MenuItemRepo: menuItemRepo,
		Clock:        clock,
		Validator:    validate,
		Logger:       logger.Named("menu"),
	})

	notificationService := service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notificationService, events.NewRedisForwarder(redis, cfg.Redis.EventsChannel))

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, UnescapePath: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(accountService, authService),
		Admin:          handlers.NewAdminHandler(accountService),
		Users:          handlers.NewUsersHandler(accountService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Halls:          handlers.NewHallsHandler(hallService),
		Meals:          handlers.NewMealsHandler(mealService),
		MenuItems:      handlers.NewMenuItemsHandler(menuItemService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, userRepo),
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
