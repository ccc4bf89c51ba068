package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bazaarHub/app/echo-server/router"
	"bazaarHub/business/brand"
	"bazaarHub/business/category"
	"bazaarHub/business/orders"
	"bazaarHub/business/payments"
	"bazaarHub/business/payout"
	"bazaarHub/business/product"
	"bazaarHub/business/review"
	"bazaarHub/business/stats"
	userService "bazaarHub/business/user"
	"bazaarHub/internal/events"
	"bazaarHub/internal/middleware"
	"bazaarHub/internal/repository/notification"
	psqlRepo "bazaarHub/internal/repository/postgres"
	redisRepo "bazaarHub/internal/repository/redis"
	"bazaarHub/internal/repository/xendit"
	"bazaarHub/internal/rest"
	"bazaarHub/pkg/config"
	"bazaarHub/pkg/database"
	redisClient "bazaarHub/pkg/database/redis"
	"bazaarHub/pkg/logger"
	"bazaarHub/pkg/metrics"
	"bazaarHub/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// eventPublisher is what services publish to; Kafka or a no-op.
type eventPublisher interface {
	payout.EventPublisher
	orders.EventPublisher
	Close() error
}

func main() {
	startedAt := time.Now()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	if cfg.App.LogLevel != "" {
		logger.SetLevel(cfg.App.LogLevel)
	}
	logger.Info("Starting bazaarHub", "version", cfg.App.Version, "env", cfg.App.Environment)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer database.Close(db)

	logger.Info("Database connected successfully")

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	rdb, err := redisClient.NewRedisClient(startCtx, cfg.Redis)
	startCancel()
	if err != nil {
		logger.Fatal("Failed to connect to redis", err)
	}
	defer rdb.Close()

	var publisher eventPublisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := events.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		if err != nil {
			logger.Fatal("Failed to create kafka producer", err)
		}
		publisher = producer
		logger.Info("Kafka publisher enabled", "brokers", cfg.Kafka.Brokers)
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events are dropped")
	}
	defer publisher.Close()

	// Init notification from mailjet
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	xenditRepo := xendit.NewXenditRepository(
		xendit.XenditConfig{
			XenditApi:          cfg.Xendit.XenditSecretKey,
			XenditUrl:          cfg.Xendit.XenditUrl,
			Currency:           cfg.Xendit.Currency,
			SuccessRedirectUrl: cfg.Xendit.RedirectUrl,
			FailureRedirectUrl: cfg.Xendit.RedirectUrl,
		},
	)

	validate := validator.New()
	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL)

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	categoryRepo := psqlRepo.NewCategoryRepository(db)
	brandRepo := psqlRepo.NewBrandRepository(db)
	reviewRepo := psqlRepo.NewReviewRepository(db)
	productsRepo := psqlRepo.NewProductRepository(db)
	ordersRepo := psqlRepo.NewOrdersRepository(db)
	paymentsRepo := psqlRepo.NewPaymentsRepository(db)
	payoutRepo := psqlRepo.NewPayoutRepository(db)
	revenueRepo := psqlRepo.NewRevenueRepository(db)
	statsRepo := psqlRepo.NewStatsRepository(db)
	tokenRepo := redisRepo.NewTokenRepository(rdb)

	// Init service
	userSvc := userService.NewUserService(userRepo, tokenRepo, jwtManager, validate, mailjetEmail, cfg.App.AppEmailVerificationKey, cfg.App.AppDeploymentUrl)
	categoryService := category.NewCategoryService(categoryRepo)
	brandService := brand.NewBrandService(brandRepo)
	productService := product.NewProductService(productsRepo, categoryRepo, brandRepo, userRepo)
	reviewService := review.NewReviewService(reviewRepo, productsRepo)
	ordersService := orders.NewOrdersService(ordersRepo, productsRepo, publisher)
	paymentsService := payments.NewPaymentsService(paymentsRepo, xenditRepo, userRepo, ordersRepo, productsRepo)
	payoutService := payout.NewPayoutService(revenueRepo, payoutRepo, userRepo, publisher, mailjetEmail)
	statsService := stats.NewStatsService(statsRepo, startedAt)

	// Init handler
	timeout := cfg.Server.RequestTimeout
	userHandler := rest.NewUserHandler(userSvc, timeout)
	categoryHandler := rest.NewCategoryHandler(categoryService, timeout)
	brandHandler := rest.NewBrandHandler(brandService, timeout)
	productHandler := rest.NewProductHandler(productService, timeout)
	reviewHandler := rest.NewReviewHandler(reviewService, timeout)
	ordersHandler := rest.NewOrdersHandler(ordersService, timeout)
	paymentsHandler := rest.NewPaymentsHandler(paymentsService, timeout)
	payoutHandler := rest.NewPayoutHandler(payoutService, timeout)
	statsHandler := rest.NewStatsHandler(statsService, timeout)
	webhookHandler := rest.NewWebhookController(paymentsService, cfg.Xendit.XenditWebhookVerificationToken, timeout)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency.String())
			return nil
		},
	}))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authRequired := middleware.AuthMiddleware(jwtManager, userSvc)

	// Setup routes
	router.SetupOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired)
	router.SetupCategoryRoutes(api, categoryHandler, authRequired)
	router.SetupBrandRoutes(api, brandHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired)
	router.SetupReviewRoutes(api, reviewHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired)
	router.SetPaymentsRoutes(api, paymentsHandler, payoutHandler, authRequired)
	router.SetWebhookHandler(api, webhookHandler)
	router.SetupAdminRoutes(api, statsHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	logger.Info("Server stopped")
}
