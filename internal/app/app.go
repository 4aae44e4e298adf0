package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LocalStoryMap/Oz-Backand/database"
	"github.com/LocalStoryMap/Oz-Backand/internal/auth"
	"github.com/LocalStoryMap/Oz-Backand/internal/config"
	"github.com/LocalStoryMap/Oz-Backand/internal/email"
	"github.com/LocalStoryMap/Oz-Backand/internal/gateway/iamport"
	"github.com/LocalStoryMap/Oz-Backand/internal/handlers"
	"github.com/LocalStoryMap/Oz-Backand/internal/logger"
	"github.com/LocalStoryMap/Oz-Backand/internal/middleware"
	"github.com/LocalStoryMap/Oz-Backand/internal/repositories"
	"github.com/LocalStoryMap/Oz-Backand/internal/routes"
	"github.com/LocalStoryMap/Oz-Backand/internal/services"
	"github.com/LocalStoryMap/Oz-Backand/internal/validator"
	"github.com/LocalStoryMap/Oz-Backand/internal/workers"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Database connected and migrated")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ginRouter, worker := Build(cfg, gormDB)
	worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: address, Handler: ginRouter}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err.Error())
	}
}

// Build wires repositories, services and handlers into a router plus the
// background expiry worker. Split from Run so tests can assemble the same
// graph with fakes.
func Build(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, *workers.SubscriptionWorker) {
	userRepo := repositories.NewUserRepository(gormDB)
	subscriptionRepo := repositories.NewSubscriptionRepository(gormDB)
	historyRepo := repositories.NewPaymentHistoryRepository(gormDB)

	gatewayClient := iamport.NewClient(iamport.Config{
		BaseURL: cfg.Iamport.BaseURL,
		Key:     cfg.Iamport.Key,
		Secret:  cfg.Iamport.Secret,
		Timeout: cfg.GatewayTimeout(),
	})

	var mailer email.Sender = email.NopSender{}
	if cfg.Email.Enabled {
		mailer = email.NewSMTPSender(cfg.Email)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)

	compensator := services.NewCompensator(gatewayClient)
	authService := services.NewAuthService(userRepo, tokens)
	subscriptionService := services.NewSubscriptionService(
		subscriptionRepo, userRepo, gatewayClient, compensator, mailer, cfg)
	historyService := services.NewPaymentHistoryService(historyRepo)

	base := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:           handlers.NewAuthHandler(base, authService),
		SubscriptionHandler:   handlers.NewSubscriptionHandler(base, subscriptionService),
		PaymentHistoryHandler: handlers.NewPaymentHistoryHandler(base, historyService),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())

	routes.RegisterRoutes(ginRouter, appHandlers, middleware.AuthMiddleware(tokens))

	worker := workers.NewSubscriptionWorker(
		subscriptionRepo, time.Duration(cfg.Reaper.IntervalMinutes)*time.Minute)

	return ginRouter, worker
}
