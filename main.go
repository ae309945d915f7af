package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homecraft-backend/config"
	"homecraft-backend/controllers"
	"homecraft-backend/database"
	"homecraft-backend/errors"
	"homecraft-backend/logger"
	"homecraft-backend/middleware"
	"homecraft-backend/repository"
	"homecraft-backend/routes"
	"homecraft-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer zap.L().Sync()

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	if err := database.EnsureIndexes(context.Background()); err != nil {
		zap.L().Fatal("Failed to ensure indexes", zap.Error(err))
	}

	redisClient := database.NewRedisClient(cfg.RedisURL)

	// Repositories
	productRepo := repository.NewProductRepository(database.DB)
	customerRepo := repository.NewCustomerRepository(database.DB)
	adminRepo := repository.NewAdminRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret)
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	checkoutService := services.NewCheckoutService(productRepo, customerRepo, orderRepo, stripeService, cfg.FrontendURL)

	// Controllers
	cache := controllers.NewCacheManager(redisClient)
	ctrl := &routes.Controllers{
		Auth:     controllers.NewAuthController(customerRepo, adminRepo, tokenService),
		Product:  controllers.NewProductController(productRepo, cache),
		Customer: controllers.NewCustomerController(customerRepo),
		Admin:    controllers.NewAdminController(adminRepo, cfg.AdminRegistrationSecret),
		Order:    controllers.NewOrderController(orderRepo),
		Payment:  controllers.NewPaymentController(checkoutService, stripeService),
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(errors.ErrorMiddleware())

	loginLimiter := middleware.RateLimit(cfg.LoginRatePerMinute, cfg.LoginRateBurst)
	routes.Register(r, ctrl, tokenService, customerRepo, adminRepo, loginLimiter)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("HomeCraft backend starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for an interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		zap.L().Error("Failed to disconnect MongoDB", zap.Error(err))
	}

	zap.L().Info("Server stopped gracefully")
}
