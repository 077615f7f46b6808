package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/cache"
	"github.com/sellerhq/seller_api/internal/config"
	"github.com/sellerhq/seller_api/internal/handler"
	"github.com/sellerhq/seller_api/internal/middleware"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/sse"
	"github.com/sellerhq/seller_api/internal/worker"
	"github.com/sellerhq/seller_api/pkg/woocommerce"
	"github.com/sellerhq/seller_api/pkg/wpauth"
)

// main is the application entrypoint for the Seller API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting seller api")

	// 3. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3a. Initialize caches
	sessionCache := cache.NewSessionCache(redisClient, cfg.Auth.SessionTTL)
	catalogCache := cache.NewCatalogCache(redisClient)

	// 4. Initialize upstream clients
	store := woocommerce.NewClient(cfg.WooCommerce.BaseURL)
	authProvider := wpauth.NewClient(cfg.Auth.BaseURL)

	// 5. Initialize services
	authSvc := service.NewAuthService(authProvider, sessionCache)
	productSvc := service.NewProductService(store)
	skuSvc := service.NewSKUService(store)
	orderSvc := service.NewOrderService(store)
	catalogSvc := service.NewCatalogService(store, catalogCache, cfg.WooCommerce.ServiceToken)

	// 6. Initialize SSE hub for validation streams
	hub := sse.NewHub()

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:    handler.NewHealthHandler(),
		Auth:      handler.NewAuthHandler(authSvc),
		Product:   handler.NewProductHandler(productSvc, skuSvc),
		Order:     handler.NewOrderHandler(orderSvc),
		Catalog:   handler.NewCatalogHandler(catalogSvc),
		SKUStream: handler.NewSKUStreamHandler(hub, skuSvc, authSvc, cfg.Validation.QuietPeriod),
	}

	// 8. Initialize middleware
	authMw := middleware.NewAuthMiddleware(authSvc)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.WooCommerce.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, authMw)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewCatalogSyncWorker(catalogSvc, cfg.Worker.CatalogSyncInterval).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Order     *handler.OrderHandler
	Catalog   *handler.CatalogHandler
	SKUStream *handler.SKUStreamHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public auth endpoints
	router.POST("/v1/auth/login", handlers.Auth.Login)
	router.POST("/v1/auth/register", handlers.Auth.Register)

	// SSE validation stream authenticates via query param (EventSource
	// cannot set headers), so it sits outside the auth group.
	router.GET("/v1/products/sku-validation/stream", handlers.SKUStream.Stream)

	// Seller routes (protected with dashboard JWT)
	v1 := router.Group("/v1")
	v1.Use(authMiddleware.Handle())
	{
		v1.GET("/auth/me", handlers.Auth.Me)
		v1.POST("/auth/logout", handlers.Auth.Logout)

		v1.GET("/products", handlers.Product.List)
		v1.POST("/products", handlers.Product.Create)
		v1.GET("/products/check-sku", handlers.Product.CheckSKU)
		v1.POST("/products/generate-sku", handlers.Product.GenerateSKU)
		v1.POST("/products/sku-validation/input", handlers.SKUStream.Input)
		v1.GET("/products/:id", handlers.Product.Get)
		v1.PUT("/products/:id", handlers.Product.Update)
		v1.DELETE("/products/:id", handlers.Product.Delete)
		v1.GET("/products/:id/variations", handlers.Product.ListVariations)
		v1.POST("/products/:id/variations", handlers.Product.CreateVariation)
		v1.PUT("/products/:id/variations/:variationId", handlers.Product.UpdateVariation)
		v1.POST("/products/:id/variations/:variationId/disable", handlers.Product.DisableVariation)
		v1.POST("/products/:id/variations/:variationId/enable", handlers.Product.EnableVariation)

		v1.GET("/orders", handlers.Order.List)
		v1.GET("/orders/:id", handlers.Order.Get)
		v1.PUT("/orders/:id/status", handlers.Order.UpdateStatus)
		v1.GET("/orders/:id/waybill", handlers.Order.Waybill)

		v1.GET("/categories", handlers.Catalog.Categories)
	}

	// Compatibility alias used by the storefront dashboard bundle.
	router.GET("/api/products/check-sku", authMiddleware.Handle(), handlers.Product.CheckSKU)
}

// setupLogger configures the global zerolog logger.
func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
