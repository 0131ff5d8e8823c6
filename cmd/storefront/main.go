package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront-go/storefront/internal/api/handlers"
	"github.com/storefront-go/storefront/internal/api/middleware"
	"github.com/storefront-go/storefront/internal/cache"
	"github.com/storefront-go/storefront/internal/config"
	"github.com/storefront-go/storefront/internal/health"
	"github.com/storefront-go/storefront/internal/metrics"
	repository "github.com/storefront-go/storefront/internal/repositories"
	service "github.com/storefront-go/storefront/internal/services"
	"github.com/storefront-go/storefront/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	if cfg.Otel.ExporterEndpoint != "" {
		shutdownTracer, err := telemetry.InitTracer(context.Background(), &cfg.Otel)
		if err != nil {
			slog.Error("Failed to initialize tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := shutdownTracer(flushCtx); err != nil {
				slog.Warn("Tracer shutdown encountered an issue", slog.String("error", err.Error()))
			}
		}()
	}

	// Redis setup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConnect.Addr(),
		Username: cfg.RedisConnect.Username,
		Password: cfg.RedisConnect.Password,
		DB:       cfg.RedisConnect.DB,
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelPing()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	defer func() {
		if err := catalogCache.Close(); err != nil {
			slog.Warn("Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	// Services
	catalogRepo := repository.NewCachedCatalogRepo(
		repository.NewCatalogRepo(&cfg.CatalogAPI),
		catalogCache,
		cfg.Cache.DefaultTTL,
	)
	catalogService := service.NewCatalogService(catalogRepo)
	cartService := service.NewCartService()
	productHandler := handlers.NewProductHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, catalogService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Failed to set up health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storefront initialized", slog.String("env", cfg.Env), slog.String("catalog", cfg.CatalogAPI.BaseURL))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/categories", productHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	routerMux.HandleFunc("POST /api/v1/cart/items/{id}/increase", cartHandler.IncreaseQuantity())
	routerMux.HandleFunc("POST /api/v1/cart/items/{id}/decrease", cartHandler.DecreaseQuantity())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /healthz", healthHandler.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = otelhttp.NewHandler(handler, "storefront")
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

}
