// Package app contains the application setup for the inventory service.
package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/abgdnv/inventory/internal/config"
	grpcImpl "github.com/abgdnv/inventory/internal/inventory/grpc"
	"github.com/abgdnv/inventory/internal/inventory/handler"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/inventory/store"
	"github.com/abgdnv/inventory/internal/platform/server"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/go-chi/chi/v5"
	"google.golang.org/grpc"
)

type Dependencies struct {
	ProductService service.ProductService
	Logger         *slog.Logger
	Router         server.RouterOptions
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
}

// SetupDependencies builds the store, the service and the router options from cfg.
// ctx bounds the lifetime of the rate limiter's background cleanup.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) *Dependencies {
	var opts []store.Option
	if cfg.Inventory.Seed {
		opts = append(opts, store.WithSeed(store.SeedProducts()))
	}
	if cfg.Inventory.EnforceStockFloor {
		opts = append(opts, store.WithStockFloor())
	}
	pService := service.NewService(store.NewInMemoryStore(opts...))

	routerOpts := server.RouterOptions{AllowedOrigins: cfg.CORS.Origins()}
	if cfg.RateLimit.Enabled {
		routerOpts.Limiter = web.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	return &Dependencies{
		ProductService: pService,
		Logger:         logger,
		Router:         routerOpts,
	}
}

// SetupHttpHandler initializes the router and routes for the inventory service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, deps.Router)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the inventory service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	inventoryHandler := handler.NewHandler(deps.ProductService, deps.Logger)
	inventoryHandler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the inventory service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SetupGrpcServer initializes the gRPC server for the inventory service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	// Service registration function for gRPC server
	inventoryRegisterFunc := func(s *grpc.Server) {
		grpcImpl.RegisterInventoryServer(s, grpcImpl.NewServer(deps.ProductService))
	}
	// create a new gRPC server with reflection if enabled
	return server.NewGRPCServer(deps.Logger, reflectionEnabled, inventoryRegisterFunc)
}
