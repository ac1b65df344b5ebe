// Package v1 provides HTTP API version 1.
package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/Juman-Kalita/Slab/internal/domain/auth"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
	"github.com/Juman-Kalita/Slab/internal/domain/reports"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/handlers"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/http/v1/middleware"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres/register_repo"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres/rental_repo"
	"github.com/Juman-Kalita/Slab/pkg/logger"
	"github.com/Juman-Kalita/Slab/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// AuthService issues and validates bearer tokens
	AuthService *auth.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Infrastructure
	txm := postgres.NewTxManager(cfg.Pool)
	archiver, err := postgres.NewPhotoArchiver()
	if err != nil {
		return nil, fmt.Errorf("photo archiver: %w", err)
	}
	num := numerator.New(txm)

	// Repositories
	materialRepo := catalog_repo.NewMaterialRepo(txm)
	customerRepo := catalog_repo.NewCustomerRepo(txm, archiver)
	stockRepo := register_repo.NewStockRepo(txm)
	rentalRepo := rental_repo.NewRepo(txm)

	// Services
	materialSvc := material.NewService(materialRepo)
	customerSvc := customer.NewService(customerRepo, num)
	stockSvc := stock.NewService(stockRepo)
	rentalSvc := rental.NewService(rentalRepo, customerSvc, materialSvc, stockSvc, txm, num)
	reportsSvc := reports.NewService(customerSvc, rentalSvc)

	baseHandler := handlers.NewBaseHandler()

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		authHandler.RegisterRoutes(apiV1.Group("/auth"))

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.AuthService))

		materialHandler := handlers.NewMaterialHandler(baseHandler, materialSvc)
		materialHandler.RegisterRoutes(protected.Group("/materials"))

		stockHandler := handlers.NewStockHandler(baseHandler, stockSvc)
		stockHandler.RegisterRoutes(protected.Group("/stock"))

		rentalHandler := handlers.NewRentalHandler(baseHandler, rentalSvc)
		rentalHandler.RegisterRoutes(protected.Group("/rentals"))

		customerHandler := handlers.NewCustomerHandler(baseHandler, customerSvc, rentalSvc, reportsSvc)
		customerHandler.RegisterRoutes(protected.Group("/customers"))

		dashboardHandler := handlers.NewDashboardHandler(baseHandler, reportsSvc)
		dashboardHandler.RegisterRoutes(protected.Group("/dashboard"))
	}

	return router, nil
}
