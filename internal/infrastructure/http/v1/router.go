// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"kitstock/internal/domain/batch"
	"kitstock/internal/domain/order"
	"kitstock/internal/domain/product"
	"kitstock/internal/domain/reports"
	"kitstock/internal/domain/student"
	"kitstock/internal/infrastructure/http/v1/handlers"
	"kitstock/internal/infrastructure/http/v1/middleware"
	"kitstock/internal/infrastructure/storage/postgres"
	"kitstock/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	BatchService   *batch.Service
	ProductService *product.Service
	StudentService *student.Service
	OrderService   *order.Service
	ReportsService *reports.Service

	// Archive is optional; enables the batch history endpoint
	Archive *postgres.AllocationArchive
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	// API v1 - all endpoints require a valid token
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.Auth(cfg.JWTValidator))
	{
		var history handlers.HistoryReader
		if cfg.Archive != nil {
			history = cfg.Archive
		}

		batchHandler := handlers.NewBatchHandler(base, cfg.BatchService, cfg.ProductService, history)
		batchHandler.RegisterRoutes(apiV1.Group("/batches"))

		productHandler := handlers.NewProductHandler(base, cfg.ProductService)
		productHandler.RegisterRoutes(apiV1.Group("/products"))

		studentHandler := handlers.NewStudentHandler(base, cfg.StudentService)
		studentHandler.RegisterStudentRoutes(apiV1.Group("/students"))
		studentHandler.RegisterSchoolRoutes(apiV1.Group("/schools"))

		orderHandler := handlers.NewOrderHandler(base, cfg.OrderService)
		orderHandler.RegisterRoutes(apiV1.Group("/orders"))

		reportsHandler := handlers.NewReportsHandler(base, cfg.ReportsService)
		reportsHandler.RegisterRoutes(apiV1.Group("/reports"))
	}

	return router
}
