// Package main is the entry point for the kitstock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kitstock/internal/domain/batch"
	"kitstock/internal/domain/identity"
	"kitstock/internal/domain/order"
	"kitstock/internal/domain/product"
	"kitstock/internal/domain/reports"
	"kitstock/internal/domain/student"
	v1 "kitstock/internal/infrastructure/http/v1"
	"kitstock/internal/infrastructure/storage/postgres"
	"kitstock/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting kitstock server")

	// --- Database ---
	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	batchRepo := postgres.NewBatchRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	studentRepo := postgres.NewStudentRepo(txManager)
	schoolRepo := postgres.NewSchoolRepo(txManager)
	orderRepo := postgres.NewOrderRepo(txManager)

	archive, err := postgres.NewAllocationArchive(txManager)
	if err != nil {
		log.Fatalw("failed to create allocation archive", "error", err)
	}

	// --- Services ---
	batchCfg := batch.Config{
		StrictOnce: getEnv("ALLOCATION_STRICT_ONCE", "false") == "true",
	}
	batchService := batch.NewService(batchRepo, txManager, archive, batchCfg)
	productService := product.NewService(productRepo, txManager)
	studentService := student.NewService(studentRepo, schoolRepo)
	orderService := order.NewService(orderRepo, txManager)
	reportsService := reports.NewService(batchRepo, productRepo, studentRepo)

	// --- JWT ---
	jwtSecret := getEnv("JWT_SECRET", "your-secret-key-change-in-production")
	jwtService := identity.NewJWTService(identity.DefaultJWTConfig(jwtSecret))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		BatchService:   batchService,
		ProductService: productService,
		StudentService: studentService,
		OrderService:   orderService,
		ReportsService: reportsService,
		Archive:        archive,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
