// Package main provides a CLI tool for creating the schema and seeding the
// database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"kitstock/internal/core/entity"
	"kitstock/internal/core/types"
	"kitstock/internal/domain/batch"
	"kitstock/internal/domain/product"
	"kitstock/internal/domain/student"
	"kitstock/internal/infrastructure/storage/postgres"
	"kitstock/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS batches (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		items JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		variants JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS schools (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		school_id UUID NOT NULL REFERENCES schools(id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		number TEXT NOT NULL UNIQUE,
		school_id UUID NOT NULL REFERENCES schools(id),
		status TEXT NOT NULL,
		lines JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE TABLE IF NOT EXISTS sys_sequences (
		sequence_type TEXT NOT NULL,
		year INT NOT NULL,
		current_val BIGINT NOT NULL,
		PRIMARY KEY (sequence_type, year)
	)`,
	`CREATE TABLE IF NOT EXISTS allocation_archive (
		id UUID PRIMARY KEY,
		batch_id UUID NOT NULL,
		product_id UUID,
		school_id UUID,
		quantity INT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		payload JSONB,
		payload_compressed BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_allocation_archive_batch ON allocation_archive (batch_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_students_school ON students (school_id)`,
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}
	log.Info("schema applied")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	txManager := postgres.NewTxManager(pool)

	batchRepo := postgres.NewBatchRepo(txManager)
	productRepo := postgres.NewProductRepo(txManager)
	studentRepo := postgres.NewStudentRepo(txManager)
	schoolRepo := postgres.NewSchoolRepo(txManager)

	batchService := batch.NewService(batchRepo, txManager, nil, batch.Config{})
	productService := product.NewService(productRepo, txManager)
	studentService := student.NewService(studentRepo, schoolRepo)

	// Schools and students
	school := entity.NewSchool("Greenwood Primary")
	if err := studentService.CreateSchool(ctx, school); err != nil {
		return fmt.Errorf("seed school: %w", err)
	}

	names := []string{"Amara Osei", "Liam Carter", "Naledi Dlamini"}
	for _, name := range names {
		st := entity.NewStudent(name, school.ID)
		if err := studentService.CreateStudent(ctx, st); err != nil {
			return fmt.Errorf("seed student %q: %w", name, err)
		}
	}

	// Product catalog
	polo := entity.NewProduct("School Polo Shirt", types.MustMoney("8.50"))
	polo.Variants = entity.VariantList{
		{
			VariantType: "Short Sleeve",
			Color:       "White",
			Sizes: []entity.VariantSize{
				{Size: "S"},
				{Size: "M"},
				{Size: "L"},
			},
		},
	}
	if err := productService.Create(ctx, polo); err != nil {
		return fmt.Errorf("seed product: %w", err)
	}

	// Incoming batch
	b := entity.NewBatch("August Delivery")
	b.Items = entity.ItemList{
		{
			VariantType: "Short Sleeve",
			Color:       "White",
			Price:       types.MustMoney("5.20"),
			Sizes: []entity.SizeRecord{
				{Size: "S", Quantity: 40},
				{Size: "M", Quantity: 60},
				{Size: "L", Quantity: 30},
			},
		},
	}
	if err := batchService.Create(ctx, b); err != nil {
		return fmt.Errorf("seed batch: %w", err)
	}

	// A first allocation so reports have something to show
	err := batchService.AllocateFromBatch(ctx, b.ID, entity.AllocationRequest{
		ProductID:   polo.ID,
		ProductName: polo.Name,
		SchoolID:    school.ID,
		SchoolName:  school.Name,
		VariantType: "Short Sleeve",
		Color:       "White",
		Size:        "M",
		Quantity:    10,
	}, productService)
	if err != nil {
		return fmt.Errorf("seed allocation: %w", err)
	}

	log.Infow("demo data seeded",
		"school_id", school.ID,
		"product_id", polo.ID,
		"batch_id", b.ID,
	)
	return nil
}
