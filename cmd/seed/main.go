// Package main provides a CLI tool for seeding the database with initial data:
// the material catalog and, optionally, the yard's opening stock.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Juman-Kalita/Slab/internal/domain/auth"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/material"
	"github.com/Juman-Kalita/Slab/internal/domain/registers/stock"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/Juman-Kalita/Slab/internal/infrastructure/storage/postgres/register_repo"
	"github.com/Juman-Kalita/Slab/pkg/logger"
)

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

	// Print a bcrypt hash for server provisioning and exit.
	if password := os.Getenv("HASH_PASSWORD"); password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalw("failed to hash password", "error", err)
		}
		fmt.Println(hash)
		return
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	materialSvc := material.NewService(catalog_repo.NewMaterialRepo(txm))
	stockSvc := stock.NewService(register_repo.NewStockRepo(txm))

	err = txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := materialSvc.SeedDefaults(ctx); err != nil {
			return err
		}

		// Opening stock overwrites current balances, so it is opt-in:
		// running it against a live yard would erase issued quantities.
		if os.Getenv("SEED_OPENING_STOCK") == "true" {
			for _, entry := range material.SeedCatalog() {
				if err := stockSvc.Set(ctx, entry.Material.ID, entry.OpeningStock); err != nil {
					return err
				}
			}
			log.Info("seeded opening stock")
		}
		return nil
	})
	if err != nil {
		log.Fatalw("seeding failed", "error", err)
	}

	log.Info("seeding completed successfully")
}
