package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/osa911/contact-api/internal/config"
	"github.com/osa911/contact-api/internal/repository"
)

// migrate creates the schema (PostgreSQL) or indexes (MongoDB) of the
// configured store ahead of a deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.StoreDriver == config.StoreMemory {
		fmt.Println("Memory store selected, nothing to migrate")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	// Open runs the migrations of the selected driver
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		os.Exit(1)
	}
	if err := store.Close(ctx); err != nil {
		fmt.Printf("Failed to close %s store: %v\n", cfg.StoreDriver, err)
	}

	fmt.Printf("Migrations completed successfully (%s)\n", cfg.StoreDriver)
}
