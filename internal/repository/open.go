package repository

import (
	"context"
	"fmt"

	"github.com/osa911/contact-api/internal/config"
)

// Open builds the submission repository selected by STORE_DRIVER
func Open(ctx context.Context, cfg *config.Config) (SubmissionRepository, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		return NewMemorySubmissionRepository(), nil
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.StoreMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
