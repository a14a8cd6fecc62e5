package repository

import (
	"context"
	"errors"
	"time"

	"github.com/osa911/contact-api/internal/models"
)

var (
	ErrNotFound  = errors.New("submission not found")
	ErrDuplicate = errors.New("submission already exists")
)

// SubmissionRepository defines the interface for submission storage
type SubmissionRepository interface {
	// Create stores a new submission; ID and CreatedAt must be set
	Create(ctx context.Context, submission *models.Submission) error
	// GetByID returns a submission by ID or ErrNotFound
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	// List returns the most recent submissions, newest first
	List(ctx context.Context, limit int) ([]*models.Submission, error)
	// DeleteOlderThan removes submissions created before cutoff and
	// returns how many were removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
	// Close releases the underlying connection
	Close(ctx context.Context) error
}

const defaultListLimit = 50

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return defaultListLimit
	}
	return limit
}
