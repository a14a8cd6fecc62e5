package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osa911/contact-api/internal/models"
)

type memorySubmissionRepository struct {
	mu    sync.RWMutex
	items map[string]models.Submission
}

// NewMemorySubmissionRepository creates an in-process repository. Contents
// are lost when the process exits.
func NewMemorySubmissionRepository() SubmissionRepository {
	return &memorySubmissionRepository{
		items: make(map[string]models.Submission),
	}
}

func (r *memorySubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[submission.ID]; exists {
		return ErrDuplicate
	}
	r.items[submission.ID] = *submission
	return nil
}

func (r *memorySubmissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (r *memorySubmissionRepository) List(ctx context.Context, limit int) ([]*models.Submission, error) {
	limit = normalizeLimit(limit)

	r.mu.RLock()
	out := make([]*models.Submission, 0, len(r.items))
	for _, item := range r.items {
		item := item
		out = append(out, &item)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memorySubmissionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, item := range r.items {
		if item.CreatedAt.Before(cutoff) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memorySubmissionRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *memorySubmissionRepository) Close(ctx context.Context) error {
	return nil
}
