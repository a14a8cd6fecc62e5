package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contact-api/internal/models"
)

func newSubmission(id string, createdAt time.Time) *models.Submission {
	return &models.Submission{
		ID:        id,
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Message:   "Hello there, friend!",
		CreatedAt: createdAt,
	}
}

func TestMemorySubmissionRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySubmissionRepository()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, newSubmission("a", now)))
	assert.ErrorIs(t, repo.Create(ctx, newSubmission("a", now)), ErrDuplicate)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySubmissionRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySubmissionRepository()
	require.NoError(t, repo.Create(ctx, newSubmission("a", time.Now())))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Name = "changed"

	again, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", again.Name)
}

func TestMemorySubmissionRepository_ListAndRetention(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySubmissionRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, repo.Create(ctx, newSubmission(id, base.Add(time.Duration(i)*time.Hour))))
	}

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)

	deleted, err := repo.DeleteOlderThan(ctx, base.Add(90*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	list, err = repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "new", list[0].ID)
}

func TestMemorySubmissionRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewMemorySubmissionRepository()
	assert.ErrorIs(t, repo.Create(ctx, newSubmission("a", time.Now())), context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), context.Canceled)
}
