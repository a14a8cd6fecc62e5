package tasks

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osa911/contact-api/internal/logging/logtest"
)

func TestMain(m *testing.M) {
	cleanup := logtest.Init()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

type mockPurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
}

func (m *mockPurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.deleted, m.err
}

func (m *mockPurger) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cutoffs)
}

func TestSubmissionCleanup_Cleanup(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &mockPurger{deleted: 3}
	sc := NewSubmissionCleanup(store, 30*24*time.Hour, time.Hour)
	sc.now = func() time.Time { return now }

	assert.Equal(t, int64(3), sc.Cleanup(context.Background()))
	assert.Equal(t, []time.Time{now.Add(-30 * 24 * time.Hour)}, store.cutoffs)

	store.err = errors.New("db down")
	assert.Equal(t, int64(0), sc.Cleanup(context.Background()))
}

func TestSubmissionCleanup_Disabled(t *testing.T) {
	store := &mockPurger{}
	sc := NewSubmissionCleanup(store, 0, 0)
	assert.False(t, sc.Enabled())
	assert.Equal(t, DefaultCleanupInterval, sc.interval)

	sc.Start(context.Background())
	sc.Stop()
	assert.Equal(t, 0, store.calls())
}

func TestSubmissionCleanup_RunsUntilStopped(t *testing.T) {
	store := &mockPurger{}
	sc := NewSubmissionCleanup(store, time.Hour, 10*time.Millisecond)

	sc.Start(context.Background())
	assert.Eventually(t, func() bool { return store.calls() >= 3 }, 2*time.Second, 5*time.Millisecond)
	sc.Stop()

	stopped := store.calls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, store.calls())
}

func TestSubmissionCleanup_StopsOnContextCancel(t *testing.T) {
	store := &mockPurger{}
	sc := NewSubmissionCleanup(store, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	sc.Start(ctx)
	assert.Eventually(t, func() bool { return store.calls() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		sc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
