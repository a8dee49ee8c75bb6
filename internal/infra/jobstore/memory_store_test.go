package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/analysisjob"
)

func TestMemoryStoreExpiresJobs(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	clock := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, analysisjob.Job{ID: "j1", Status: analysisjob.StatusPending}))
	job, ok, err := store.Get(ctx, "j1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, analysisjob.StatusPending, job.Status)

	clock = clock.Add(50 * time.Second)
	require.NoError(t, store.Save(ctx, analysisjob.Job{ID: "j1", Status: analysisjob.StatusCompleted}))
	clock = clock.Add(50 * time.Second)
	job, ok, _ = store.Get(ctx, "j1")
	require.True(t, ok)
	require.Equal(t, analysisjob.StatusCompleted, job.Status)

	clock = clock.Add(time.Minute)
	_, ok, _ = store.Get(ctx, "j1")
	require.False(t, ok)
}

func TestMemoryStoreWithoutTTL(t *testing.T) {
	store := NewMemoryStore(0)
	require.NoError(t, store.Save(context.Background(), analysisjob.Job{ID: "j1"}))
	store.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	_, ok, err := store.Get(context.Background(), "j1")
	require.NoError(t, err)
	require.True(t, ok)
}
