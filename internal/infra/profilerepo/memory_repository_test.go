package profilerepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/glow-advisor/internal/domain/skincare"
)

func seededRepo(t *testing.T) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	require.NoError(t, repo.CreateProfile(context.Background(), skincare.UserProfile{ID: "p1", Name: "Ana"}))
	return repo
}

func TestMemoryRepositoryProfiles(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)

	require.Error(t, repo.CreateProfile(ctx, skincare.UserProfile{ID: "p1"}))

	p, ok, err := repo.GetProfile(ctx, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Ana", p.Name)

	p.Name = "Ana Maria"
	require.NoError(t, repo.UpdateProfile(ctx, p))
	p, _, _ = repo.GetProfile(ctx, "p1")
	require.Equal(t, "Ana Maria", p.Name)

	require.Error(t, repo.UpdateProfile(ctx, skincare.UserProfile{ID: "ghost"}))
	_, ok, err = repo.GetProfile(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryRepositoryHistoryIsCappedNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.AppendAnalysis(ctx, "p1", skincare.SkinAnalysisResult{ID: fmt.Sprintf("a%d", i)}, 3))
	}

	items, err := repo.ListAnalyses(ctx, "p1", 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "a4", items[0].ID)
	require.Equal(t, "a2", items[2].ID)

	items, err = repo.ListAnalyses(ctx, "p1", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, ok, err := repo.GetAnalysis(ctx, "p1", "a0")
	require.NoError(t, err)
	require.False(t, ok)

	require.Error(t, repo.AppendAnalysis(ctx, "ghost", skincare.SkinAnalysisResult{ID: "x"}, 3))
}

func TestMemoryRepositoryRoutinesKeepOneActive(t *testing.T) {
	ctx := context.Background()
	repo := seededRepo(t)

	require.NoError(t, repo.SaveRoutine(ctx, skincare.SavedRoutine{ID: "r1", ProfileID: "p1", Name: "Basic"}))
	require.NoError(t, repo.SaveRoutine(ctx, skincare.SavedRoutine{ID: "r2", ProfileID: "p1", Name: "Winter"}))

	items, err := repo.ListRoutines(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "r2", items[0].ID)
	require.True(t, items[0].IsActive)
	require.False(t, items[1].IsActive)

	activated, ok, err := repo.ActivateRoutine(ctx, "p1", "r1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, activated.IsActive)

	items, _ = repo.ListRoutines(ctx, "p1")
	require.False(t, items[0].IsActive)
	require.True(t, items[1].IsActive)

	_, ok, err = repo.ActivateRoutine(ctx, "p1", "missing")
	require.NoError(t, err)
	require.False(t, ok)
}
