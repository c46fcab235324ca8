package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/worklog/internal/database"
)

func newTestRepo(t *testing.T) (*TaskRepo, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	db, err := database.Prepare(ctx, filepath.Join(t.TempDir(), "worklog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTaskRepo(db), ctx
}

func TestTaskRepoInsertList(t *testing.T) {
	t.Parallel()
	repo, ctx := newTestRepo(t)

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(ctx, Task{ID: "a", Description: "write report", CreatedAt: base}))
	require.NoError(t, repo.Insert(ctx, Task{ID: "b", Description: "review PR", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Insert(ctx, Task{ID: "c", Description: "report expenses", CreatedAt: base.Add(2 * time.Hour)}))

	all, err := repo.List(ctx, TaskFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	require.Equal(t, "review PR", all[1].Description)
	require.True(t, all[1].CreatedAt.Equal(base.Add(time.Hour)))

	limited, err := repo.List(ctx, TaskFilters{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	require.Equal(t, "c", limited[0].ID)
}

func TestTaskRepoCount(t *testing.T) {
	t.Parallel()
	repo, ctx := newTestRepo(t)

	empty, err := repo.List(ctx, TaskFilters{})
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	require.NoError(t, repo.Insert(ctx, Task{ID: "a", Description: "one", CreatedAt: database.Now()}))
	require.NoError(t, repo.Insert(ctx, Task{ID: "b", Description: "two", CreatedAt: database.Now()}))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestTaskRepoRejectsBlankDescription(t *testing.T) {
	t.Parallel()
	repo, ctx := newTestRepo(t)

	err := repo.Insert(ctx, Task{ID: "a", Description: "   ", CreatedAt: database.Now()})
	require.Error(t, err)
}
