package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/testutil"
)

func TestGridScopeRepo_Get_NotFound(t *testing.T) {
	repo := NewSQLiteGridScopeRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "1001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGridScopeRepo_UpsertAndGet(t *testing.T) {
	repo := NewSQLiteGridScopeRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	scope := &domain.GridScope{
		UserDocument: "1001",
		Store:        domain.Store{ID: "S1", Name: "Centro"},
		Department:   domain.Department{ID: "D1", Name: "Cajas"},
		Month:        "2024-06",
	}
	require.NoError(t, repo.Upsert(ctx, scope))

	got, err := repo.Get(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, scope.Store, got.Store)
	assert.Equal(t, scope.Department, got.Department)
	assert.Equal(t, "2024-06", got.Month)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestGridScopeRepo_Upsert_PerUser(t *testing.T) {
	repo := NewSQLiteGridScopeRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &domain.GridScope{UserDocument: "a", Store: domain.Store{ID: "S1"}, Department: domain.Department{ID: "D1"}}))
	require.NoError(t, repo.Upsert(ctx, &domain.GridScope{UserDocument: "b", Store: domain.Store{ID: "S2"}, Department: domain.Department{ID: "D2"}}))
	require.NoError(t, repo.Upsert(ctx, &domain.GridScope{UserDocument: "a", Store: domain.Store{ID: "S3"}, Department: domain.Department{ID: "D3"}}))

	a, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "S3", a.Store.ID)

	b, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "S2", b.Store.ID)
}
