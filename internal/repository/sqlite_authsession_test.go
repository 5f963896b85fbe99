package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/testutil"
)

func TestAuthSessionRepo_Get_EmptyStore(t *testing.T) {
	repo := NewSQLiteAuthSessionRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthSessionRepo_SaveAndGet(t *testing.T) {
	repo := NewSQLiteAuthSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	saved := &domain.AuthSession{
		Token:   "tok-1",
		User:    testutil.NewTestUser("1001", domain.RoleManager),
		SavedAt: time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, saved))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, "1001", got.User.Document)
	assert.Equal(t, []string{domain.RoleManager}, got.User.Roles)
	assert.True(t, saved.SavedAt.Equal(got.SavedAt))
}

func TestAuthSessionRepo_Save_ReplacesPrevious(t *testing.T) {
	repo := NewSQLiteAuthSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.AuthSession{Token: "old", User: testutil.NewTestUser("1", domain.RoleUser)}))
	require.NoError(t, repo.Save(ctx, &domain.AuthSession{Token: "new", User: testutil.NewTestUser("2", domain.RoleAdmin)}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
	assert.Equal(t, "2", got.User.Document)
	assert.False(t, got.SavedAt.IsZero())
}

func TestAuthSessionRepo_Clear(t *testing.T) {
	repo := NewSQLiteAuthSessionRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.AuthSession{Token: "t", User: testutil.NewTestUser("1", domain.RoleUser)}))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
