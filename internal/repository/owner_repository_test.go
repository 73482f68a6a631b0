package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldorado-p2p/influencer-api/internal/domain"
)

func TestOwnerRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOwnerRepository(db)
	ctx := context.Background()

	owner := &domain.Owner{Name: "samuel", DisplayName: "Samuel", IsActive: true}
	require.NoError(t, repo.Create(ctx, owner))
	assert.NotEmpty(t, owner.ID, "uuid should be assigned on create")

	got, err := repo.GetByName(ctx, "samuel")
	require.NoError(t, err)
	assert.Equal(t, "Samuel", got.DisplayName)
	assert.True(t, got.IsActive)
}

func TestOwnerRepository_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOwnerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Owner{Name: "bianca", IsActive: true}))

	err := repo.Create(ctx, &domain.Owner{Name: "bianca"})
	assert.ErrorIs(t, err, domain.ErrDuplicateOwner)

	// The failed create must not add a second row.
	owners, err := repo.List(ctx, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

func TestOwnerRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOwnerRepository(db)

	_, err := repo.GetByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestOwnerRepository_DeactivateIsSoft(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOwnerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.Owner{Name: "camilo", IsActive: true}))
	require.NoError(t, repo.Deactivate(ctx, "camilo"))

	// Still readable, but no longer active.
	got, err := repo.GetByName(ctx, "camilo")
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := repo.IsActive(ctx, "camilo")
	require.NoError(t, err)
	assert.False(t, active)

	all, err := repo.List(ctx, false, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	activeOnly, err := repo.List(ctx, true, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, activeOnly)
}

func TestOwnerRepository_DeactivateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOwnerRepository(db)

	err := repo.Deactivate(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestOwnerRepository_ActiveNames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOwnerRepository(db)
	ctx := context.Background()

	for _, name := range []string{"julia", "alessandro", "jesus"} {
		require.NoError(t, repo.Create(ctx, &domain.Owner{Name: name, IsActive: true}))
	}
	require.NoError(t, repo.Deactivate(ctx, "jesus"))

	names, err := repo.ActiveNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alessandro", "julia"}, names)
}
