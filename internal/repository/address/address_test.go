package address

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/testutil/pgtest"
)

func TestPostgres_DefaultAddressIsExclusive(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	userID := pgtest.InsertUser(t, pool, "addr@example.com", domain.RoleUser)
	repo := NewPostgres(pool)

	first, err := repo.Create(ctx, domain.Address{UserID: userID, FullName: "A", Line1: "L1", City: "Ankara", Country: "TR"})
	require.NoError(t, err)
	require.True(t, first.IsDefault, "first address becomes default")

	second, err := repo.Create(ctx, domain.Address{UserID: userID, FullName: "B", Line1: "L2", City: "Izmir", Country: "TR", IsDefault: true})
	require.NoError(t, err)
	require.True(t, second.IsDefault)

	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID)
	require.False(t, list[1].IsDefault)

	first.IsDefault = true
	updated, err := repo.Update(ctx, *first)
	require.NoError(t, err)
	require.True(t, updated.IsDefault)

	reloaded, err := repo.Get(ctx, userID, second.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsDefault)
}

func TestPostgres_OwnerScoping(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	owner := pgtest.InsertUser(t, pool, "owner@example.com", domain.RoleUser)
	other := pgtest.InsertUser(t, pool, "other@example.com", domain.RoleUser)
	repo := NewPostgres(pool)

	a, err := repo.Create(ctx, domain.Address{UserID: owner, FullName: "A", Line1: "L1", City: "Bursa", Country: "TR"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, other, a.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, other, a.ID), domain.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, owner, a.ID))
}
