package token

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/testutil/pgtest"
)

func TestPostgres_RevokeAndPurge(t *testing.T) {
	pool := pgtest.Pool(t)
	ctx := context.Background()
	userID := pgtest.InsertUser(t, pool, "u@example.com", domain.RoleUser)
	repo := NewPostgres(pool)

	now := time.Now().UTC()
	require.NoError(t, repo.Revoke(ctx, Revocation{JTI: "live", UserID: userID, ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Revoke(ctx, Revocation{JTI: "old", UserID: userID, ExpiresAt: now.Add(-time.Hour)}))
	// revoking twice is a no-op
	require.NoError(t, repo.Revoke(ctx, Revocation{JTI: "live", UserID: userID, ExpiresAt: now.Add(time.Hour)}))

	revoked, err := repo.IsRevoked(ctx, "live")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, revoked)

	n, err := repo.PurgeExpired(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
