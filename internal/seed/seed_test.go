package seed

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelfsync/internal/db"
	"shelfsync/internal/domain"
	"shelfsync/internal/migrate"
	accountrepo "shelfsync/internal/repository/account"
	listingrepo "shelfsync/internal/repository/listing"
)

func TestDemoAccountsCoverEveryRole(t *testing.T) {
	roles := map[domain.Role]bool{}
	for _, a := range demoAccounts() {
		roles[a.Role] = true
	}
	assert.Len(t, roles, 3)
}

func TestDemoListingsHaveUniqueTitles(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range demoListings() {
		require.False(t, seen[l.Title], "duplicate title %q", l.Title)
		seen[l.Title] = true
		assert.NotEmpty(t, l.Author)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping integration test")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, migrate.Apply(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE books, tokens, users CASCADE`)
	require.NoError(t, err)

	require.NoError(t, Apply(ctx, pool, zap.NewNop()))
	require.NoError(t, Apply(ctx, pool, zap.NewNop()))

	accounts := accountrepo.NewPostgres(pool, zap.NewNop())
	n, err := accounts.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	seller, err := accounts.GetByEmail(ctx, DemoSeller)
	require.NoError(t, err)
	rows, err := listingrepo.NewPostgres(pool, zap.NewNop()).ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Len(t, rows, len(demoListings()))
}
