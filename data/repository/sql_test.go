package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, dsn string) *sqlx.DB {
	t.Helper()

	db, err := data.NewSQLClient(&config.Config{
		Store: config.Store{Driver: data.DriverSQLite, DSN: dsn, ConnAttempts: 1, MaxOpenConns: 1},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestInsertAndGetHoldings(t *testing.T) {
	ctx := context.Background()
	repo := NewSQL(openStore(t, filepath.Join(t.TempDir(), "portfolio.db")))

	holdings, err := repo.GetHoldings(ctx)
	require.NoError(t, err)
	assert.Empty(t, holdings)

	aapl, err := repo.InsertHolding(ctx, "AAPL", 10)
	require.NoError(t, err)
	msft, err := repo.InsertHolding(ctx, "MSFT", 5)
	require.NoError(t, err)
	assert.Greater(t, msft.ID, aapl.ID)

	holdings, err = repo.GetHoldings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Holding{
		{ID: aapl.ID, Symbol: "AAPL", Shares: 10},
		{ID: msft.ID, Symbol: "MSFT", Shares: 5},
	}, holdings)

	got, err := repo.GetHolding(ctx, msft.ID)
	require.NoError(t, err)
	assert.Equal(t, msft, got)
}

func TestHoldingsPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "portfolio.db")

	db := openStore(t, dsn)
	inserted, err := NewSQL(db).InsertHolding(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	holdings, err := NewSQL(openStore(t, dsn)).GetHoldings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Holding{inserted}, holdings)
}

func TestDeleteHolding(t *testing.T) {
	ctx := context.Background()
	repo := NewSQL(openStore(t, filepath.Join(t.TempDir(), "portfolio.db")))

	aapl, err := repo.InsertHolding(ctx, "AAPL", 10)
	require.NoError(t, err)
	msft, err := repo.InsertHolding(ctx, "MSFT", 5)
	require.NoError(t, err)

	t.Run("existing id", func(t *testing.T) {
		deleted, err := repo.DeleteHolding(ctx, aapl.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		holdings, err := repo.GetHoldings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Holding{msft}, holdings)

		_, err = repo.GetHolding(ctx, aapl.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		deleted, err := repo.DeleteHolding(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, deleted)

		holdings, err := repo.GetHoldings(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Holding{msft}, holdings)
	})
}

func TestInsertHoldingRejectsNonPositiveShares(t *testing.T) {
	ctx := context.Background()
	repo := NewSQL(openStore(t, filepath.Join(t.TempDir(), "portfolio.db")))

	_, err := repo.InsertHolding(ctx, "AAPL", 0)
	require.Error(t, err)

	holdings, err := repo.GetHoldings(ctx)
	require.NoError(t, err)
	assert.Empty(t, holdings)
}
