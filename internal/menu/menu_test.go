package menu

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/data"
	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model/yahooModel"
	"github.com/KotFed0t/portfolio_tracker/internal/service/portfolioService"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/cli"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices map[string]string

func (p stubPrices) GetQuote(_ context.Context, symbol string) (yahooModel.Quote, error) {
	price, ok := p[symbol]
	if !ok {
		return yahooModel.Quote{}, externalApi.ErrNotFound
	}
	return yahooModel.Quote{Symbol: symbol, Currency: "USD", Close: decimal.RequireFromString(price)}, nil
}

type panickingPrices struct{}

func (panickingPrices) GetQuote(context.Context, string) (yahooModel.Quote, error) {
	panic("quote decoder bug")
}

// session runs the menu over input against the store at dsn and returns everything printed.
func session(t *testing.T, dsn string, prices portfolioService.PriceApi, input string) string {
	t.Helper()

	cfg := &config.Config{
		Currency: "USD",
		Store:    config.Store{Driver: data.DriverSQLite, DSN: dsn, ConnAttempts: 1, MaxOpenConns: 1},
	}

	db, err := data.NewSQLClient(cfg)
	require.NoError(t, err)
	defer db.Close()

	out := &bytes.Buffer{}
	term := cli.NewTerminal(strings.NewReader(input), out)
	srv := portfolioService.New(repository.NewSQL(db), prices, nil)

	require.NoError(t, New(cli.NewController(cfg, srv, term), term).Run(context.Background()))

	return out.String()
}

func TestMenuExampleValuation(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "portfolio.db")
	prices := stubPrices{"AAPL": "150.00", "MSFT": "300.00"}

	out := session(t, dsn, prices, "2\naapl\n10\n2\nMSFT\n5\n1\n4\n")

	assert.Contains(t, out, "Stock Portfolio Tracker\n1. View Portfolio\n2. Add Stock\n3. Remove Stock\n4. Exit\n")
	assert.Contains(t, out, "Added 10 shares of AAPL to the portfolio (ID 1).")
	assert.Contains(t, out, "Added 5 shares of MSFT to the portfolio (ID 2).")
	assert.Contains(t, out, "[1] AAPL: 10 shares @ $150.00 = $1,500.00")
	assert.Contains(t, out, "[2] MSFT: 5 shares @ $300.00 = $1,500.00")
	assert.Contains(t, out, "Total Portfolio Value: $3,000.00")
	assert.True(t, strings.HasSuffix(out, "Exiting the program.\n"))
}

func TestMenuPersistsAcrossRestart(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "portfolio.db")
	prices := stubPrices{"AAPL": "150.00"}

	session(t, dsn, prices, "2\nAAPL\n10\n4\n")
	out := session(t, dsn, prices, "1\n4\n")

	assert.Contains(t, out, "[1] AAPL: 10 shares @ $150.00 = $1,500.00")
}

func TestMenuRemove(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "portfolio.db")
	prices := stubPrices{"AAPL": "150.00", "MSFT": "300.00"}

	session(t, dsn, prices, "2\nAAPL\n10\n2\nMSFT\n5\n4\n")
	out := session(t, dsn, prices, "3\n99\n3\n1\n1\n4\n")

	assert.Contains(t, out, "No stock with ID 99 in the portfolio.")
	assert.Contains(t, out, "Removed stock with ID 1 (10 shares of AAPL) from the portfolio.")
	assert.NotContains(t, out, "AAPL:")
	assert.Contains(t, out, "Total Portfolio Value: $1,500.00")
}

func TestMenuEmptyPortfolio(t *testing.T) {
	out := session(t, filepath.Join(t.TempDir(), "portfolio.db"), stubPrices{}, "1\n4\n")

	assert.Contains(t, out, "Your portfolio is empty.")
	assert.NotContains(t, out, "Total Portfolio Value")
}

func TestMenuRejectsBadInputAndKeepsRunning(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "portfolio.db")

	out := session(t, dsn, stubPrices{}, "9\n2\nAAPL\nten\n2\nAAPL\n0\n3\nx\n1\n4\n")

	assert.Contains(t, out, "Invalid choice. Please choose again.")
	assert.Equal(t, 2, strings.Count(out, "Invalid number of shares. Please enter a positive integer."))
	assert.Contains(t, out, "Invalid stock ID. Please enter a valid integer.")
	assert.Contains(t, out, "Your portfolio is empty.", "rejected input must not reach the store")
}

func TestMenuFlagsUnpricedHoldings(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "portfolio.db")

	out := session(t, dsn, stubPrices{"AAPL": "150.00"}, "2\nAAPL\n10\n2\nZZZZ\n1\n1\n4\n")

	assert.Contains(t, out, "[2] ZZZZ: Unable to fetch price")
	assert.Contains(t, out, "Total Portfolio Value: $1,500.00")
}

func TestMenuStopsAtEndOfInput(t *testing.T) {
	out := session(t, filepath.Join(t.TempDir(), "portfolio.db"), stubPrices{}, "1\n")

	assert.Contains(t, out, "Your portfolio is empty.")
	assert.NotContains(t, out, "Exiting the program.")
}

func TestMenuReportsPanickingAction(t *testing.T) {
	out := session(t, filepath.Join(t.TempDir(), "portfolio.db"), panickingPrices{}, "2\nAAPL\n1\n1\n4\n")

	assert.Contains(t, out, "Added 1 shares of AAPL to the portfolio (ID 1).")
	assert.Contains(t, out, "Error: view portfolio failed unexpectedly.")
	assert.Contains(t, out, "Exiting the program.")
}
