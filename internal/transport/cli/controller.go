package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/converter/textConverter"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/utils"
)

const (
	invalidSharesMsg = "Invalid number of shares. Please enter a positive integer.\n"
	invalidIDMsg     = "Invalid stock ID. Please enter a valid integer.\n"
	invalidSymbolMsg = "Invalid stock symbol. Please enter a ticker such as AAPL.\n"
)

type PortfolioService interface {
	AddHolding(ctx context.Context, symbol string, shares int64) (model.Holding, error)
	RemoveHolding(ctx context.Context, id int64) (holding model.Holding, removed bool, err error)
	ValuePortfolio(ctx context.Context) (model.PortfolioValuation, error)
	ExportPortfolio(ctx context.Context) (fileBytes []byte, fileExtension string, err error)
}

// Controller turns user input into service calls and reports every outcome on
// the terminal. Errors are returned after being reported so callers can decide
// whether to keep going.
type Controller struct {
	portfolioService PortfolioService
	term             *Terminal
	currency         string
}

func NewController(cfg *config.Config, portfolioService PortfolioService, term *Terminal) *Controller {
	return &Controller{
		portfolioService: portfolioService,
		term:             term,
		currency:         cfg.Currency,
	}
}

func (ctrl *Controller) ViewPortfolio(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	valuation, err := ctrl.portfolioService.ValuePortfolio(ctx)
	if err != nil {
		slog.Error("got error from portfolioService.ValuePortfolio", slog.String("rqID", rqID), slog.String("err", err.Error()))
		_ = ctrl.term.Sendf("Error loading portfolio: %v\n", err)
		return err
	}

	return ctrl.term.Send(textConverter.PortfolioValuationResponse(valuation, ctrl.currency))
}

func (ctrl *Controller) AddStock(ctx context.Context) error {
	symbol, err := ctrl.term.Prompt("Enter the stock symbol (e.g., AAPL): ")
	if err != nil {
		return err
	}

	shares, err := ctrl.term.Prompt("Enter the number of shares: ")
	if err != nil {
		return err
	}

	return ctrl.AddHolding(ctx, symbol, shares)
}

// AddHolding accepts shares only as a plain run of digits with a positive value.
func (ctrl *Controller) AddHolding(ctx context.Context, symbolInput, sharesInput string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	shares, ok := parseShares(sharesInput)
	if !ok {
		_ = ctrl.term.Send(invalidSharesMsg)
		return ErrInvalidInput
	}

	holding, err := ctrl.portfolioService.AddHolding(ctx, symbolInput, shares)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSymbol):
			_ = ctrl.term.Send(invalidSymbolMsg)
			return ErrInvalidInput
		case errors.Is(err, service.ErrInvalidShares):
			_ = ctrl.term.Send(invalidSharesMsg)
			return ErrInvalidInput
		}
		slog.Error("got error from portfolioService.AddHolding", slog.String("rqID", rqID), slog.String("err", err.Error()))
		_ = ctrl.term.Sendf("Error adding stock: %v\n", err)
		return err
	}

	return ctrl.term.Sendf("Added %d shares of %s to the portfolio (ID %d).\n", holding.Shares, holding.Symbol, holding.ID)
}

func (ctrl *Controller) RemoveStock(ctx context.Context) error {
	id, err := ctrl.term.Prompt("Enter the stock ID to remove: ")
	if err != nil {
		return err
	}

	return ctrl.RemoveHolding(ctx, id)
}

func (ctrl *Controller) RemoveHolding(ctx context.Context, idInput string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	id, err := strconv.ParseInt(strings.TrimSpace(idInput), 10, 64)
	if err != nil {
		_ = ctrl.term.Send(invalidIDMsg)
		return ErrInvalidInput
	}

	holding, removed, err := ctrl.portfolioService.RemoveHolding(ctx, id)
	if err != nil {
		slog.Error("got error from portfolioService.RemoveHolding", slog.String("rqID", rqID), slog.String("err", err.Error()))
		_ = ctrl.term.Sendf("Error removing stock: %v\n", err)
		return err
	}

	if !removed {
		return ctrl.term.Sendf("No stock with ID %d in the portfolio.\n", id)
	}

	return ctrl.term.Sendf("Removed stock with ID %d (%d shares of %s) from the portfolio.\n", id, holding.Shares, holding.Symbol)
}

func (ctrl *Controller) ExportPortfolio(ctx context.Context, path string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	fileBytes, fileExtension, err := ctrl.portfolioService.ExportPortfolio(ctx)
	if err != nil {
		slog.Error("got error from portfolioService.ExportPortfolio", slog.String("rqID", rqID), slog.String("err", err.Error()))
		_ = ctrl.term.Sendf("Error exporting portfolio: %v\n", err)
		return err
	}

	if filepath.Ext(path) == "" {
		path += fileExtension
	}

	if err = os.WriteFile(path, fileBytes, 0o644); err != nil {
		slog.Error("can't write export file", slog.String("rqID", rqID), slog.String("path", path), slog.String("err", err.Error()))
		_ = ctrl.term.Sendf("Error exporting portfolio: %v\n", err)
		return fmt.Errorf("write export: %w", err)
	}

	return ctrl.term.Sendf("Portfolio exported to %s.\n", path)
}

func (ctrl *Controller) Exit(_ context.Context) error {
	_ = ctrl.term.Send("Exiting the program.\n")
	return ErrExit
}

func (ctrl *Controller) InvalidChoice(_ context.Context) error {
	return ctrl.term.Send("Invalid choice. Please choose again.\n")
}

func parseShares(input string) (int64, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, false
	}

	for _, r := range input {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	shares, err := strconv.ParseInt(input, 10, 64)
	if err != nil || shares <= 0 {
		return 0, false
	}

	return shares, true
}
