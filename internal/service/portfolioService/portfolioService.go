package portfolioService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/portfolio_tracker/data/repository"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model"
	"github.com/KotFed0t/portfolio_tracker/internal/model/yahooModel"
	"github.com/KotFed0t/portfolio_tracker/internal/service"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/shopspring/decimal"
)

type PriceApi interface {
	GetQuote(ctx context.Context, symbol string) (yahooModel.Quote, error)
}

type Repository interface {
	InsertHolding(ctx context.Context, symbol string, shares int64) (model.Holding, error)
	DeleteHolding(ctx context.Context, id int64) (deleted bool, err error)
	GetHolding(ctx context.Context, id int64) (model.Holding, error)
	GetHoldings(ctx context.Context) ([]model.Holding, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, valuation model.PortfolioValuation) (fileBytes []byte, fileExtension string, err error)
}

type PortfolioService struct {
	repo            Repository
	priceApi        PriceApi
	reportGenerator ReportGenerator
}

func New(repo Repository, priceApi PriceApi, reportGenerator ReportGenerator) *PortfolioService {
	return &PortfolioService{
		repo:            repo,
		priceApi:        priceApi,
		reportGenerator: reportGenerator,
	}
}

func (s *PortfolioService) ListHoldings(ctx context.Context) ([]model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ListHoldings"

	slog.Debug("ListHoldings start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ListHoldings finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	holdings, err := s.repo.GetHoldings(ctx)
	if err != nil {
		slog.Error("got error from repo.GetHoldings", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	return holdings, nil
}

// AddHolding stores shares of symbol. The symbol is normalized to upper case;
// nothing is written when the input is invalid.
func (s *PortfolioService) AddHolding(ctx context.Context, symbol string, shares int64) (model.Holding, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.AddHolding"

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	slog.Debug("AddHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.Int64("shares", shares))
	defer func() {
		slog.Debug("AddHolding finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	if symbol == "" {
		return model.Holding{}, service.ErrInvalidSymbol
	}

	if shares <= 0 {
		return model.Holding{}, service.ErrInvalidShares
	}

	holding, err := s.repo.InsertHolding(ctx, symbol, shares)
	if err != nil {
		slog.Error("got error from repo.InsertHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, err
	}

	return holding, nil
}

// RemoveHolding deletes the holding and returns it. A missing id is not an
// error: removed is reported false and the store is left unchanged.
func (s *PortfolioService) RemoveHolding(ctx context.Context, id int64) (holding model.Holding, removed bool, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.RemoveHolding"

	slog.Debug("RemoveHolding start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("id", id))
	defer func() {
		slog.Debug("RemoveHolding finished", slog.String("rqID", rqID), slog.String("op", op), slog.Bool("removed", removed))
	}()

	holding, err = s.repo.GetHolding(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Holding{}, false, nil
		}
		slog.Error("got error from repo.GetHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, false, err
	}

	removed, err = s.repo.DeleteHolding(ctx, id)
	if err != nil {
		slog.Error("got error from repo.DeleteHolding", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Holding{}, false, err
	}
	if !removed {
		return model.Holding{}, false, nil
	}

	return holding, true, nil
}

func (s *PortfolioService) GetPrice(ctx context.Context, symbol string) (yahooModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.GetPrice"

	slog.Debug("GetPrice start", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("GetPrice finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
	}()

	quote, err := s.priceApi.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("price not found", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol))
			return yahooModel.Quote{}, fmt.Errorf("%w for %s", service.ErrPriceNotFound, symbol)
		}
		slog.Warn("can't get price from priceApi", slog.String("rqID", rqID), slog.String("op", op), slog.String("symbol", symbol), slog.String("err", err.Error()))
		return yahooModel.Quote{}, err
	}

	return quote, nil
}

// ValuePortfolio prices every holding one after another. Holdings whose price
// lookup fails are kept in the result with Priced unset and do not count
// towards the total.
func (s *PortfolioService) ValuePortfolio(ctx context.Context) (valuation model.PortfolioValuation, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ValuePortfolio"

	slog.Debug("ValuePortfolio start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ValuePortfolio finished", slog.String("rqID", rqID), slog.String("op", op),
			slog.Int("holdings", len(valuation.Holdings)), slog.Int("priced", valuation.PricedCount))
	}()

	holdings, err := s.ListHoldings(ctx)
	if err != nil {
		return model.PortfolioValuation{}, err
	}

	valuation.Holdings = make([]model.HoldingValuation, 0, len(holdings))
	for _, holding := range holdings {
		hv := model.HoldingValuation{Holding: holding}

		quote, err := s.GetPrice(ctx, holding.Symbol)
		if err != nil {
			hv.Err = err
			valuation.Holdings = append(valuation.Holdings, hv)
			continue
		}

		hv.Priced = true
		hv.Price = quote.Close
		hv.Currency = quote.Currency
		hv.Value = quote.Close.Mul(decimal.NewFromInt(holding.Shares))

		valuation.Total = valuation.Total.Add(hv.Value)
		valuation.PricedCount++
		switch {
		case valuation.MixedCurrency:
		case valuation.Currency == "":
			valuation.Currency = quote.Currency
		case quote.Currency != "" && quote.Currency != valuation.Currency:
			valuation.MixedCurrency = true
			valuation.Currency = ""
		}

		valuation.Holdings = append(valuation.Holdings, hv)
	}

	return valuation, nil
}

func (s *PortfolioService) ExportPortfolio(ctx context.Context) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "PortfolioService.ExportPortfolio"

	slog.Debug("ExportPortfolio start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Debug("ExportPortfolio finished", slog.String("rqID", rqID), slog.String("op", op))
	}()

	valuation, err := s.ValuePortfolio(ctx)
	if err != nil {
		return nil, "", err
	}

	fileBytes, fileExtension, err = s.reportGenerator.Generate(ctx, valuation)
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	return fileBytes, fileExtension, nil
}
