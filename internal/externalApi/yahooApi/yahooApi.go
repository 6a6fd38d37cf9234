package yahooApi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/KotFed0t/portfolio_tracker/internal/model/yahooModel"
	"github.com/KotFed0t/portfolio_tracker/utils"
	"github.com/go-resty/resty/v2"
)

const chartNotFoundCode = "Not Found"

type YahooApi struct {
	client *resty.Client
}

func New(cfg *config.Config) *YahooApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.YahooApi.Url).
		SetHeader("User-Agent", cfg.API.YahooApi.UserAgent)
	return &YahooApi{client: client}
}

// GetQuote returns the most recent daily close of symbol. When the one-day
// window holds several rows only the first one is used.
func (a *YahooApi) GetQuote(ctx context.Context, symbol string) (yahooModel.Quote, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	url := "/v8/finance/chart/{symbol}"
	params := map[string]string{
		"range":    "1d",
		"interval": "1d",
	}

	slog.Debug("start YahooApi.GetQuote request", slog.String("rqID", rqID), slog.String("symbol", symbol))

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("symbol", symbol).
		SetQueryParams(params).
		Get(url)

	if err != nil {
		slog.Error("error while dialing YahooApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return yahooModel.Quote{}, fmt.Errorf("dial yahoo chart api: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		slog.Warn("symbol not found in YahooApi", slog.String("rqID", rqID), slog.String("symbol", symbol))
		return yahooModel.Quote{}, externalApi.ErrNotFound
	}

	if !resp.IsSuccess() {
		slog.Error("unexpected YahooApi status", slog.String("rqID", rqID), slog.String("status", resp.Status()))
		return yahooModel.Quote{}, fmt.Errorf("%w: %s", externalApi.ErrUnexpectedStatus, resp.Status())
	}

	rawChart := yahooModel.RawChart{}
	err = json.Unmarshal(resp.Body(), &rawChart)
	if err != nil {
		slog.Error("can't unmarshall response into yahooModel.RawChart", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return yahooModel.Quote{}, fmt.Errorf("decode yahoo chart: %w", err)
	}

	quote, err := a.parseRawChart(rawChart)
	if err != nil {
		if errors.Is(err, externalApi.ErrNotFound) {
			slog.Warn("no price data in YahooApi response", slog.String("rqID", rqID), slog.String("symbol", symbol))
		} else {
			slog.Error("can't parse raw chart", slog.String("err", err.Error()), slog.String("rqID", rqID))
		}
		return yahooModel.Quote{}, err
	}

	if quote.Symbol == "" {
		quote.Symbol = symbol
	}

	slog.Debug("YahooApi.GetQuote request complete", slog.String("rqID", rqID), slog.String("close", quote.Close.String()))

	return quote, nil
}

func (a *YahooApi) parseRawChart(rawChart yahooModel.RawChart) (yahooModel.Quote, error) {
	if chartErr := rawChart.Chart.Error; chartErr != nil {
		if chartErr.Code == chartNotFoundCode {
			return yahooModel.Quote{}, externalApi.ErrNotFound
		}
		return yahooModel.Quote{}, fmt.Errorf("chart error %s: %s", chartErr.Code, chartErr.Description)
	}

	if len(rawChart.Chart.Result) == 0 {
		return yahooModel.Quote{}, externalApi.ErrNotFound
	}

	result := rawChart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return yahooModel.Quote{}, externalApi.ErrNotFound
	}

	first := result.Indicators.Quote[0].Close[0]
	if !first.Valid {
		return yahooModel.Quote{}, externalApi.ErrNotFound
	}

	quote := yahooModel.Quote{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		Close:    first.Decimal,
	}

	if len(result.Timestamp) > 0 {
		quote.Time = time.Unix(result.Timestamp[0], 0).UTC()
	}

	return quote, nil
}
