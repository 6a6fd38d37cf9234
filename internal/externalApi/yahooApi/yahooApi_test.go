package yahooApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/externalApi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApi(t *testing.T, handler http.HandlerFunc) *YahooApi {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(&config.Config{
		API: config.API{
			Timeout:  5 * time.Second,
			YahooApi: config.YahooApi{Url: srv.URL, UserAgent: "portfolio-test"},
		},
	})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestGetQuote(t *testing.T) {
	var gotPath, gotRange, gotInterval, gotUA string
	api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		gotUA = r.Header.Get("User-Agent")
		respond(http.StatusOK, `{"chart":{"result":[{
			"meta":{"currency":"USD","symbol":"AAPL"},
			"timestamp":[1718983800,1719070200],
			"indicators":{"quote":[{"close":[150.00,151.25]}]}
		}],"error":null}}`)(w, r)
	})

	quote, err := api.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)
	assert.Equal(t, "1d", gotRange)
	assert.Equal(t, "1d", gotInterval)
	assert.Equal(t, "portfolio-test", gotUA)

	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, "150", quote.Close.String(), "first row of the window is used")
	assert.Equal(t, time.Unix(1718983800, 0).UTC(), quote.Time)
}

func TestGetQuoteNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{
			name:   "http 404 with chart error",
			status: http.StatusNotFound,
			body:   `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
		},
		{
			name:   "chart error with ok status",
			status: http.StatusOK,
			body:   `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`,
		},
		{
			name:   "empty result",
			status: http.StatusOK,
			body:   `{"chart":{"result":[],"error":null}}`,
		},
		{
			name:   "no close rows",
			status: http.StatusOK,
			body:   `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"XYZ"},"indicators":{"quote":[{"close":[]}]}}],"error":null}}`,
		},
		{
			name:   "null first close",
			status: http.StatusOK,
			body:   `{"chart":{"result":[{"meta":{"currency":"USD","symbol":"XYZ"},"timestamp":[1718983800],"indicators":{"quote":[{"close":[null]}]}}],"error":null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestApi(t, respond(tt.status, tt.body))

			_, err := api.GetQuote(context.Background(), "XYZ")
			assert.ErrorIs(t, err, externalApi.ErrNotFound)
		})
	}
}

func TestGetQuoteFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		api := newTestApi(t, respond(http.StatusInternalServerError, `oops`))

		_, err := api.GetQuote(context.Background(), "AAPL")
		assert.ErrorIs(t, err, externalApi.ErrUnexpectedStatus)
	})

	t.Run("malformed body", func(t *testing.T) {
		api := newTestApi(t, respond(http.StatusOK, `{"chart":`))

		_, err := api.GetQuote(context.Background(), "AAPL")
		require.Error(t, err)
		assert.NotErrorIs(t, err, externalApi.ErrNotFound)
	})

	t.Run("other chart error", func(t *testing.T) {
		api := newTestApi(t, respond(http.StatusOK, `{"chart":{"result":null,"error":{"code":"Bad Request","description":"Invalid input"}}}`))

		_, err := api.GetQuote(context.Background(), "AAPL")
		assert.ErrorContains(t, err, "Bad Request")
	})

	t.Run("single attempt only", func(t *testing.T) {
		calls := 0
		api := newTestApi(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			respond(http.StatusServiceUnavailable, ``)(w, r)
		})

		_, err := api.GetQuote(context.Background(), "AAPL")
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
