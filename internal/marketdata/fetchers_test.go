// In file: internal/marketdata/fetchers_test.go
package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econosage/gateway/internal/query"
)

func TestStockPriceFetcherParsesQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "aapl.us", r.URL.Query().Get("s"), "plain tickers get the .us suffix")
		fmt.Fprintln(w, "Symbol,Date,Time,Open,High,Low,Close,Volume")
		fmt.Fprintln(w, "AAPL.US,2026-08-28,22:00:02,230.1,233.4,229.8,232.56,41256300")
	}))
	defer srv.Close()

	sf := NewStockPriceFetcher()
	sf.baseURL = srv.URL

	price, desc, err := sf.Fetch(context.Background(), query.ParamMap{"stock_symbol": "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, 232.56, price)
	assert.Contains(t, desc, "AAPL")
}

func TestStockPriceFetcherUnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "Symbol,Date,Time,Open,High,Low,Close,Volume")
		fmt.Fprintln(w, "NOPE.US,N/D,N/D,N/D,N/D,N/D,N/D,N/D")
	}))
	defer srv.Close()

	sf := NewStockPriceFetcher()
	sf.baseURL = srv.URL

	_, _, err := sf.Fetch(context.Background(), query.ParamMap{"stock_symbol": "NOPE"})
	assert.Error(t, err)
}

func TestCurrencyRateFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "USD", r.URL.Query().Get("from"))
		assert.Equal(t, "INR", r.URL.Query().Get("to"))
		fmt.Fprintln(w, `{"amount":1,"base":"USD","date":"2026-08-28","rates":{"INR":87.43}}`)
	}))
	defer srv.Close()

	cf := NewCurrencyRateFetcher()
	cf.baseURL = srv.URL

	rate, desc, err := cf.Fetch(context.Background(), query.ParamMap{
		"from_currency": "usd", "to_currency": "inr",
	})
	require.NoError(t, err)
	assert.Equal(t, 87.43, rate)
	assert.Contains(t, desc, "USD/INR")
}

func TestCurrencyRateFetcherIdenticalCurrencies(t *testing.T) {
	cf := NewCurrencyRateFetcher()
	cf.baseURL = "http://should-not-be-called.invalid"

	rate, _, err := cf.Fetch(context.Background(), query.ParamMap{
		"from_currency": "EUR", "to_currency": "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestInflationRateFetcherSkipsNullObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `[{"page":1},[{"date":"2025","value":null},{"date":"2024","value":5.4}]]`)
	}))
	defer srv.Close()

	inf := NewInflationRateFetcher()
	inf.baseURL = srv.URL

	rate, desc, err := inf.Fetch(context.Background(), query.ParamMap{"country_code": "IN"})
	require.NoError(t, err)
	assert.Equal(t, 5.4, rate, "the most recent non-null observation wins")
	assert.Contains(t, desc, "2024")
}

func TestInflationRateFetcherYearPin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2020", r.URL.Query().Get("date"))
		fmt.Fprintln(w, `[{"page":1},[{"date":"2020","value":6.2}]]`)
	}))
	defer srv.Close()

	inf := NewInflationRateFetcher()
	inf.baseURL = srv.URL

	rate, _, err := inf.Fetch(context.Background(), query.ParamMap{"country_code": "IN", "year": 2020.0})
	require.NoError(t, err)
	assert.Equal(t, 6.2, rate)
}

func TestFetcherUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sf := NewStockPriceFetcher()
	sf.baseURL = srv.URL
	_, _, err := sf.Fetch(context.Background(), query.ParamMap{"stock_symbol": "AAPL"})
	assert.Error(t, err)

	cf := NewCurrencyRateFetcher()
	cf.baseURL = srv.URL
	_, _, err = cf.Fetch(context.Background(), query.ParamMap{"from_currency": "USD", "to_currency": "INR"})
	assert.Error(t, err)

	inf := NewInflationRateFetcher()
	inf.baseURL = srv.URL
	_, _, err = inf.Fetch(context.Background(), query.ParamMap{"country_code": "IN"})
	assert.Error(t, err)
}
