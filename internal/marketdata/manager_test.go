// In file: internal/marketdata/manager_test.go
package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econosage/gateway/internal/query"
)

// fakeFetcher is a scriptable Fetcher for exercising the manager without
// any network calls.
type fakeFetcher struct {
	name     string
	requires []string
	output   string
	value    float64
	err      error
	calls    int
}

var _ Fetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Name() string       { return f.name }
func (f *fakeFetcher) Requires() []string { return f.requires }
func (f *fakeFetcher) OutputKey() string  { return f.output }

func (f *fakeFetcher) Fetch(_ context.Context, _ query.ParamMap) (float64, string, error) {
	f.calls++
	if f.err != nil {
		return 0, "", f.err
	}
	return f.value, "fake " + f.name, nil
}

func TestManagerExecute(t *testing.T) {
	f := &fakeFetcher{name: "get_stock_price", requires: []string{"stock_symbol"}, output: "stock_price", value: 142.5}
	m := NewManager(nil, f)

	value, desc, err := m.Execute(context.Background(), "get_stock_price", query.ParamMap{"stock_symbol": "AAPL"})

	require.NoError(t, err)
	assert.Equal(t, 142.5, value)
	assert.Contains(t, desc, "get_stock_price")
}

func TestManagerExecuteUnknownFetcher(t *testing.T) {
	m := NewManager(nil)

	_, _, err := m.Execute(context.Background(), "get_moon_phase", query.ParamMap{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFetcher))
}

func TestManagerExecuteReportsMissingInputs(t *testing.T) {
	f := &fakeFetcher{name: "get_currency_rate", requires: []string{"from_currency", "to_currency"}, output: "exchange_rate"}
	m := NewManager(nil, f)

	_, _, err := m.Execute(context.Background(), "get_currency_rate", query.ParamMap{"from_currency": "USD"})

	var mie *MissingInputsError
	require.ErrorAs(t, err, &mie)
	assert.Equal(t, []string{"to_currency"}, mie.Missing)
	assert.Zero(t, f.calls, "missing inputs must be caught before any fetch")
}

func TestManagerEnrichFillsReadyOutputs(t *testing.T) {
	f := &fakeFetcher{name: "get_gst_rate", requires: []string{"country_code"}, output: "tax_rate", value: 0.18}
	m := NewManager(nil, f)

	params := query.ParamMap{"country_code": "IN", "base_price": 100.0}
	enriched := m.Enrich(context.Background(), params)

	rate, ok := enriched.Float("tax_rate")
	require.True(t, ok)
	assert.Equal(t, 0.18, rate)

	_, ok = params["tax_rate"]
	assert.False(t, ok, "enrichment must not mutate the caller's map")
}

func TestManagerEnrichSkipsUnreadyAndPresent(t *testing.T) {
	needsSymbol := &fakeFetcher{name: "get_stock_price", requires: []string{"stock_symbol"}, output: "stock_price", value: 99}
	hasOutput := &fakeFetcher{name: "get_gst_rate", requires: []string{"country_code"}, output: "tax_rate", value: 0.18}
	m := NewManager(nil, needsSymbol, hasOutput)

	params := query.ParamMap{"country_code": "IN", "tax_rate": 0.05}
	enriched := m.Enrich(context.Background(), params)

	assert.Zero(t, needsSymbol.calls, "a fetcher with missing inputs must not run")
	assert.Zero(t, hasOutput.calls, "a fetcher whose output is already present must not run")
	rate, _ := enriched.Float("tax_rate")
	assert.Equal(t, 0.05, rate, "user-provided values win over enrichment")
}

func TestManagerEnrichIsBestEffort(t *testing.T) {
	broken := &fakeFetcher{name: "get_inflation_rate", requires: []string{"country_code"}, output: "inflation_rate", err: errors.New("upstream down")}
	working := &fakeFetcher{name: "get_gst_rate", requires: []string{"country_code"}, output: "tax_rate", value: 0.18}
	m := NewManager(nil, broken, working)

	enriched := m.Enrich(context.Background(), query.ParamMap{"country_code": "IN"})

	_, ok := enriched["inflation_rate"]
	assert.False(t, ok, "a failed source contributes nothing")
	rate, ok := enriched.Float("tax_rate")
	require.True(t, ok, "one failed source must not stop the others")
	assert.Equal(t, 0.18, rate)
}

func TestManagerCachesFetchedValues(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := &fakeFetcher{name: "get_stock_price", requires: []string{"stock_symbol"}, output: "stock_price", value: 142.5}
	m := NewManager(rdb, f)
	ctx := context.Background()
	params := query.ParamMap{"stock_symbol": "AAPL"}

	first, _, err := m.Execute(ctx, "get_stock_price", params)
	require.NoError(t, err)
	second, _, err := m.Execute(ctx, "get_stock_price", params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls, "the second call must be served from cache")

	// A different symbol is a different cache entry.
	_, _, err = m.Execute(ctx, "get_stock_price", query.ParamMap{"stock_symbol": "MSFT"})
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls)
}

func TestManagerCacheExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := &fakeFetcher{name: "get_stock_price", requires: []string{"stock_symbol"}, output: "stock_price", value: 142.5}
	m := NewManager(rdb, f)
	ctx := context.Background()
	params := query.ParamMap{"stock_symbol": "AAPL"}

	_, _, err := m.Execute(ctx, "get_stock_price", params)
	require.NoError(t, err)
	mr.FastForward(marketCacheTTL + 1)
	_, _, err = m.Execute(ctx, "get_stock_price", params)
	require.NoError(t, err)

	assert.Equal(t, 2, f.calls, "an expired entry must fetch fresh")
}

func TestManagerDuplicateRegistrationIgnored(t *testing.T) {
	first := &fakeFetcher{name: "get_gst_rate", requires: []string{"country_code"}, output: "tax_rate", value: 0.18}
	second := &fakeFetcher{name: "get_gst_rate", requires: []string{"country_code"}, output: "tax_rate", value: 0.99}
	m := NewManager(nil, first, second)

	value, _, err := m.Execute(context.Background(), "get_gst_rate", query.ParamMap{"country_code": "IN"})
	require.NoError(t, err)
	assert.Equal(t, 0.18, value, "the first registration wins")
}

func TestManagerRequires(t *testing.T) {
	f := &fakeFetcher{name: "get_gst_rate", requires: []string{"country_code"}, output: "tax_rate"}
	m := NewManager(nil, f)

	assert.Equal(t, []string{"country_code"}, m.Requires("get_gst_rate"))
	assert.Nil(t, m.Requires("unknown"))
}
