// In file: internal/query/extract_test.go
package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParamsCompoundInterest(t *testing.T) {
	params := ExtractParams("Calculate compound interest: P = 5000, r = 5%, t = 3, n = 4")

	require.Len(t, params, 4)
	p, ok := params.Float("P")
	require.True(t, ok)
	assert.Equal(t, 5000.0, p)

	r, ok := params.Float("r")
	require.True(t, ok)
	assert.Equal(t, 0.05, r, "rate literal above 1 is stored as a decimal fraction")

	tm, ok := params.Float("t")
	require.True(t, ok)
	assert.Equal(t, 3.0, tm)

	n, ok := params.Float("n")
	require.True(t, ok)
	assert.Equal(t, 4.0, n)
}

func TestExtractParamsCompactSpelling(t *testing.T) {
	// The same sentence without spaces around "=" and with a unit suffix.
	params := ExtractParams("Calculate compound interest: P=5000, r=5%, t=3 years, n=4")

	require.Len(t, params, 4)
	assert.Equal(t, ParamMap{"P": 5000.0, "r": 0.05, "t": 3.0, "n": 4.0}, params)
}

func TestExtractParamsCurrencyPairExact(t *testing.T) {
	params := ExtractParams("data_fetch: get_currency_rate: from_currency=USD, to_currency=EUR")

	assert.Equal(t, ParamMap{"from_currency": "USD", "to_currency": "EUR"}, params,
		"currency codes must never be numerically coerced")
}

func TestExtractParamsPercentNormalizationIdempotent(t *testing.T) {
	// "5%" and "0.05" are the same rate and must store the same value.
	withPercent := ExtractParams("simple interest with r = 5%")
	asFraction := ExtractParams("simple interest with r = 0.05")

	r1, ok := withPercent.Float("r")
	require.True(t, ok)
	r2, ok := asFraction.Float("r")
	require.True(t, ok)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 0.05, r1)
}

func TestExtractParamsNamedRateNotShadowed(t *testing.T) {
	params := ExtractParams("NPV with discount rate = 10% and cash flows = [100, 200, 300.5]")

	dr, ok := params.Float("discount_rate")
	require.True(t, ok)
	assert.Equal(t, 0.1, dr)

	flows, ok := params.Floats("cash_flows")
	require.True(t, ok)
	assert.Equal(t, []float64{100, 200, 300.5}, flows)
}

func TestExtractParamsAbsentKeysStayAbsent(t *testing.T) {
	params := ExtractParams("what even is money")

	_, ok := params["P"]
	assert.False(t, ok, "a pattern with no match must not write its key")
	for key, val := range params {
		assert.NotNil(t, val, "extracted value for %q must never be nil", key)
	}
}

func TestExtractParamsCountryCodeNeedsExplicitCode(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string // empty means country_code must stay absent
	}{
		{"explicit country", "inflation where country = IN", "IN"},
		{"canonical spelling", "inflation country_code = GB", "GB"},
		{"for plus code", "inflation for BR", "BR"},
		{"formula reply prefix", "FORMULA: compound_interest: P = 5000, r = 5, t = 3, n = 4", ""},
		{"prose for", "a plan for my retirement with rate = 5", ""},
		{"lowercase country name", "inflation for india", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params := ExtractParams(tc.text)
			code, ok := params.String("country_code")
			if tc.want == "" {
				assert.False(t, ok, "no country code should be read from %q", tc.text)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestExtractParamsStructuredMode(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"lowercase prefix", "data_fetch: get_stock_price: stock_symbol = AAPL, shares = 2"},
		{"uppercase prefix", "DATA_FETCH: get_stock_price: stock_symbol = AAPL, shares = 2"},
		{"leading whitespace", "  data_fetch: get_stock_price: stock_symbol = AAPL, shares = 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ExtractParams(tt.text)

			symbol, ok := params.String("stock_symbol")
			require.True(t, ok)
			assert.Equal(t, "AAPL", symbol, "non-numeric values stay strings")

			shares, ok := params.Float("shares")
			require.True(t, ok)
			assert.Equal(t, 2.0, shares, "numeric-shaped values are coerced")
		})
	}
}

func TestExtractParamsStructuredModeSkipsMalformedPairs(t *testing.T) {
	params := ExtractParams("data_fetch: get_currency_rate: from_currency = USD, nonsense, to_currency = INR")

	from, ok := params.String("from_currency")
	require.True(t, ok)
	assert.Equal(t, "USD", from)

	to, ok := params.String("to_currency")
	require.True(t, ok)
	assert.Equal(t, "INR", to)
	assert.Len(t, params, 2, "pairs without '=' contribute nothing")
}

func TestExtractParamsStructuredModeSkipsRegexTable(t *testing.T) {
	// In structured mode the free-text patterns must not run: "rate = 75"
	// would be percent-normalized by the regex path, but the directive's
	// literal value is stored untouched.
	params := ExtractParams("data_fetch: get_inflation_rate: rate = 75")

	rate, ok := params.Float("rate")
	require.True(t, ok)
	assert.Equal(t, 75.0, rate)
}

func TestParamMapAccessors(t *testing.T) {
	params := ParamMap{
		"P":          5000.0,
		"symbol":     "AAPL",
		"cash_flows": []float64{1, 2},
	}

	_, ok := params.Float("symbol")
	assert.False(t, ok, "Float must reject non-numeric values")
	_, ok = params.String("P")
	assert.False(t, ok, "String must reject non-string values")
	_, ok = params.Floats("P")
	assert.False(t, ok, "Floats must reject scalar values")

	clone := params.Clone()
	clone["P"] = 1.0
	p, _ := params.Float("P")
	assert.Equal(t, 5000.0, p, "Clone must not alias the original map")
}
