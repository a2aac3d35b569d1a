// In file: internal/query/parser_test.go
package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(client *stubClient, supports func(string) bool) *Parser {
	return NewParser(NewClassifier(client, "stub-model", 0), supports)
}

func supportsAll(string) bool { return true }

func TestParseFormulaFlow(t *testing.T) {
	client := &stubClient{reply: "FORMULA: compound_interest: P = 5000, r = 5, t = 3, n = 4"}
	p := newTestParser(client, supportsAll)

	parsed := p.Parse(context.Background(), "What will 5000 become in 3 years at 5% compounded quarterly in India?", "en")

	require.False(t, parsed.IsTheoretical)
	assert.Equal(t, KindFormula, parsed.Kind)
	assert.Equal(t, "compound_interest", parsed.Formula)
	assert.Equal(t, "IN", parsed.Region, "region comes from the original text, not the restatement")

	principal, ok := parsed.Params.Float("P")
	require.True(t, ok)
	assert.Equal(t, 5000.0, principal)
	rate, ok := parsed.Params.Float("r")
	require.True(t, ok)
	assert.Equal(t, 0.05, rate)

	_, present := parsed.Params["country_code"]
	assert.False(t, present, "no country was named, so none may appear")
	assert.Len(t, parsed.Params, 4)
}

func TestParseDataFetchFlowUsesStructuredExtraction(t *testing.T) {
	client := &stubClient{reply: "DATA_FETCH: get_currency_rate: from_currency = USD, to_currency = INR"}
	p := newTestParser(client, supportsAll)

	parsed := p.Parse(context.Background(), "how many rupees per dollar", "en")

	require.Equal(t, KindDataFetch, parsed.Kind)
	assert.Equal(t, "get_currency_rate", parsed.Formula)

	from, ok := parsed.Params.String("from_currency")
	require.True(t, ok)
	assert.Equal(t, "USD", from)
	to, ok := parsed.Params.String("to_currency")
	require.True(t, ok)
	assert.Equal(t, "INR", to)
}

func TestParseTheoreticalFlow(t *testing.T) {
	client := &stubClient{reply: "THEORETICAL"}
	p := newTestParser(client, supportsAll)

	parsed := p.Parse(context.Background(), "why does inflation happen", "en")

	assert.True(t, parsed.IsTheoretical)
	assert.Empty(t, parsed.Formula)
	require.NotNil(t, parsed.Params, "theoretical turns carry an empty, non-nil map")
	assert.Empty(t, parsed.Params)
	assert.Equal(t, "US", parsed.Region)
}

func TestParseDegradesWhenKeyNotExecutable(t *testing.T) {
	client := &stubClient{reply: "FORMULA: compound_interest: P = 100"}
	p := newTestParser(client, func(string) bool { return false })

	parsed := p.Parse(context.Background(), "compound interest on 100", "en")

	assert.True(t, parsed.IsTheoretical,
		"a classified key the registry cannot execute must degrade, not pass through")
	assert.Empty(t, parsed.Formula)
}

func TestParseNeverFails(t *testing.T) {
	client := &stubClient{err: errors.New("model offline")}
	p := newTestParser(client, supportsAll)

	parsed := p.Parse(context.Background(), "compound interest on 100", "hi")

	require.NotNil(t, parsed)
	assert.True(t, parsed.IsTheoretical)
	assert.Equal(t, "IN", parsed.Region, "region resolution is independent of the model")
}
