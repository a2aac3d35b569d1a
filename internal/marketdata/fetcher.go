// In file: internal/marketdata/fetcher.go

// Package marketdata implements the live-data side of the gateway: fetchers
// that resolve stock prices, currency rates, inflation readings and tax
// rates from external sources, plus the best-effort enrichment pass that
// fills missing parameters before a formula is evaluated.
package marketdata

import (
	"context"

	"github.com/econosage/gateway/internal/query"
)

// Fetcher is the standard interface for any live-data source.
//
// By having all fetchers implement this interface, the enrichment pass and
// the direct data-fetch path can manage them uniformly without knowing each
// source's transport details.
type Fetcher interface {
	// Name is the function key the intent classifier resolves to
	// (e.g. "get_currency_rate").
	Name() string

	// Requires lists the parameter names that must be present before this
	// fetcher can run.
	Requires() []string

	// OutputKey names the parameter the fetched value is stored under.
	OutputKey() string

	// Fetch performs the lookup. It returns the numeric value and a short
	// human-readable description of what was fetched.
	Fetch(ctx context.Context, params query.ParamMap) (float64, string, error)
}
