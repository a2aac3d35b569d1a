// In file: internal/marketdata/tax_rate.go

package marketdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/econosage/gateway/internal/query"
)

// --- GST / VAT Rate Fetcher ---

// standardTaxRates maps a country code to its standard GST/VAT rate as a
// decimal fraction. The US entry is an approximate combined state and
// local sales tax average, since the US has no federal VAT.
var standardTaxRates = map[string]float64{
	"IN": 0.18,
	"US": 0.0725,
	"GB": 0.20,
	"AU": 0.10,
	"NZ": 0.15,
	"CA": 0.05,
	"SG": 0.09,
	"FR": 0.20,
	"DE": 0.19,
	"ES": 0.21,
	"IT": 0.22,
	"NL": 0.21,
	"JP": 0.10,
	"KR": 0.10,
	"CN": 0.13,
	"BR": 0.17,
	"MX": 0.16,
	"ZA": 0.15,
	"AE": 0.05,
	"SA": 0.15,
	"RU": 0.20,
	"ID": 0.11,
	"TH": 0.07,
	"VN": 0.10,
	"BD": 0.15,
	"PK": 0.18,
	"LK": 0.18,
	"NP": 0.13,
}

// TaxRateFetcher resolves the standard GST/VAT rate for a country from a
// static table. Statutory rates change rarely, so no upstream call is
// needed; the table is the source of truth until a rate change ships.
type TaxRateFetcher struct{}

var _ Fetcher = (*TaxRateFetcher)(nil)

// NewTaxRateFetcher creates a new instance of the TaxRateFetcher.
func NewTaxRateFetcher() *TaxRateFetcher { return &TaxRateFetcher{} }

func (tf *TaxRateFetcher) Name() string       { return "get_gst_rate" }
func (tf *TaxRateFetcher) Requires() []string { return []string{"country_code"} }
func (tf *TaxRateFetcher) OutputKey() string  { return "tax_rate" }

// Fetch returns the standard rate as a decimal fraction (0.18 for 18%).
func (tf *TaxRateFetcher) Fetch(_ context.Context, params query.ParamMap) (float64, string, error) {
	country, ok := params.String("country_code")
	if !ok || country == "" {
		return 0, "", fmt.Errorf("country_code parameter is empty")
	}
	country = strings.ToUpper(strings.TrimSpace(country))

	rate, ok := standardTaxRates[country]
	if !ok {
		return 0, "", fmt.Errorf("no standard GST/VAT rate on file for %q", country)
	}
	desc := fmt.Sprintf("Standard GST/VAT rate for %s", country)
	return rate, desc, nil
}
