// In file: internal/marketdata/inflation_rate.go

package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/econosage/gateway/internal/query"
)

// --- Inflation Rate Fetcher ---

const defaultWorldBankBaseURL = "https://api.worldbank.org"

// worldBankIndicator is annual consumer price inflation, percent.
const worldBankIndicator = "FP.CPI.TOTL.ZG"

// InflationRateFetcher resolves a country's annual CPI inflation from the
// World Bank open data API. With no year parameter it returns the most
// recent available reading, which can lag the calendar year.
type InflationRateFetcher struct {
	httpClient *http.Client
	baseURL    string
}

var _ Fetcher = (*InflationRateFetcher)(nil)

// NewInflationRateFetcher creates a new instance of the
// InflationRateFetcher with a dedicated, timeout-bounded HTTP client.
func NewInflationRateFetcher() *InflationRateFetcher {
	return &InflationRateFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultWorldBankBaseURL,
	}
}

func (inf *InflationRateFetcher) Name() string       { return "get_inflation_rate" }
func (inf *InflationRateFetcher) Requires() []string { return []string{"country_code"} }
func (inf *InflationRateFetcher) OutputKey() string  { return "inflation_rate" }

// Fetch returns annual CPI inflation for the country as a percent value
// (e.g. 5.4 for 5.4%). An optional "year" parameter pins a specific year;
// otherwise the most recent non-null observation wins.
func (inf *InflationRateFetcher) Fetch(ctx context.Context, params query.ParamMap) (float64, string, error) {
	country, ok := params.String("country_code")
	if !ok || country == "" {
		return 0, "", fmt.Errorf("country_code parameter is empty")
	}
	country = strings.ToUpper(strings.TrimSpace(country))

	url := fmt.Sprintf("%s/v2/country/%s/indicator/%s?format=json&per_page=5&mrv=5",
		inf.baseURL, country, worldBankIndicator)
	if year, ok := params.Float("year"); ok {
		url = fmt.Sprintf("%s/v2/country/%s/indicator/%s?format=json&date=%d",
			inf.baseURL, country, worldBankIndicator, int(year))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create inflation request: %w", err)
	}
	req.Header.Set("User-Agent", "EconoSage-Gateway/1.0")

	resp, err := inf.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to call inflation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("inflation API returned non-200 status: %d", resp.StatusCode)
	}

	// The World Bank response is a two-element array: metadata first, then
	// the observation list.
	var envelope []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, "", fmt.Errorf("failed to decode inflation response: %w", err)
	}
	if len(envelope) < 2 {
		return 0, "", fmt.Errorf("unexpected inflation response shape for %q", country)
	}

	var observations []struct {
		Date  string   `json:"date"`
		Value *float64 `json:"value"`
	}
	if err := json.Unmarshal(envelope[1], &observations); err != nil {
		return 0, "", fmt.Errorf("failed to decode inflation observations: %w", err)
	}

	for _, obs := range observations {
		if obs.Value == nil {
			continue
		}
		desc := fmt.Sprintf("Annual CPI inflation for %s (%s)", country, obs.Date)
		return *obs.Value, desc, nil
	}
	return 0, "", fmt.Errorf("no inflation data available for %q", country)
}
