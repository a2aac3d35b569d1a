// In file: internal/marketdata/currency_rate.go

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

// --- Currency Rate Fetcher ---

const defaultFrankfurterBaseURL = "https://api.frankfurter.app"

// CurrencyRateFetcher resolves a spot exchange rate between two ISO 4217
// currency codes from the Frankfurter API (ECB reference rates, no API key
// required).
type CurrencyRateFetcher struct {
	httpClient *http.Client
	baseURL    string
}

var _ Fetcher = (*CurrencyRateFetcher)(nil)

// NewCurrencyRateFetcher creates a new instance of the CurrencyRateFetcher
// with a dedicated, timeout-bounded HTTP client.
func NewCurrencyRateFetcher() *CurrencyRateFetcher {
	return &CurrencyRateFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultFrankfurterBaseURL,
	}
}

func (cf *CurrencyRateFetcher) Name() string { return "get_currency_rate" }
func (cf *CurrencyRateFetcher) Requires() []string {
	return []string{"from_currency", "to_currency"}
}
func (cf *CurrencyRateFetcher) OutputKey() string { return "exchange_rate" }

// Fetch returns how many units of to_currency one unit of from_currency
// buys at the latest reference fixing.
func (cf *CurrencyRateFetcher) Fetch(ctx context.Context, params query.ParamMap) (float64, string, error) {
	from, _ := params.String("from_currency")
	to, _ := params.String("to_currency")
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == "" || to == "" {
		return 0, "", fmt.Errorf("from_currency and to_currency must be non-empty")
	}
	if from == to {
		return 1, fmt.Sprintf("%s/%s rate (identical currencies)", from, to), nil
	}

	url := fmt.Sprintf("%s/latest?from=%s&to=%s", cf.baseURL, from, to)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create currency rate request: %w", err)
	}
	req.Header.Set("User-Agent", "EconoSage-Gateway/1.0")

	resp, err := cf.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to call currency rate API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("currency rate API returned non-200 status: %d", resp.StatusCode)
	}

	var payload struct {
		Base  string             `json:"base"`
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, "", fmt.Errorf("failed to decode currency rate response: %w", err)
	}

	rate, ok := payload.Rates[to]
	if !ok {
		return 0, "", fmt.Errorf("no rate for %s/%s in response", from, to)
	}

	desc := fmt.Sprintf("%s/%s reference rate (as of %s)", from, to, payload.Date)
	return rate, desc, nil
}
