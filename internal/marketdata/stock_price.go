// In file: internal/marketdata/stock_price.go

package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/econosage/gateway/internal/query"
)

// --- Stock Price Fetcher ---

const defaultStooqBaseURL = "https://stooq.com"

// StockPriceFetcher resolves the latest close for a ticker symbol from the
// Stooq CSV quote endpoint. It holds its own configured HTTP client for
// making robust external API calls.
type StockPriceFetcher struct {
	httpClient *http.Client
	baseURL    string
}

// Statically verify that StockPriceFetcher implements the Fetcher interface.
var _ Fetcher = (*StockPriceFetcher)(nil)

// NewStockPriceFetcher creates a new instance of the StockPriceFetcher.
// It initializes a dedicated HTTP client with a timeout, which is crucial
// for preventing hung requests to external services.
func NewStockPriceFetcher() *StockPriceFetcher {
	return &StockPriceFetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultStooqBaseURL,
	}
}

func (sf *StockPriceFetcher) Name() string       { return "get_stock_price" }
func (sf *StockPriceFetcher) Requires() []string { return []string{"stock_symbol"} }
func (sf *StockPriceFetcher) OutputKey() string  { return "stock_price" }

// Fetch downloads the one-line CSV quote for the symbol and returns its
// close price. Symbols without an exchange suffix are assumed to be US
// listings, which is what Stooq expects for NYSE/NASDAQ tickers.
func (sf *StockPriceFetcher) Fetch(ctx context.Context, params query.ParamMap) (float64, string, error) {
	symbol, ok := params.String("stock_symbol")
	if !ok || symbol == "" {
		return 0, "", fmt.Errorf("stock_symbol parameter is empty")
	}

	quoted := strings.ToLower(symbol)
	if !strings.Contains(quoted, ".") {
		quoted += ".us"
	}

	url := fmt.Sprintf("%s/q/l/?s=%s&f=sd2t2ohlcv&h&e=csv", sf.baseURL, quoted)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create stock quote request: %w", err)
	}
	// Some services block default Go HTTP clients, so set a common User-Agent.
	req.Header.Set("User-Agent", "EconoSage-Gateway/1.0")

	resp, err := sf.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to call stock quote API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, "", fmt.Errorf("stock quote API returned non-200 status: %d", resp.StatusCode)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse stock quote CSV: %w", err)
	}
	// Expect a header row plus one data row:
	// Symbol,Date,Time,Open,High,Low,Close,Volume
	if len(records) < 2 || len(records[1]) < 7 {
		return 0, "", fmt.Errorf("unexpected stock quote CSV shape for %q", symbol)
	}

	closeField := records[1][6]
	if closeField == "N/D" {
		return 0, "", fmt.Errorf("no quote data for symbol %q", symbol)
	}
	price, err := strconv.ParseFloat(closeField, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid close price %q for symbol %q: %w", closeField, symbol, err)
	}

	desc := fmt.Sprintf("Latest close for %s (as of %s)", strings.ToUpper(symbol), records[1][1])
	return price, desc, nil
}
