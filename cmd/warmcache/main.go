// In file: cmd/warmcache/main.go

// Package main implements the cache warming service for the EconoSage
// gateway. This is an offline command-line tool that pre-fetches commonly
// requested market data (stock quotes, FX pairs, inflation readings) into
// the Redis market cache, so the first user questions after a deploy are
// served warm instead of waiting on upstream APIs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/econosage/gateway/internal/marketdata"
	"github.com/econosage/gateway/internal/query"
)

const warmTimeout = 30 * time.Second

// =================================================================================
// Configuration
// =================================================================================

// WarmupConfig names the items to pre-fetch, loaded from the warmup section
// of config.yaml.
type WarmupConfig struct {
	Warmup struct {
		StockSymbols  []string `yaml:"stock_symbols"`
		CurrencyPairs []string `yaml:"currency_pairs"` // "USD/INR" form
		Countries     []string `yaml:"countries"`
	} `yaml:"warmup"`
}

type Config struct {
	RedisAddr string
	Warmup    *WarmupConfig
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found. Relying on environment variables.")
	}

	cfg := &Config{
		RedisAddr: os.Getenv("REDIS_ADDR"),
		Warmup:    &WarmupConfig{},
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = "localhost:6379"
	}

	raw, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg.Warmup); err != nil {
		return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
	}

	w := cfg.Warmup.Warmup
	if len(w.StockSymbols) == 0 && len(w.CurrencyPairs) == 0 && len(w.Countries) == 0 {
		return nil, errors.New("config.yaml has no warmup items; nothing to do")
	}
	return cfg, nil
}

// =================================================================================
// Warmer Service
// =================================================================================

type Warmer struct {
	config *Config
	market *marketdata.Manager
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("❌ Configuration Error: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Could not connect to Redis: %v", err)
	}

	warmer := &Warmer{
		config: cfg,
		market: marketdata.NewManager(rdb,
			marketdata.NewStockPriceFetcher(),
			marketdata.NewCurrencyRateFetcher(),
			marketdata.NewInflationRateFetcher(),
			marketdata.NewTaxRateFetcher(),
		),
	}
	if err := warmer.Run(); err != nil {
		log.Fatalf("❌ Cache warming failed: %v", err)
	}
}

// Run fires every configured fetch concurrently. Individual failures are
// logged and counted but never abort the run; a partially warm cache is
// still better than a cold one.
func (w *Warmer) Run() error {
	log.Println("🚀 Starting market cache warm-up...")

	type job struct {
		fetcher string
		params  query.ParamMap
		label   string
	}
	var jobs []job

	warm := w.config.Warmup.Warmup
	for _, symbol := range warm.StockSymbols {
		jobs = append(jobs, job{
			fetcher: "get_stock_price",
			params:  query.ParamMap{"stock_symbol": symbol},
			label:   fmt.Sprintf("stock %s", symbol),
		})
	}
	for _, pair := range warm.CurrencyPairs {
		from, to, ok := splitPair(pair)
		if !ok {
			log.Printf("⚠️  Skipping malformed currency pair %q (want FROM/TO)", pair)
			continue
		}
		jobs = append(jobs, job{
			fetcher: "get_currency_rate",
			params:  query.ParamMap{"from_currency": from, "to_currency": to},
			label:   fmt.Sprintf("fx %s/%s", from, to),
		})
	}
	for _, country := range warm.Countries {
		jobs = append(jobs, job{
			fetcher: "get_inflation_rate",
			params:  query.ParamMap{"country_code": country},
			label:   fmt.Sprintf("inflation %s", country),
		})
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
			defer cancel()

			value, desc, err := w.market.Execute(ctx, j.fetcher, j.params)
			if err != nil {
				log.Printf("❌ Warm-up for %s failed: %v", j.label, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			log.Printf("✅ Warmed %s: %g (%s)", j.label, value, desc)
		}(j)
	}
	wg.Wait()

	log.Printf("✅ Cache warm-up complete: %d of %d items warmed.", len(jobs)-failed, len(jobs))
	return nil
}

// splitPair parses "USD/INR" into its two currency codes.
func splitPair(pair string) (string, string, bool) {
	parts := strings.Split(strings.TrimSpace(pair), "/")
	if len(parts) != 2 {
		return "", "", false
	}
	from := strings.ToUpper(strings.TrimSpace(parts[0]))
	to := strings.ToUpper(strings.TrimSpace(parts[1]))
	if from == "" || to == "" {
		return "", "", false
	}
	return from, to, true
}
