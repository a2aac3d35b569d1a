// In file: internal/marketdata/manager.go

package marketdata

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/econosage/gateway/internal/query"
	"github.com/econosage/gateway/internal/version"
)

// marketCacheTTL bounds how long a fetched value is reused. Live quotes go
// stale quickly; fifteen minutes keeps repeat questions cheap without
// serving yesterday's price.
const marketCacheTTL = 15 * time.Minute

// ErrUnknownFetcher is returned when a requested data-fetch key has no
// registered fetcher.
var ErrUnknownFetcher = fmt.Errorf("unknown data fetcher")

// Manager owns the ordered set of registered fetchers and an optional Redis
// cache for fetched values. A nil Redis client disables caching; every
// lookup then goes to the upstream source.
type Manager struct {
	fetchers []Fetcher
	byName   map[string]Fetcher
	rdb      *redis.Client
}

// NewManager registers the given fetchers in order. Registration order is
// the order the enrichment pass runs them in, so fetchers whose output
// feeds a later fetcher must be registered first.
func NewManager(rdb *redis.Client, fetchers ...Fetcher) *Manager {
	m := &Manager{
		byName: make(map[string]Fetcher, len(fetchers)),
		rdb:    rdb,
	}
	for _, f := range fetchers {
		if _, exists := m.byName[f.Name()]; exists {
			log.Printf("⚠️ Duplicate fetcher registration ignored: %s", f.Name())
			continue
		}
		m.fetchers = append(m.fetchers, f)
		m.byName[f.Name()] = f
	}
	return m
}

// Supports reports whether a fetcher is registered under the given key.
func (m *Manager) Supports(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Requires returns the required input names for a registered fetcher, or
// nil for an unknown key. Callers use it to fill region-dependent defaults
// before a direct fetch.
func (m *Manager) Requires(name string) []string {
	if f, ok := m.byName[name]; ok {
		return f.Requires()
	}
	return nil
}

// Execute runs the named fetcher directly. It is the path taken when the
// classifier resolves a question to a data-fetch intent rather than a
// formula. Missing required parameters are reported before any network
// call is made.
func (m *Manager) Execute(ctx context.Context, name string, params query.ParamMap) (float64, string, error) {
	f, ok := m.byName[name]
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownFetcher, name)
	}

	var missing []string
	for _, req := range f.Requires() {
		if _, present := params[req]; !present {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return 0, "", &MissingInputsError{Fetcher: name, Missing: missing}
	}

	if value, desc, ok := m.checkCache(ctx, f, params); ok {
		return value, desc, nil
	}

	value, desc, err := f.Fetch(ctx, params)
	if err != nil {
		return 0, "", fmt.Errorf("fetcher %q failed: %w", name, err)
	}
	m.storeCache(ctx, f, params, value)
	return value, desc, nil
}

// Enrich runs every registered fetcher whose required inputs are already
// present and whose output key is still absent, merging the results into a
// copy of params. Enrichment is best-effort: a failing source is logged and
// skipped so that one flaky upstream never fails the whole query.
func (m *Manager) Enrich(ctx context.Context, params query.ParamMap) query.ParamMap {
	enriched := params.Clone()

	for _, f := range m.fetchers {
		if _, present := enriched[f.OutputKey()]; present {
			continue
		}
		ready := true
		for _, req := range f.Requires() {
			if _, present := enriched[req]; !present {
				ready = false
				break
			}
		}
		if !ready {
			continue
		}

		value, _, err := m.fetchCached(ctx, f, enriched)
		if err != nil {
			log.Printf("⚠️ Enrichment via %s skipped: %v", f.Name(), err)
			continue
		}
		log.Printf("✅ Enriched %s=%g via %s", f.OutputKey(), value, f.Name())
		enriched[f.OutputKey()] = value
	}
	return enriched
}

// fetchCached is the cache-wrapped fetch used by Enrich.
func (m *Manager) fetchCached(ctx context.Context, f Fetcher, params query.ParamMap) (float64, string, error) {
	if value, desc, ok := m.checkCache(ctx, f, params); ok {
		return value, desc, nil
	}
	value, desc, err := f.Fetch(ctx, params)
	if err != nil {
		return 0, "", err
	}
	m.storeCache(ctx, f, params, value)
	return value, desc, nil
}

func (m *Manager) checkCache(ctx context.Context, f Fetcher, params query.ParamMap) (float64, string, bool) {
	if m.rdb == nil {
		return 0, "", false
	}
	raw, err := m.rdb.Get(ctx, m.cacheKey(f, params)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Market cache read failed: %v", err)
		}
		return 0, "", false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, "", false
	}
	log.Printf("✅ Market cache HIT for %s", f.Name())
	return value, fmt.Sprintf("%s (cached)", f.Name()), true
}

func (m *Manager) storeCache(ctx context.Context, f Fetcher, params query.ParamMap, value float64) {
	if m.rdb == nil {
		return
	}
	key := m.cacheKey(f, params)
	if err := m.rdb.Set(ctx, key, strconv.FormatFloat(value, 'g', -1, 64), marketCacheTTL).Err(); err != nil {
		log.Printf("⚠️ Market cache write failed: %v", err)
	}
}

// cacheKey derives a stable, versioned cache key from the fetcher name and
// its required inputs. Only the declared inputs participate, so unrelated
// parameters in the map do not fragment the cache.
func (m *Manager) cacheKey(f Fetcher, params query.ParamMap) string {
	parts := make([]string, 0, len(f.Requires())+1)
	parts = append(parts, f.Name())
	for _, req := range f.Requires() {
		parts = append(parts, fmt.Sprintf("%s=%v", req, params[req]))
	}
	return version.GenerateVersionedCacheKey("market_cache", strings.Join(parts, "|"))
}

// MissingInputsError reports which required inputs a direct data fetch
// still needs. Callers inspect it with errors.As to build a follow-up
// question instead of string-matching error text.
type MissingInputsError struct {
	Fetcher string
	Missing []string
}

func (e *MissingInputsError) Error() string {
	return fmt.Sprintf("fetcher %q missing required inputs: %s", e.Fetcher, strings.Join(e.Missing, ", "))
}
