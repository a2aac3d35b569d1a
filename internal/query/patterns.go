// In file: internal/query/patterns.go

// Package query implements the intent resolution and parameter extraction
// pipeline: the component that takes a raw user question (plus a detected
// language hint) and decides whether the request is theoretical or
// computational, which formula applies, which parameter values can be read
// out of the text, and which region governs ambiguous defaults.
//
// All tables in this file are constructed once at process start and never
// mutated afterwards, so they are safe for concurrent reads from any number
// of simultaneous chat sessions.
package query

import "regexp"

// =================================================================================
// Intent Keyword Table
// =================================================================================

// IntentRecord maps one formula (or data-fetch function) key to the ordered
// list of trigger phrases that suggest it.
type IntentRecord struct {
	Key      string
	Keywords []string
}

// intentKeywords is an explicitly ORDERED table: the local fast path scans it
// top to bottom and the first keyword hit wins. Specific multi-word phrases
// are listed before the generic single words that would shadow them, so keep
// new entries in most-specific-first position.
var intentKeywords = []IntentRecord{
	// Core finance formulas
	{"compound_interest", []string{"compound interest", "compound"}},
	{"simple_interest", []string{"simple interest", "simple"}},
	{"principal_from_compound", []string{"principal from compound", "principal", "initial amount"}},
	{"rate_from_compound", []string{"rate from compound", "interest rate", "rate of return"}},
	{"roi", []string{"return on investment", "roi"}},
	{"break_even", []string{"break even", "breakeven"}},
	{"npv", []string{"net present value", "npv"}},
	{"future_value_annuity", []string{"future value annuity", "annuity"}},
	{"payback_period", []string{"payback period"}},
	{"price_elasticity_of_demand", []string{"price elasticity of demand", "elasticity of demand", "ped"}},
	{"gdp_growth_rate", []string{"gdp growth rate", "economic growth rate", "gdp growth"}},
	{"debt_to_equity", []string{"debt to equity", "debt-equity ratio"}},
	{"contribution_margin", []string{"contribution margin"}},
	{"inventory_turnover", []string{"inventory turnover"}},
	{"operating_profit_margin", []string{"operating profit margin"}},
	{"present_value", []string{"present value", "pv"}},
	{"capm", []string{"capm", "capital asset pricing model"}},
	{"elasticity_of_supply", []string{"elasticity of supply"}},
	{"dscr", []string{"debt service coverage ratio", "dscr"}},
	{"eoq", []string{"economic order quantity", "eoq"}},
	{"wacc", []string{"weighted average cost of capital", "wacc"}},
	{"markup_price", []string{"markup pricing", "markup price"}},

	// Policy simulator formulas
	{"sales_tax", []string{"sales tax", "gst", "goods and services tax", "vat", "tax slab", "tax rates"}},
	{"income_tax_slab", []string{"income tax slab", "tax slab", "income tax", "tax bracket"}},
	{"minimum_wage_impact", []string{"minimum wage", "wage impact", "minimum salary"}},
	{"budget_deficit", []string{"budget deficit", "fiscal deficit", "government deficit"}},
	{"effective_tax_rate", []string{"effective tax rate", "tax rate"}},
	{"public_investment_multiplier", []string{"public investment multiplier", "fiscal multiplier"}},
	{"subsidy_removal", []string{"subsidy removal", "removal of subsidy", "end of subsidy"}},
	{"fuel_cost_impact", []string{"fuel cost impact", "fuel price effect", "fuel cost"}},

	// Inflation explainer formulas
	{"inflation_adjusted_salary", []string{"inflation adjusted salary", "inflated salary", "inflation adjustment"}},
	{"rule_of_72", []string{"rule of 72", "doubling time"}},
	{"real_interest_rate", []string{"real interest rate", "inflation adjusted rate"}},
	{"purchasing_power_loss", []string{"purchasing power loss", "power loss", "inflation effect"}},
	{"weighted_cpi", []string{"weighted cpi", "consumer price index", "cpi"}},

	// MacroLens formulas
	{"gdp_growth_from_policy", []string{"gdp growth from policy", "policy impact on gdp", "fiscal stimulus impact"}},
	{"trade_deficit_growth", []string{"trade deficit growth", "trade deficit increase", "balance of trade"}},
	{"macro_stress_score", []string{"macro stress score", "economic stress", "financial stress"}},
	{"external_debt_burden", []string{"external debt burden", "foreign debt burden"}},
	{"capital_flow_score", []string{"capital flow", "capital movement", "capital inflow", "capital outflow"}},

	// Region specific (generic keys - region is interpreted separately)
	{"vat_sales_tax", []string{"vat", "sales tax", "value added tax"}},
	{"income_tax_bracket", []string{"income tax bracket", "tax bracket", "tax slabs"}},

	// Live data fetchers
	{"get_stock_price", []string{"stock price", "share price", "price of stock", "stock quote", "ticker price", "share value"}},
	{"get_currency_rate", []string{"currency exchange rate", "exchange rate", "currency converter", "convert currency", "forex rate"}},
	{"get_inflation_rate", []string{"inflation rate", "consumer price index", "cpi"}},
	{"get_gst_rate", []string{"gst", "vat", "tax rate", "sales tax"}},
}

// intentKeySet provides O(1) membership checks for validating LLM replies.
var intentKeySet = func() map[string]bool {
	set := make(map[string]bool, len(intentKeywords))
	for _, rec := range intentKeywords {
		set[rec.Key] = true
	}
	return set
}()

// IntentKeys returns all formula/function keys in table order. The slice is a
// copy; callers may not mutate the table through it.
func IntentKeys() []string {
	keys := make([]string, len(intentKeywords))
	for i, rec := range intentKeywords {
		keys[i] = rec.Key
	}
	return keys
}

// IsKnownKey reports whether key names a supported formula or data fetcher.
func IsKnownKey(key string) bool {
	return intentKeySet[key]
}

// =================================================================================
// Parameter Pattern Table
// =================================================================================

// paramKind tells the extractor how to coerce a pattern's capture.
type paramKind int

const (
	kindNumber paramKind = iota // coerce to float64, drop on failure
	kindText                    // keep as trimmed string (tickers, codes)
	kindList                    // parse a comma-separated list of floats
)

type paramPattern struct {
	name string
	re   *regexp.Regexp
	kind paramKind
}

// paramPatterns is an explicitly ORDERED table, most-specific-first. Every
// pattern writes its own key, so a generic pattern near the bottom (like the
// bare interest rate "r") can never shadow a named rate above it; the order
// also makes extraction results reproducible run to run.
var paramPatterns = []paramPattern{
	// --- Named rates (must precede the generic "r" catch-all) ---
	{"rate_per_period", regexp.MustCompile(`(?i)(?:rate per period)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"discount_rate", regexp.MustCompile(`(?i)(?:discount rate|discount)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"risk_free_rate", regexp.MustCompile(`(?i)(?:risk[- ]free rate)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"market_return", regexp.MustCompile(`(?i)(?:market return)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"Re", regexp.MustCompile(`(?i)(?:cost of equity|Re)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"Rd", regexp.MustCompile(`(?i)(?:cost of debt|Rd)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"Tc", regexp.MustCompile(`(?i)(?:corporate tax rate|Tc)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"markup_percentage", regexp.MustCompile(`(?i)(?:markup(?: percentage)?)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},

	// --- Elasticity ---
	{"percent_change_quantity_supplied", regexp.MustCompile(`(?i)(?:percent(?:age)? change in quantity supplied)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"percent_change_quantity", regexp.MustCompile(`(?i)(?:percent(?:age)? change in quantity)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"percent_change_price", regexp.MustCompile(`(?i)(?:percent(?:age)? change in price)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},

	// --- Break-even / margin analysis ---
	{"fixed_costs", regexp.MustCompile(`(?i)(?:fixed costs?)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"price_per_unit", regexp.MustCompile(`(?i)(?:price per unit|selling price)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"variable_cost_per_unit", regexp.MustCompile(`(?i)(?:variable cost per unit)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- DCF / NPV ---
	{"cash_flows", regexp.MustCompile(`(?i)(?:cash flows?)\s*(?:=|are|:)?\s*\[([\d.,\s]+)\]`), kindList},

	// --- Payback / profitability ---
	{"initial_investment", regexp.MustCompile(`(?i)(?:initial investment)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"annual_cash_inflow", regexp.MustCompile(`(?i)(?:annual cash inflow)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- Financial ratios ---
	{"total_debt_service", regexp.MustCompile(`(?i)(?:total debt service)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"total_debt", regexp.MustCompile(`(?i)(?:total debt)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"shareholders_equity", regexp.MustCompile(`(?i)(?:shareholders'? equity)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"operating_income", regexp.MustCompile(`(?i)(?:operating income)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"net_operating_income", regexp.MustCompile(`(?i)(?:net operating income|NOI)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"revenue", regexp.MustCompile(`(?i)(?:revenue|sales)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- GDP ---
	{"gdp_t_minus_1", regexp.MustCompile(`(?i)(?:gdp(?: at time t-1)?)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"gdp_t", regexp.MustCompile(`(?i)(?:gdp(?: at time t)?)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- CAPM / WACC ---
	{"beta", regexp.MustCompile(`(?i)(?:beta)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"E", regexp.MustCompile(`(?i)(?:market value of equity|E)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"V", regexp.MustCompile(`(?i)(?:total market value|V)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"D", regexp.MustCompile(`(?i)(?:market value of debt|D)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- EOQ ---
	{"demand", regexp.MustCompile(`(?i)(?:demand)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"ordering_cost", regexp.MustCompile(`(?i)(?:ordering cost)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"holding_cost", regexp.MustCompile(`(?i)(?:holding cost)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- ROI ---
	{"gain", regexp.MustCompile(`(?i)(?:gain|profit)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"cost", regexp.MustCompile(`(?i)(?:cost|investment cost)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- Annuity / loan ---
	{"payment", regexp.MustCompile(`(?i)(?:payment|PMT)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"periods", regexp.MustCompile(`(?i)(?:periods?|n_periods?)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},

	// --- Market data lookups ---
	{"stock_symbol", regexp.MustCompile(`(?i)(?:stock symbol|ticker|symbol|share of|stock of|stock price of|price of)\s*(?:=|is|:)?\s*([A-Za-z]{1,5})`), kindText},
	{"from_currency", regexp.MustCompile(`(?i)(?:from currency)\s*(?:=|is|:)?\s*([A-Za-z]{3})`), kindText},
	{"to_currency", regexp.MustCompile(`(?i)(?:to currency)\s*(?:=|is|:)?\s*([A-Za-z]{3})`), kindText},
	// Keyword match is case-insensitive but the captured code must be a
	// standalone uppercase pair, so prose words ("for my", "FORMULA") never
	// read as a country.
	{"country_code", regexp.MustCompile(`\b(?i:country(?:[ _]code)?|for)\b\s*(?:=|is|:)?\s*([A-Z]{2})\b`), kindText},
	{"year", regexp.MustCompile(`(?i)(?:year|for year|in year)\s*(?:=|is|:)?\s*(\d{4})`), kindNumber},

	// --- Generic single-letter parameters (deliberately last) ---
	{"A", regexp.MustCompile(`(?i)(?:amount|final amount|total amount|A)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"P", regexp.MustCompile(`(?i)(?:principal|P)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"r", regexp.MustCompile(`(?i)(?:rate|interest rate|r)\s*(?:=|is|:)?\s*([\d.]+)%?`), kindNumber},
	{"t", regexp.MustCompile(`(?i)(?:time|duration|t)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
	{"n", regexp.MustCompile(`(?i)(?:n|compounded|frequency|times per year)\s*(?:=|is|:)?\s*([\d.]+)`), kindNumber},
}

// percentNormalized lists the rate-like parameters whose canonical stored
// form is a decimal fraction. When a captured literal exceeds 1 (e.g. the 5
// in "rate = 5%"), the extractor divides by 100 before storing; a literal
// already below 1 is stored unchanged, so normalization is idempotent.
var percentNormalized = map[string]bool{
	"r":                                true,
	"rate_per_period":                  true,
	"discount_rate":                    true,
	"risk_free_rate":                   true,
	"Re":                               true,
	"Rd":                               true,
	"Tc":                               true,
	"markup_percentage":                true,
	"percent_change_quantity":          true,
	"percent_change_price":             true,
	"percent_change_quantity_supplied": true,
	"market_return":                    true,
}

// IsPercentParam reports whether name belongs to the percentage-normalized set.
func IsPercentParam(name string) bool {
	return percentNormalized[name]
}

// =================================================================================
// Region Tables
// =================================================================================

// regionRecord maps a region code to its natural-language aliases, including
// the Devanagari spellings the Hindi-speaking user base actually types.
type regionRecord struct {
	code    string
	aliases []string
}

// regionKeywords is scanned in order; the first region with an alias hit wins.
var regionKeywords = []regionRecord{
	{"IN", []string{"india", "bharat", "hindustan", "भारतीय", "भारत"}},
	{"US", []string{"usa", "america", "united states", "us", "अमेरिका"}},
	{"AU", []string{"australia", "aus", "ऑस्ट्रेलिया"}},
	{"GB", []string{"uk", "united kingdom", "britain", "england", "ब्रिटेन"}},
	{"CA", []string{"canada", "कनाडा"}},
	{"SG", []string{"singapore", "सिंगापुर"}},
	{"FR", []string{"france", "फ्रांस"}},
	{"DE", []string{"germany", "जर्मनी"}},
	{"ES", []string{"spain", "स्पेन"}},
	{"IT", []string{"italy", "इटली"}},
	{"JP", []string{"japan", "जापान"}},
	{"CN", []string{"china", "चीन"}},
	{"BR", []string{"brazil", "ब्राज़ील"}},
	{"MX", []string{"mexico", "मेक्सिको"}},
	{"ZA", []string{"south africa", "दक्षिण अफ्रीका"}},
	{"AE", []string{"uae", "united arab emirates", "दुबई"}},
	{"RU", []string{"russia", "रूस"}},
}

// langRegion maps a detected language code (lowercased) to its default region
// when the text itself names no country.
var langRegion = map[string]string{
	// English
	"en":    "US",
	"en-gb": "GB",
	"en-us": "US",

	// South Asian languages
	"hi": "IN", "bn": "IN", "ta": "IN", "te": "IN", "kn": "IN",
	"ml": "IN", "mr": "IN", "ur": "IN", "pa": "IN", "gu": "IN",
	"or": "IN", "as": "IN", "sd": "IN", "sa": "IN",
	"ne": "NP", "si": "LK",

	// European languages
	"fr": "FR", "de": "DE", "es": "ES", "it": "IT", "pt": "PT",
	"pt-br": "BR", "es-419": "MX", "es-mx": "MX",
	"nl": "NL", "pl": "PL", "cs": "CZ", "hu": "HU", "ro": "RO",
	"el": "GR", "da": "DK", "sv": "SE", "fi": "FI", "no": "NO",
	"ru": "RU", "uk": "UA",

	// East & Southeast Asian languages
	"zh": "CN", "zh-cn": "CN", "zh-tw": "CN",
	"ja": "JP", "ko": "KR", "vi": "VN", "th": "TH", "id": "ID",
	"ms": "MY", "my": "MM", "km": "KH", "lo": "LA", "mn": "MN",
	"tl": "PH",

	// Middle Eastern languages
	"ar": "AE", "he": "IL", "fa": "IR", "ku": "IQ",

	// African languages
	"zu": "ZA", "af": "ZA", "xh": "ZA", "sw": "KE", "am": "ET",
	"ig": "NG", "yo": "NG", "ha": "NG",
}
