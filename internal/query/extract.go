// In file: internal/query/extract.go
package query

import (
	"regexp"
	"strconv"
	"strings"
)

const dataFetchPrefix = "data_fetch:"

var (
	// dataFetchRe splits a structured directive into its function key and the
	// comma-separated parameter list.
	dataFetchRe = regexp.MustCompile(`(?i)^data_fetch:\s*(\w+):\s*(.*)`)

	// numericShape matches unsigned decimal numerals ("5", "5.25", ".5").
	// Structured-mode values of this shape are coerced to float64; everything
	// else (currency codes, tickers) stays a string.
	numericShape = regexp.MustCompile(`^(?:\d+\.?\d*|\.\d+)$`)
)

// ExtractParams builds a parameter mapping from free text.
//
// Two modes apply. A text beginning (case-insensitively, after trimming) with
// the literal "data_fetch:" is a structured directive: the trailing
// "k=v, k=v" list is parsed directly and the regex table is skipped entirely.
// All other text goes through the ordered parameter pattern table, taking the
// first capture of the first match per pattern.
//
// A pattern with no match contributes nothing: the key is simply absent,
// never nil-valued. Rate-like captures above 1 are divided by 100 so that
// "r = 5%" and "r = 0.05" store the same value.
func ExtractParams(text string) ParamMap {
	params := make(ParamMap)

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(strings.ToLower(trimmed), dataFetchPrefix) {
		if m := dataFetchRe.FindStringSubmatch(trimmed); m != nil {
			parsePairList(m[2], params)
		}
		return params
	}

	for _, pat := range paramPatterns {
		m := pat.re.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			continue
		}
		capture := strings.TrimSpace(m[1])

		switch pat.kind {
		case kindText:
			params[pat.name] = capture
		case kindList:
			if series := parseFloatList(capture); len(series) > 0 {
				params[pat.name] = series
			}
		default:
			val, err := strconv.ParseFloat(capture, 64)
			if err != nil {
				continue
			}
			if IsPercentParam(pat.name) && val > 1 {
				val /= 100
			}
			params[pat.name] = val
		}
	}
	return params
}

// parsePairList parses the "k=v, k=v" tail of a structured directive into
// params. Pairs without an "=" are ignored; values split on the first "="
// only, so a value may itself contain one.
func parsePairList(pairList string, params ParamMap) {
	for _, pair := range strings.Split(pairList, ",") {
		if !strings.Contains(pair, "=") {
			continue
		}
		kv := strings.SplitN(pair, "=", 2)
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if key == "" {
			continue
		}
		if numericShape.MatchString(val) {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				params[key] = f
				continue
			}
		}
		params[key] = val
	}
}

// parseFloatList parses a comma-separated numeral series such as the body of
// "cash flows = [100, 200, 300]". Entries that fail to parse are skipped.
func parseFloatList(s string) []float64 {
	parts := strings.Split(s, ",")
	series := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			continue
		}
		series = append(series, f)
	}
	return series
}
