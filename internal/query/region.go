// In file: internal/query/region.go
package query

import "strings"

// DefaultRegion is returned when neither the text nor the language code
// carries any regional signal.
const DefaultRegion = "US"

// DetectRegion determines the region code governing currency, tax and
// inflation defaults for a user turn.
//
// It scans the region keyword table in definition order and returns the first
// region whose alias list has a case-insensitive substring hit in the text.
// Failing that, it falls back to the detected language's default region, and
// finally to DefaultRegion. It never fails: absence of any signal is not an
// error condition.
func DetectRegion(text string, langCode string) string {
	lower := strings.ToLower(text)
	for _, rec := range regionKeywords {
		for _, alias := range rec.aliases {
			if strings.Contains(lower, alias) {
				return strings.ToUpper(rec.code)
			}
		}
	}

	if langCode != "" {
		if region, ok := langRegion[strings.ToLower(langCode)]; ok {
			return strings.ToUpper(region)
		}
	}

	return DefaultRegion
}
