// In file: internal/query/params.go
package query

// ParamMap maps a parameter name to its extracted value. Values are one of
// float64, string (tickers, currency and country codes), or []float64
// (cash-flow series). An absent key means "not provided" and must never be
// confused with a stored zero value.
type ParamMap map[string]any

// Float returns the named parameter as a float64, with ok=false when the key
// is absent or holds a non-numeric value.
func (p ParamMap) Float(name string) (float64, bool) {
	v, ok := p[name].(float64)
	return v, ok
}

// String returns the named parameter as a string, with ok=false when the key
// is absent or holds a non-string value.
func (p ParamMap) String(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

// Floats returns the named parameter as a float slice, with ok=false when the
// key is absent or holds a different type.
func (p ParamMap) Floats(name string) ([]float64, bool) {
	v, ok := p[name].([]float64)
	return v, ok
}

// Clone returns a shallow copy so enrichment can add keys without mutating
// the caller's mapping.
func (p ParamMap) Clone() ParamMap {
	out := make(ParamMap, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
