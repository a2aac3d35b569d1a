// In file: internal/formula/errors.go

// Package formula implements the deterministic evaluation registry: a pure
// mapping from formula key + parameter mapping to a numeric result and a
// human-readable formula string. It performs no I/O; live values must be
// enriched into the parameter mapping before evaluation.
package formula

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/econosage/gateway/internal/query"
)

// ErrUnsupportedFormula is returned when a formula key is not registered.
var ErrUnsupportedFormula = errors.New("unsupported formula")

// MissingParamsError reports the exact parameter names a formula still
// needs. It carries the names as data so callers can build a "please
// provide: ..." prompt without sniffing error strings.
type MissingParamsError struct {
	Formula string
	Missing []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("formula %q is missing parameters: %s", e.Formula, strings.Join(e.Missing, ", "))
}

// AsMissingParams unwraps err into a MissingParamsError if it is one.
func AsMissingParams(err error) (*MissingParamsError, bool) {
	var mpe *MissingParamsError
	if errors.As(err, &mpe) {
		return mpe, true
	}
	return nil, false
}

// floats gathers the named float parameters in order, or returns one
// MissingParamsError naming everything that is absent. Missing names are
// sorted for stable messages.
func floats(p query.ParamMap, formulaKey string, names ...string) ([]float64, error) {
	vals := make([]float64, len(names))
	var missing []string
	for i, name := range names {
		v, ok := p.Float(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		vals[i] = v
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingParamsError{Formula: formulaKey, Missing: missing}
	}
	return vals, nil
}

// floatSeries fetches one named []float64 parameter or reports it missing.
func floatSeries(p query.ParamMap, formulaKey, name string) ([]float64, error) {
	series, ok := p.Floats(name)
	if !ok {
		return nil, &MissingParamsError{Formula: formulaKey, Missing: []string{name}}
	}
	return series, nil
}
