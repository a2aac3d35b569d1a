// In file: internal/formula/core.go
package formula

import (
	"errors"
	"math"

	"github.com/econosage/gateway/internal/query"
)

func compoundInterest(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "compound_interest", "P", "r", "n", "t")
	if err != nil {
		return 0, "", err
	}
	P, r, n, t := v[0], v[1], v[2], v[3]
	A := P * math.Pow(1+r/n, n*t)
	return round2(A), "A = P * (1 + r/n)^(n*t)", nil
}

func principalFromCompound(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "principal_from_compound", "A", "r", "n", "t")
	if err != nil {
		return 0, "", err
	}
	A, r, n, t := v[0], v[1], v[2], v[3]
	P := A / math.Pow(1+r/n, n*t)
	return round2(P), "P = A / (1 + r/n)^(n*t)", nil
}

// rateFromCompound solves for r with Newton's method, seeded at 5%.
func rateFromCompound(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "rate_from_compound", "P", "A", "n", "t")
	if err != nil {
		return 0, "", err
	}
	P, A, n, t := v[0], v[1], v[2], v[3]

	const (
		tol     = 1e-8
		maxIter = 1000
	)
	desc := "Numerically solved r in compound interest"

	r := 0.05
	for i := 0; i < maxIter; i++ {
		f := P*math.Pow(1+r/n, n*t) - A
		if math.Abs(f) < tol {
			return r, desc, nil
		}
		df := P * (n * t) * math.Pow(1+r/n, n*t-1) / n
		if df == 0 {
			break
		}
		rNew := r - f/df
		if math.Abs(rNew-r) < tol {
			return rNew, desc, nil
		}
		r = rNew
	}
	return 0, "", errors.New("rate calculation did not converge")
}

func simpleInterest(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "simple_interest", "P", "r", "t")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] * v[1] * v[2]), "I = P * r * t", nil
}

func presentValue(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "present_value", "FV", "r", "t")
	if err != nil {
		return 0, "", err
	}
	FV, r, t := v[0], v[1], v[2]
	return round2(FV / math.Pow(1+r, t)), "PV = FV / (1 + r)^t", nil
}

// returnOnInvestment supports two parameter modes: a realized gain against
// its cost, or a compounded P/r/n/t position. When neither mode is complete,
// the missing names reported are those of whichever mode is closer to
// complete (ties go to the gain/cost mode).
func returnOnInvestment(p query.ParamMap) (float64, string, error) {
	gainVals, gainErr := floats(p, "roi", "gain", "cost")
	if gainErr == nil {
		gain, cost := gainVals[0], gainVals[1]
		if cost == 0 {
			return 0, "", errors.New("cost cannot be zero")
		}
		return round4((gain - cost) / cost), "ROI = (Gain - Cost) / Cost", nil
	}

	cmpVals, cmpErr := floats(p, "roi", "P", "r", "n", "t")
	if cmpErr == nil {
		P, r, n, t := cmpVals[0], cmpVals[1], cmpVals[2], cmpVals[3]
		A := P * math.Pow(1+r/n, n*t)
		return round4((A - P) / P), "ROI from compound interest = (A - P) / P", nil
	}

	gainMissing, _ := AsMissingParams(gainErr)
	cmpMissing, _ := AsMissingParams(cmpErr)
	if len(gainMissing.Missing) <= len(cmpMissing.Missing) {
		return 0, "", gainErr
	}
	return 0, "", cmpErr
}

func netPresentValue(p query.ParamMap) (float64, string, error) {
	rate, err := floats(p, "npv", "discount_rate")
	if err != nil {
		return 0, "", err
	}
	cashFlows, err := floatSeries(p, "npv", "cash_flows")
	if err != nil {
		return 0, "", err
	}

	var npv float64
	for i, cf := range cashFlows {
		npv += cf / math.Pow(1+rate[0], float64(i))
	}
	return round2(npv), "NPV = sum(Cash Flow / (1 + r)^t)", nil
}

func futureValueAnnuity(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "future_value_annuity", "payment", "rate_per_period", "periods")
	if err != nil {
		return 0, "", err
	}
	payment, rate, periods := v[0], v[1], v[2]

	var fv float64
	if rate == 0 {
		fv = payment * periods
	} else {
		fv = payment * (math.Pow(1+rate, periods) - 1) / rate
	}
	return round2(fv), "FV = payment * [((1 + r)^n - 1) / r]", nil
}
