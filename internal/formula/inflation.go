// In file: internal/formula/inflation.go
package formula

import (
	"errors"
	"math"

	"github.com/econosage/gateway/internal/query"
)

func inflatedCost(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "inflated_cost", "base_value", "inflation_rate", "years")
	if err != nil {
		return 0, "", err
	}
	base, rate, years := v[0], v[1], v[2]
	return round2(base * math.Pow(1+rate, years)), "FV = PV * (1 + r)^t", nil
}

func realValue(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "real_value", "nominal_value", "inflation_rate")
	if err != nil {
		return 0, "", err
	}
	if 1+v[1] == 0 {
		return 0, "", errors.New("inflation rate cannot be -100%")
	}
	return round2(v[0] / (1 + v[1])), "Real Value = Nominal / (1 + Inflation Rate)", nil
}

func reverseInflation(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "reverse_inflation", "present_value", "future_value", "years")
	if err != nil {
		return 0, "", err
	}
	pv, fv, years := v[0], v[1], v[2]
	if pv == 0 {
		return 0, "", errors.New("present value cannot be zero")
	}
	if years == 0 {
		return 0, "", errors.New("years cannot be zero")
	}
	rate := math.Pow(fv/pv, 1/years) - 1
	return round4(rate), "r = (FV / PV)^(1/t) - 1", nil
}

// weightedCPI combines category weights with category inflation readings.
// The two series are parallel: weights[i] applies to inflations[i].
func weightedCPI(p query.ParamMap) (float64, string, error) {
	weights, err := floatSeries(p, "weighted_cpi", "weights")
	if err != nil {
		return 0, "", err
	}
	inflations, err := floatSeries(p, "weighted_cpi", "inflations")
	if err != nil {
		return 0, "", err
	}
	if len(weights) != len(inflations) {
		return 0, "", errors.New("weights and inflations must have the same length")
	}

	var cpi float64
	for i, w := range weights {
		cpi += w * inflations[i]
	}
	return round4(cpi), "CPI = sum(weight * category inflation)", nil
}

func inflationAdjustedSalary(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "inflation_adjusted_salary", "salary", "inflation_rate", "years")
	if err != nil {
		return 0, "", err
	}
	salary, rate, years := v[0], v[1], v[2]
	return round2(salary * math.Pow(1+rate, years)), "Adjusted Salary = Salary * (1 + inflation)^years", nil
}

func ruleOf72(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "rule_of_72", "inflation_rate")
	if err != nil {
		return 0, "", err
	}
	if v[0] == 0 {
		return 0, "", errors.New("inflation rate cannot be zero")
	}
	// The rule divides 72 by the rate expressed as a percentage, so the
	// normalized fraction is scaled back up.
	years := 72 / (v[0] * 100)
	return round2(years), "Rule of 72 = 72 / Inflation Rate (%)", nil
}

func realInterestRate(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "real_interest_rate", "nominal_rate", "inflation_rate")
	if err != nil {
		return 0, "", err
	}
	if 1+v[1] == 0 {
		return 0, "", errors.New("inflation rate cannot be -100%")
	}
	real := (1+v[0])/(1+v[1]) - 1
	return round4(real), "Real Interest Rate = ((1 + Nominal) / (1 + Inflation)) - 1", nil
}

func purchasingPowerLoss(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "purchasing_power_loss", "original_price", "inflation_rate", "years")
	if err != nil {
		return 0, "", err
	}
	price, rate, years := v[0], v[1], v[2]
	loss := price * (1 - 1/math.Pow(1+rate, years))
	return round2(loss), "Purchasing Power Loss over years", nil
}
