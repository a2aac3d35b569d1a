// In file: internal/formula/policy.go
package formula

import (
	"errors"
	"math"

	"github.com/econosage/gateway/internal/query"
)

func salesTax(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "sales_tax", "base_price", "tax_rate")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] * (1 + v[1])), "Final Price = Base Price * (1 + Tax Rate)", nil
}

func valueAddedTax(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "vat", "base_price", "vat_rate")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] * (1 + v[1])), "Final Price = Base Price * (1 + VAT Rate)", nil
}

func equatedMonthlyInstallment(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "emi", "principal", "annual_rate", "months")
	if err != nil {
		return 0, "", err
	}
	principal, annualRate, months := v[0], v[1], v[2]

	r := annualRate / 12
	var emi float64
	if r == 0 {
		emi = principal / months
	} else {
		growth := math.Pow(1+r, months)
		emi = principal * r * growth / (growth - 1)
	}
	return round2(emi), "EMI = P*r*(1+r)^n / [(1+r)^n - 1]", nil
}

func subsidyRemovalEffect(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "subsidy_removal", "base_cost", "subsidy_amount")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] + v[1]), "New Cost = Base + Subsidy Removed", nil
}

func fuelCostImpact(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "fuel_cost_impact", "base_cost", "fuel_share", "price_delta")
	if err != nil {
		return 0, "", err
	}
	baseCost, fuelShare, priceDelta := v[0], v[1], v[2]
	return round2(baseCost + priceDelta*fuelShare), "New Cost = Base + (Fuel Price Delta * Fuel Share)", nil
}

// incomeTaxSlab applies marginal slab rates to the portion of income falling
// inside each slab. Slab limits and rates are parallel series.
func incomeTaxSlab(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "income_tax_slab", "income")
	if err != nil {
		return 0, "", err
	}
	income := v[0]
	slabs, err := floatSeries(p, "income_tax_slab", "slabs")
	if err != nil {
		return 0, "", err
	}
	rates, err := floatSeries(p, "income_tax_slab", "rates")
	if err != nil {
		return 0, "", err
	}
	if len(slabs) != len(rates) {
		return 0, "", errors.New("slabs and rates must have the same length")
	}

	var tax, prevLimit float64
	for i, slabLimit := range slabs {
		var taxable float64
		if income > slabLimit {
			taxable = slabLimit - prevLimit
		} else {
			taxable = math.Max(0, income-prevLimit)
		}
		tax += taxable * rates[i]
		prevLimit = slabLimit
		if income <= slabLimit {
			break
		}
	}
	return round2(tax), "Income Tax computed on slab rates", nil
}

func minimumWageImpact(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "minimum_wage_impact", "current_wage", "min_wage", "workforce_pct")
	if err != nil {
		return 0, "", err
	}
	currentWage, minWage, workforcePct := v[0], v[1], v[2]

	if currentWage >= minWage {
		return 0, "No wage increase required", nil
	}
	increase := (minWage - currentWage) * workforcePct
	return round2(increase), "Wage cost increase due to minimum wage policy", nil
}

func budgetDeficit(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "budget_deficit", "gov_expenditure", "gov_revenue")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] - v[1]), "Budget Deficit = Expenditure - Revenue", nil
}

func effectiveTaxRate(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "effective_tax_rate", "total_tax_paid", "total_income")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("total income cannot be zero")
	}
	return round4(v[0] / v[1]), "Effective Tax Rate = Tax Paid / Income", nil
}

func publicInvestmentMultiplier(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "public_investment_multiplier", "mpc", "mps")
	if err != nil {
		return 0, "", err
	}
	_ = v[0] // mpc is accepted for interface compatibility; 1/MPS needs only mps.
	if v[1] == 0 {
		return 0, "", errors.New("MPS cannot be zero")
	}
	return round4(1 / v[1]), "Multiplier = 1 / MPS", nil
}
