// In file: internal/formula/registry.go
package formula

import (
	"fmt"
	"math"

	"github.com/econosage/gateway/internal/query"
)

// Func evaluates one formula against a parameter mapping, returning the
// numeric result and the human-readable formula string shown to the user.
type Func func(p query.ParamMap) (float64, string, error)

// registry is built once at init and read-only afterwards. Alias keys (the
// intent table's regional phrasings like "vat_sales_tax") point at the same
// function as their canonical key so every classifiable key is executable.
var registry = map[string]Func{
	// Core finance
	"compound_interest":       compoundInterest,
	"principal_from_compound": principalFromCompound,
	"rate_from_compound":      rateFromCompound,
	"simple_interest":         simpleInterest,
	"present_value":           presentValue,
	"roi":                     returnOnInvestment,
	"npv":                     netPresentValue,
	"future_value_annuity":    futureValueAnnuity,

	// Policy simulator
	"sales_tax":                    salesTax,
	"vat":                          valueAddedTax,
	"vat_sales_tax":                valueAddedTax,
	"emi":                          equatedMonthlyInstallment,
	"subsidy_removal":              subsidyRemovalEffect,
	"subsidy_removal_effect":       subsidyRemovalEffect,
	"fuel_cost_impact":             fuelCostImpact,
	"income_tax_slab":              incomeTaxSlab,
	"income_tax_bracket":           incomeTaxSlab,
	"minimum_wage_impact":          minimumWageImpact,
	"budget_deficit":               budgetDeficit,
	"effective_tax_rate":           effectiveTaxRate,
	"public_investment_multiplier": publicInvestmentMultiplier,

	// Inflation explainer
	"inflated_cost":             inflatedCost,
	"real_value":                realValue,
	"reverse_inflation":         reverseInflation,
	"weighted_cpi":              weightedCPI,
	"inflation_adjusted_salary": inflationAdjustedSalary,
	"rule_of_72":                ruleOf72,
	"real_interest_rate":        realInterestRate,
	"purchasing_power_loss":     purchasingPowerLoss,

	// MacroLens
	"import_cost_fx":         importCostWithFX,
	"capital_flow_score":     capitalFlowScore,
	"gdp_growth_from_policy": gdpGrowthFromPolicy,
	"external_debt_burden":   externalDebtBurden,
	"trade_deficit_growth":   tradeDeficitGrowth,
	"macro_stress_score":     macroStressScore,

	// Other core metrics
	"break_even":                 breakEven,
	"payback_period":             paybackPeriod,
	"price_elasticity_of_demand": priceElasticityOfDemand,
	"gdp_growth_rate":            gdpGrowthRate,
	"debt_to_equity":             debtToEquity,
	"inventory_turnover":         inventoryTurnover,
	"contribution_margin":        contributionMargin,
	"operating_profit_margin":    operatingProfitMargin,
	"capm":                       capitalAssetPricing,
	"elasticity_of_supply":       elasticityOfSupply,
	"dscr":                       debtServiceCoverage,
	"eoq":                        economicOrderQuantity,
	"wacc":                       weightedAvgCostOfCapital,
	"markup_price":               markupPrice,
}

// Supports reports whether name can be executed locally.
func Supports(name string) bool {
	_, ok := registry[name]
	return ok
}

// Execute runs the named formula against params.
//
// It fails with ErrUnsupportedFormula for an unregistered name and with a
// *MissingParamsError when required keys are absent; any other error means
// the computation itself is undefined for the given values (zero
// denominator, non-convergent solve). Results are always finite: an
// overflowing or indeterminate computation is an error, never a value
// (encoding/json cannot marshal Inf or NaN).
func Execute(name string, params query.ParamMap) (float64, string, error) {
	fn, ok := registry[name]
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnsupportedFormula, name)
	}
	value, desc, err := fn(params)
	if err != nil {
		return 0, "", err
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, "", fmt.Errorf("formula %q is undefined for the given values", name)
	}
	return value, desc, nil
}

// round2 and round4 mirror the display precision users expect for money
// amounts and for rates/ratios respectively.
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
