// In file: internal/formula/macro.go
package formula

import (
	"errors"

	"github.com/econosage/gateway/internal/query"
)

func importCostWithFX(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "import_cost_fx", "base_cost", "fx_devaluation_pct")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] * (1 + v[1])), "Import Cost = Base * (1 + FX Drop Rate)", nil
}

func capitalFlowScore(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "capital_flow_score", "us_rate_delta", "exposure_index")
	if err != nil {
		return 0, "", err
	}
	return round4(v[0] * v[1]), "Score = US Rate Change * Exposure Index", nil
}

func gdpGrowthFromPolicy(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "gdp_growth_from_policy", "fiscal_stimulus", "multiplier", "base_gdp")
	if err != nil {
		return 0, "", err
	}
	stimulus, multiplier, baseGDP := v[0], v[1], v[2]
	if baseGDP == 0 {
		return 0, "", errors.New("base GDP cannot be zero")
	}
	growth := stimulus * multiplier / baseGDP
	return round2(growth * 100), "GDP Growth % from Fiscal Stimulus", nil
}

func externalDebtBurden(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "external_debt_burden", "debt_usd", "fx_rate_local", "gdp_local")
	if err != nil {
		return 0, "", err
	}
	debtUSD, fxRate, gdpLocal := v[0], v[1], v[2]
	if gdpLocal == 0 {
		return 0, "", errors.New("local GDP cannot be zero")
	}
	return round4(debtUSD * fxRate / gdpLocal), "External Debt Burden = Debt / GDP", nil
}

func tradeDeficitGrowth(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "trade_deficit_growth", "trade_deficit_current", "trade_deficit_previous")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("previous trade deficit cannot be zero")
	}
	return round4((v[0] - v[1]) / v[1]), "Trade Deficit Growth Rate", nil
}

// macroStressScore weights fiscal deficit, inflation, and external debt into
// one composite reading. The 0.5/0.3/0.2 weights are the model's definition.
func macroStressScore(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "macro_stress_score", "fiscal_deficit", "inflation_rate", "external_debt_ratio")
	if err != nil {
		return 0, "", err
	}
	score := 0.5*v[0] + 0.3*v[1] + 0.2*v[2]
	return round4(score), "Macro Stress Composite Score", nil
}
