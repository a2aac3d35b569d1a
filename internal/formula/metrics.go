// In file: internal/formula/metrics.go
package formula

import (
	"errors"
	"math"

	"github.com/econosage/gateway/internal/query"
)

func breakEven(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "break_even", "fixed_costs", "price_per_unit", "variable_cost_per_unit")
	if err != nil {
		return 0, "", err
	}
	fixed, price, variable := v[0], v[1], v[2]
	margin := price - variable
	if margin == 0 {
		return 0, "", errors.New("price must exceed variable cost")
	}
	return round2(fixed / margin), "Break-even = Fixed / (Price - Variable)", nil
}

func paybackPeriod(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "payback_period", "initial_investment", "annual_cash_inflow")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("annual cash inflow cannot be zero")
	}
	return round2(v[0] / v[1]), "Payback Period = Investment / Annual Cash Inflow", nil
}

func priceElasticityOfDemand(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "price_elasticity_of_demand", "percent_change_quantity", "percent_change_price")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("price change cannot be zero")
	}
	return round4(v[0] / v[1]), "PED = dQ% / dP%", nil
}

func gdpGrowthRate(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "gdp_growth_rate", "gdp_t", "gdp_t_minus_1")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("previous GDP cannot be zero")
	}
	growth := (v[0] - v[1]) / v[1] * 100
	return round2(growth), "GDP Growth = (GDP_t - GDP_t-1) / GDP_t-1 * 100%", nil
}

func debtToEquity(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "debt_to_equity", "total_debt", "shareholders_equity")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("equity cannot be zero")
	}
	return round4(v[0] / v[1]), "D/E = Debt / Equity", nil
}

func inventoryTurnover(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "inventory_turnover", "cost_of_goods_sold", "average_inventory")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("inventory cannot be zero")
	}
	return round2(v[0] / v[1]), "Turnover = COGS / Avg Inventory", nil
}

func contributionMargin(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "contribution_margin", "price_per_unit", "variable_cost_per_unit")
	if err != nil {
		return 0, "", err
	}
	return round2(v[0] - v[1]), "CM = Price - Variable Cost", nil
}

func operatingProfitMargin(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "operating_profit_margin", "operating_income", "revenue")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("revenue cannot be zero")
	}
	return round2(v[0] / v[1] * 100), "OPM = Operating Income / Revenue * 100%", nil
}

func capitalAssetPricing(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "capm", "risk_free_rate", "beta", "market_return")
	if err != nil {
		return 0, "", err
	}
	rf, beta, rm := v[0], v[1], v[2]
	return round4(rf + beta*(rm-rf)), "CAPM = Rf + beta(Rm - Rf)", nil
}

func elasticityOfSupply(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "elasticity_of_supply", "percent_change_quantity_supplied", "percent_change_price")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("price change cannot be zero")
	}
	return round4(v[0] / v[1]), "Elasticity = dQs% / dP%", nil
}

func debtServiceCoverage(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "dscr", "net_operating_income", "total_debt_service")
	if err != nil {
		return 0, "", err
	}
	if v[1] == 0 {
		return 0, "", errors.New("debt service cannot be zero")
	}
	return round4(v[0] / v[1]), "DSCR = NOI / Debt Service", nil
}

func economicOrderQuantity(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "eoq", "demand", "ordering_cost", "holding_cost")
	if err != nil {
		return 0, "", err
	}
	demand, ordering, holding := v[0], v[1], v[2]
	if holding == 0 {
		return 0, "", errors.New("holding cost cannot be zero")
	}
	return round2(math.Sqrt(2 * demand * ordering / holding)), "EOQ = sqrt(2DS/H)", nil
}

func weightedAvgCostOfCapital(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "wacc", "E", "V", "Re", "D", "Rd", "Tc")
	if err != nil {
		return 0, "", err
	}
	E, V, Re, D, Rd, Tc := v[0], v[1], v[2], v[3], v[4], v[5]
	if V == 0 {
		return 0, "", errors.New("V cannot be zero")
	}
	wacc := (E/V)*Re + (D/V)*Rd*(1-Tc)
	return round4(wacc), "WACC = (E/V)*Re + (D/V)*Rd*(1 - Tc)", nil
}

func markupPrice(p query.ParamMap) (float64, string, error) {
	v, err := floats(p, "markup_price", "cost", "markup_percentage")
	if err != nil {
		return 0, "", err
	}
	cost, markup := v[0], v[1]
	return round2(cost + cost*markup), "Price = Cost + (Cost * Markup%)", nil
}
