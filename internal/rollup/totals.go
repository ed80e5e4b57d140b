package rollup

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

// ComputeTotals sums group-level fields into portfolio totals and splits
// value into liquid and illiquid buckets by asset type.
func ComputeTotals(groups []models.AssetGroup) models.PortfolioTotals {
	totals := models.PortfolioTotals{
		TotalValue:            decimal.Zero,
		TotalCostBasis:        decimal.Zero,
		TotalGainLoss:         decimal.Zero,
		TotalGainLossPercent:  decimal.Zero,
		EstimatedAnnualIncome: decimal.Zero,
		LiquidValue:           decimal.Zero,
		IlliquidValue:         decimal.Zero,
	}

	for _, g := range groups {
		totals.TotalValue = totals.TotalValue.Add(g.TotalValue)
		totals.TotalCostBasis = totals.TotalCostBasis.Add(g.TotalCostBasis)
		totals.TotalGainLoss = totals.TotalGainLoss.Add(g.TotalGainLoss)
		totals.EstimatedAnnualIncome = totals.EstimatedAnnualIncome.Add(g.EstimatedAnnualIncome)
		if g.AssetType.Rules().Liquid {
			totals.LiquidValue = totals.LiquidValue.Add(g.TotalValue)
		} else {
			totals.IlliquidValue = totals.IlliquidValue.Add(g.TotalValue)
		}
		totals.GroupCount++
		totals.PositionCount += len(g.Positions)
	}

	totals.TotalGainLossPercent = GainPercent(totals.TotalGainLoss, totals.TotalCostBasis)
	return totals
}

// WithAllocation returns copies of groups with PercentOfPortfolio set
// against the given totals. The input groups are left untouched.
func WithAllocation(groups []models.AssetGroup, totals models.PortfolioTotals) []models.AssetGroup {
	out := make([]models.AssetGroup, len(groups))
	for i, g := range groups {
		g.PercentOfPortfolio = Percent(g.TotalValue, totals.TotalValue)
		out[i] = g
	}
	return out
}
