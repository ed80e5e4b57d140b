package rollup

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(d(s))
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

// examplePositions is the three-position scenario: AAPL held in two
// accounts plus an interest-bearing cash balance.
func examplePositions() []models.Position {
	return []models.Position{
		{
			AccountID:      "1",
			AccountName:    "Brokerage",
			AssetType:      models.AssetTypeSecurity,
			Identifier:     "AAPL",
			Name:           "Apple Inc.",
			Quantity:       d("10"),
			CurrentValue:   d("1500"),
			TotalCostBasis: d("1000"),
		},
		{
			AccountID:      "2",
			AccountName:    "IRA",
			AssetType:      models.AssetTypeSecurity,
			Identifier:     "AAPL",
			Name:           "Apple Inc.",
			Quantity:       d("5"),
			CurrentValue:   d("750"),
			TotalCostBasis: d("600"),
		},
		{
			AccountID:      "1",
			AccountName:    "Brokerage",
			AssetType:      models.AssetTypeCash,
			Identifier:     "USD",
			Name:           "US Dollar",
			Quantity:       d("1"),
			CurrentValue:   d("5000"),
			TotalCostBasis: d("5000"),
			DividendRate:   d("2"),
		},
	}
}

// fingerprint renders a group as a comparable string. Decimal internals
// may differ for equal values, so groups are compared through it.
func fingerprint(g models.AssetGroup) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%s|q=%s|v=%s|c=%s|avg=%s|gl=%s|glp=%s|app=%t|inc=%s|ipu=%s|acc=%d|price=%v:%s|",
		g.Key, g.AssetType, g.Identifier, g.Name,
		g.TotalQuantity, g.TotalValue, g.TotalCostBasis, g.AvgCostBasisPerUnit,
		g.TotalGainLoss, g.TotalGainLossPercent, g.GainLossApplicable,
		g.EstimatedAnnualIncome, g.IncomePerUnit, g.AccountsCount,
		g.CurrentPricePerUnit.Valid, g.CurrentPricePerUnit.Decimal)
	for _, p := range g.Positions {
		fmt.Fprintf(&b, "[%s %s %s %s %s %s %s]", p.AccountID, p.Institution, p.Quantity, p.CurrentValue, p.TotalCostBasis, p.DividendRate, p.DividendYield)
	}
	return b.String()
}

func fingerprints(groups []models.AssetGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = fingerprint(g)
	}
	return out
}

func groupKeys(groups []models.AssetGroup) []string {
	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	return keys
}
