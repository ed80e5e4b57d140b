package rollup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

func TestComputeTotals(t *testing.T) {
	t.Run("sums example groups", func(t *testing.T) {
		totals := ComputeTotals(GroupByIdentity(examplePositions()))

		assertDecimal(t, "7250", totals.TotalValue)
		assertDecimal(t, "6600", totals.TotalCostBasis)
		assertDecimal(t, "650", totals.TotalGainLoss)
		assertDecimal(t, "100", totals.EstimatedAnnualIncome)
		assertDecimal(t, "7250", totals.LiquidValue)
		assert.True(t, totals.IlliquidValue.IsZero())
		assert.Equal(t, 2, totals.GroupCount)
		assert.Equal(t, 3, totals.PositionCount)

		expectedPct := d("650").Div(d("6600")).Shift(2)
		assert.True(t, expectedPct.Equal(totals.TotalGainLossPercent))
	})

	t.Run("splits liquid and illiquid value", func(t *testing.T) {
		totals := ComputeTotals(GroupByIdentity(mixedPositions()))

		liquid := d("1500").Add(d("750")).Add(d("800")).Add(d("5000")).Add(d("1234.56")).Add(d("16000.10"))
		illiquid := d("4800").Add(d("350000")).Add(d("210000"))
		assert.True(t, liquid.Equal(totals.LiquidValue), totals.LiquidValue.String())
		assert.True(t, illiquid.Equal(totals.IlliquidValue), totals.IlliquidValue.String())
		assert.True(t, totals.TotalValue.Equal(liquid.Add(illiquid)))
	})

	t.Run("unknown asset types count as illiquid", func(t *testing.T) {
		totals := ComputeTotals(GroupByIdentity([]models.Position{
			{AccountID: "1", AssetType: models.AssetType("collectible"), Identifier: "Watch", CurrentValue: d("900")},
		}))
		assertDecimal(t, "900", totals.IlliquidValue)
		assert.True(t, totals.LiquidValue.IsZero())
	})

	t.Run("all-zero portfolio has zero percentages", func(t *testing.T) {
		groups := GroupByIdentity([]models.Position{
			{AccountID: "1", AssetType: models.AssetTypeOther, Identifier: "Nothing"},
		})
		totals := ComputeTotals(groups)
		assert.True(t, totals.TotalGainLossPercent.IsZero())

		allocated := WithAllocation(groups, totals)
		require.Len(t, allocated, 1)
		assert.True(t, allocated[0].PercentOfPortfolio.IsZero())
	})

	t.Run("empty groups", func(t *testing.T) {
		totals := ComputeTotals(nil)
		assert.True(t, totals.TotalValue.IsZero())
		assert.True(t, totals.TotalGainLossPercent.IsZero())
		assert.Zero(t, totals.GroupCount)
	})
}

func TestWithAllocation(t *testing.T) {
	groups := GroupByIdentity([]models.Position{
		{AccountID: "1", AssetType: models.AssetTypeSecurity, Identifier: "A", CurrentValue: d("250")},
		{AccountID: "1", AssetType: models.AssetTypeSecurity, Identifier: "B", CurrentValue: d("750")},
	})
	totals := ComputeTotals(groups)

	allocated := WithAllocation(groups, totals)
	require.Len(t, allocated, 2)
	assertDecimal(t, "25", allocated[0].PercentOfPortfolio)
	assertDecimal(t, "75", allocated[1].PercentOfPortfolio)

	sum := decimal.Zero
	for _, g := range allocated {
		sum = sum.Add(g.PercentOfPortfolio)
	}
	assertDecimal(t, "100", sum)

	// source groups are untouched
	assert.True(t, groups[0].PercentOfPortfolio.IsZero())
}
