package rollup

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterPositions(t *testing.T) {
	positions := examplePositions()

	t.Run("empty filter matches all", func(t *testing.T) {
		assert.Len(t, FilterPositions(positions, Filter{}), 3)
		assert.Len(t, FilterPositions(positions, Filter{AccountID: "all", AssetType: "ALL"}), 3)
	})

	t.Run("search is case-insensitive on identifier or name", func(t *testing.T) {
		byIdentifier := FilterPositions(positions, Filter{Search: "aap"})
		assert.Len(t, byIdentifier, 2)

		byName := FilterPositions(positions, Filter{Search: "dollar"})
		require.Len(t, byName, 1)
		assert.Equal(t, "USD", byName[0].Identifier)

		assert.Empty(t, FilterPositions(positions, Filter{Search: "tsla"}))
	})

	t.Run("account filter excludes other accounts before grouping", func(t *testing.T) {
		groups := GroupByIdentity(FilterPositions(positions, Filter{AccountID: "1"}))
		require.Len(t, groups, 2)

		aapl, ok := FindGroup(groups, "security:AAPL")
		require.True(t, ok)
		assertDecimal(t, "10", aapl.TotalQuantity)
		assertDecimal(t, "1500", aapl.TotalValue)
		assert.Equal(t, 1, aapl.AccountsCount)

		cash, ok := FindGroup(groups, "cash:USD")
		require.True(t, ok)
		assertDecimal(t, "5000", cash.TotalValue)
		assertDecimal(t, "100", cash.EstimatedAnnualIncome)
	})

	t.Run("no empty groups when the only holder is filtered out", func(t *testing.T) {
		groups := GroupByIdentity(FilterPositions(positions, Filter{AccountID: "2"}))
		require.Len(t, groups, 1)
		assert.Equal(t, "security:AAPL", groups[0].Key)
	})

	t.Run("asset type filter", func(t *testing.T) {
		cash := FilterPositions(positions, Filter{AssetType: "cash"})
		require.Len(t, cash, 1)
		assert.Equal(t, "USD", cash[0].Identifier)
	})

	t.Run("filters compose with AND", func(t *testing.T) {
		assert.Len(t, FilterPositions(positions, Filter{Search: "apple", AccountID: "2", AssetType: "security"}), 1)
		assert.Empty(t, FilterPositions(positions, Filter{Search: "apple", AssetType: "cash"}))
	})

	t.Run("conservation holds under filtering", func(t *testing.T) {
		for _, f := range []Filter{{}, {AccountID: "1"}, {AssetType: "security"}, {Search: "a"}} {
			filtered := FilterPositions(mixedPositions(), f)
			sum := decimal.Zero
			for _, p := range filtered {
				sum = sum.Add(p.CurrentValue)
			}
			totals := ComputeTotals(GroupByIdentity(filtered))
			assert.True(t, sum.Equal(totals.TotalValue), "filter %+v", f)
		}
	})
}
