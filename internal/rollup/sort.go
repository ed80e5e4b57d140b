package rollup

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-rollup/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort key constants. "_high" keys sort descending, "_low" ascending.
const (
	SortValueHigh    = "value_high"
	SortValueLow     = "value_low"
	SortGainHigh     = "gain_high"
	SortGainLow      = "gain_low"
	SortGainPctHigh  = "gain_pct_high"
	SortGainPctLow   = "gain_pct_low"
	SortQuantityHigh = "quantity_high"
	SortQuantityLow  = "quantity_low"
	SortCostHigh     = "cost_high"
	SortCostLow      = "cost_low"
	SortIncomeHigh   = "income_high"
	SortIncomeLow    = "income_low"
	SortAccountsHigh = "accounts_high"
	SortAccountsLow  = "accounts_low"
	SortIdentifier   = "identifier"
	SortName         = "name"
	SortAssetType    = "asset_type"
	SortAccount      = "account"
)

// DefaultSortKey orders groups by value, largest first
const DefaultSortKey = SortValueHigh

type numericKey[T any] struct {
	field func(T) decimal.Decimal
	desc  bool
}

var groupNumericKeys = map[string]numericKey[models.AssetGroup]{
	SortValueHigh:    {func(g models.AssetGroup) decimal.Decimal { return g.TotalValue }, true},
	SortValueLow:     {func(g models.AssetGroup) decimal.Decimal { return g.TotalValue }, false},
	SortGainHigh:     {func(g models.AssetGroup) decimal.Decimal { return g.TotalGainLoss }, true},
	SortGainLow:      {func(g models.AssetGroup) decimal.Decimal { return g.TotalGainLoss }, false},
	SortGainPctHigh:  {func(g models.AssetGroup) decimal.Decimal { return g.TotalGainLossPercent }, true},
	SortGainPctLow:   {func(g models.AssetGroup) decimal.Decimal { return g.TotalGainLossPercent }, false},
	SortQuantityHigh: {func(g models.AssetGroup) decimal.Decimal { return g.TotalQuantity }, true},
	SortQuantityLow:  {func(g models.AssetGroup) decimal.Decimal { return g.TotalQuantity }, false},
	SortCostHigh:     {func(g models.AssetGroup) decimal.Decimal { return g.TotalCostBasis }, true},
	SortCostLow:      {func(g models.AssetGroup) decimal.Decimal { return g.TotalCostBasis }, false},
	SortIncomeHigh:   {func(g models.AssetGroup) decimal.Decimal { return g.EstimatedAnnualIncome }, true},
	SortIncomeLow:    {func(g models.AssetGroup) decimal.Decimal { return g.EstimatedAnnualIncome }, false},
	SortAccountsHigh: {func(g models.AssetGroup) decimal.Decimal { return decimal.NewFromInt(int64(g.AccountsCount)) }, true},
	SortAccountsLow:  {func(g models.AssetGroup) decimal.Decimal { return decimal.NewFromInt(int64(g.AccountsCount)) }, false},
}

var groupStringKeys = map[string]func(models.AssetGroup) string{
	SortIdentifier: func(g models.AssetGroup) string { return g.Identifier },
	SortName:       func(g models.AssetGroup) string { return g.Name },
	SortAssetType:  func(g models.AssetGroup) string { return string(g.AssetType) },
}

func positionGain(p models.Position) decimal.Decimal {
	if !p.AssetType.Rules().GainLoss {
		return decimal.Zero
	}
	return p.CurrentValue.Sub(p.TotalCostBasis)
}

var positionNumericKeys = map[string]numericKey[models.Position]{
	SortValueHigh:    {func(p models.Position) decimal.Decimal { return p.CurrentValue }, true},
	SortValueLow:     {func(p models.Position) decimal.Decimal { return p.CurrentValue }, false},
	SortGainHigh:     {positionGain, true},
	SortGainLow:      {positionGain, false},
	SortGainPctHigh:  {func(p models.Position) decimal.Decimal { return GainPercent(positionGain(p), p.TotalCostBasis) }, true},
	SortGainPctLow:   {func(p models.Position) decimal.Decimal { return GainPercent(positionGain(p), p.TotalCostBasis) }, false},
	SortQuantityHigh: {func(p models.Position) decimal.Decimal { return p.Quantity }, true},
	SortQuantityLow:  {func(p models.Position) decimal.Decimal { return p.Quantity }, false},
	SortCostHigh:     {func(p models.Position) decimal.Decimal { return p.TotalCostBasis }, true},
	SortCostLow:      {func(p models.Position) decimal.Decimal { return p.TotalCostBasis }, false},
	SortIncomeHigh:   {PositionIncome, true},
	SortIncomeLow:    {PositionIncome, false},
}

var positionStringKeys = map[string]func(models.Position) string{
	SortIdentifier: func(p models.Position) string { return p.Identifier },
	SortName:       func(p models.Position) string { return p.Name },
	SortAssetType:  func(p models.Position) string { return string(p.AssetType) },
	SortAccount:    func(p models.Position) string { return p.AccountName },
}

// SortGroups returns a stably sorted copy of groups. An unknown key keeps
// the input order.
func SortGroups(groups []models.AssetGroup, key string) []models.AssetGroup {
	return sortBy(groups, key, groupNumericKeys, groupStringKeys)
}

// SortPositions returns a stably sorted copy of positions. An unknown key
// keeps the input order.
func SortPositions(positions []models.Position, key string) []models.Position {
	return sortBy(positions, key, positionNumericKeys, positionStringKeys)
}

// ValidSortKey reports whether key is understood by SortGroups
func ValidSortKey(key string) bool {
	key = normalizeSortKey(key)
	_, numeric := groupNumericKeys[key]
	_, text := groupStringKeys[key]
	return numeric || text
}

func sortBy[T any](items []T, key string, numeric map[string]numericKey[T], text map[string]func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)

	key = normalizeSortKey(key)
	if nk, ok := numeric[key]; ok {
		sort.SliceStable(out, func(i, j int) bool {
			c := nk.field(out[i]).Cmp(nk.field(out[j]))
			if nk.desc {
				return c > 0
			}
			return c < 0
		})
		return out
	}
	if field, ok := text[key]; ok {
		col := newCollator()
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(field(out[i]), field(out[j])) < 0
		})
	}
	return out
}

func normalizeSortKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// newCollator returns a fresh collator; collators keep internal buffers and
// must not be shared between goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase, collate.Numeric)
}
