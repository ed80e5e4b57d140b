package rollup

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

// GroupByIdentity folds positions into one AssetGroup per group key.
//
// Members are folded in a canonical order and groups are returned sorted by
// key, so any permutation of the same input yields identical groups. The
// input slice is not modified.
func GroupByIdentity(positions []models.Position) []models.AssetGroup {
	members := canonicalOrder(positions)

	tallies := make(map[string]*tally)
	heads := make(map[string]models.Position)
	var keys []string

	for _, p := range members {
		key := p.GroupKey()
		t, ok := tallies[key]
		if !ok {
			t = newTally(p.AssetType)
			tallies[key] = t
			heads[key] = p
			keys = append(keys, key)
		}
		t.add(p)
	}

	sort.Strings(keys)

	groups := make([]models.AssetGroup, 0, len(keys))
	for _, key := range keys {
		head := heads[key]
		s := tallies[key].finish()
		groups = append(groups, models.AssetGroup{
			Key:                   key,
			AssetType:             head.AssetType,
			Identifier:            head.Identifier,
			Name:                  groupName(s.Positions),
			TotalQuantity:         s.Quantity,
			TotalValue:            s.Value,
			TotalCostBasis:        s.Cost,
			AvgCostBasisPerUnit:   s.AvgCost,
			TotalGainLoss:         s.GainLoss,
			TotalGainLossPercent:  s.GainLossPct,
			GainLossApplicable:    s.Applicable,
			EstimatedAnnualIncome: s.Income,
			IncomePerUnit:         s.IncomePerUnit,
			AccountsCount:         s.Accounts,
			CurrentPricePerUnit:   s.Price,
			Positions:             s.Positions,
		})
	}
	return groups
}

// groupName picks the first non-empty display name among members
func groupName(members []models.Position) string {
	for _, p := range members {
		if p.Name != "" {
			return p.Name
		}
	}
	return ""
}

// canonicalOrder returns a copy of positions in a deterministic order:
// account, then purchase date (undated first), then the remaining fields
// as tie breakers. The member whose price is "last" is therefore the most
// recently purchased lot of the highest-ordered account.
func canonicalOrder(positions []models.Position) []models.Position {
	out := make([]models.Position, len(positions))
	copy(out, positions)
	sort.SliceStable(out, func(i, j int) bool {
		return comparePositions(out[i], out[j]) < 0
	})
	return out
}

func comparePositions(a, b models.Position) int {
	if c := strings.Compare(a.AccountID, b.AccountID); c != 0 {
		return c
	}
	if c := compareDates(a, b); c != 0 {
		return c
	}
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	for _, c := range []int{
		compareDecimal(a.Quantity, b.Quantity),
		compareDecimal(a.CurrentValue, b.CurrentValue),
		compareDecimal(a.TotalCostBasis, b.TotalCostBasis),
		compareNullDecimal(a.CurrentPricePerUnit, b.CurrentPricePerUnit),
		compareNullDecimal(a.CostPerUnit, b.CostPerUnit),
		compareDecimal(a.DividendRate, b.DividendRate),
		compareDecimal(a.DividendYield, b.DividendYield),
		strings.Compare(a.AccountName, b.AccountName),
		strings.Compare(a.Institution, b.Institution),
		strings.Compare(string(a.AssetType), string(b.AssetType)),
		strings.Compare(a.Identifier, b.Identifier),
		strings.Compare(a.Name, b.Name),
		a.CreatedAt.Compare(b.CreatedAt),
		a.UpdatedAt.Compare(b.UpdatedAt),
	} {
		if c != 0 {
			return c
		}
	}
	return 0
}

// compareDecimal orders by value, then by representation so that 1.0 and
// 1 still sort the same way regardless of input order
func compareDecimal(a, b decimal.Decimal) int {
	if c := a.Cmp(b); c != 0 {
		return c
	}
	return strings.Compare(a.String(), b.String())
}

func compareNullDecimal(a, b decimal.NullDecimal) int {
	if c := compareNull(a.Valid, b.Valid); c != 0 {
		return c
	}
	if !a.Valid {
		return 0
	}
	return compareDecimal(a.Decimal, b.Decimal)
}

func compareDates(a, b models.Position) int {
	if c := compareNull(a.PurchaseDate != nil, b.PurchaseDate != nil); c != 0 {
		return c
	}
	if a.PurchaseDate == nil {
		return 0
	}
	switch {
	case a.PurchaseDate.Before(*b.PurchaseDate):
		return -1
	case a.PurchaseDate.After(*b.PurchaseDate):
		return 1
	}
	return 0
}

// compareNull orders absent values before present ones
func compareNull(aValid, bValid bool) int {
	switch {
	case aValid == bValid:
		return 0
	case !aValid:
		return -1
	default:
		return 1
	}
}
