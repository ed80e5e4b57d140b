package rollup

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

// SortOrder is the explicit direction of a drill-down sort
type SortOrder string

// Sort order constants
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Drill-down sort keys
const (
	DetailSortAccount  = "account"
	DetailSortValue    = "value"
	DetailSortQuantity = "quantity"
	DetailSortCost     = "cost"
	DetailSortGain     = "gain"
)

// Defaults applied whenever a new group is expanded
const (
	DefaultDetailSortKey   = DetailSortValue
	DefaultDetailSortOrder = SortDesc
)

// ParseSortOrder maps "asc" to SortAsc and anything else to SortDesc
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

var detailNumericKeys = map[string]func(models.AccountDetail) decimal.Decimal{
	DetailSortValue:    func(d models.AccountDetail) decimal.Decimal { return d.TotalValue },
	DetailSortQuantity: func(d models.AccountDetail) decimal.Decimal { return d.TotalQuantity },
	DetailSortCost:     func(d models.AccountDetail) decimal.Decimal { return d.TotalCostBasis },
	DetailSortGain:     func(d models.AccountDetail) decimal.Decimal { return d.TotalGainLoss },
}

// ProjectAccountDetail re-groups the members of one asset group by account.
// Each row uses the same accumulator as GroupByIdentity, so account rows
// always add up to the group. An unknown key keeps first-seen account order.
func ProjectAccountDetail(group models.AssetGroup, key string, order SortOrder) []models.AccountDetail {
	tallies := make(map[string]*tally)
	heads := make(map[string]models.Position)
	var accounts []string

	for _, p := range group.Positions {
		t, ok := tallies[p.AccountID]
		if !ok {
			t = newTally(group.AssetType)
			tallies[p.AccountID] = t
			heads[p.AccountID] = p
			accounts = append(accounts, p.AccountID)
		}
		t.add(p)
	}

	details := make([]models.AccountDetail, 0, len(accounts))
	for _, id := range accounts {
		head := heads[id]
		s := tallies[id].finish()
		details = append(details, models.AccountDetail{
			AccountID:            id,
			AccountName:          head.AccountName,
			Institution:          head.Institution,
			TotalQuantity:        s.Quantity,
			TotalValue:           s.Value,
			TotalCostBasis:       s.Cost,
			TotalGainLoss:        s.GainLoss,
			TotalGainLossPercent: s.GainLossPct,
			GainLossApplicable:   s.Applicable,
			Positions:            s.Positions,
		})
	}

	sortDetails(details, normalizeSortKey(key), order)
	return details
}

func sortDetails(details []models.AccountDetail, key string, order SortOrder) {
	desc := order != SortAsc

	if key == DetailSortAccount {
		col := newCollator()
		sort.SliceStable(details, func(i, j int) bool {
			c := col.CompareString(details[i].AccountName, details[j].AccountName)
			if desc {
				return c > 0
			}
			return c < 0
		})
		return
	}

	field, ok := detailNumericKeys[key]
	if !ok {
		return
	}
	sort.SliceStable(details, func(i, j int) bool {
		c := field(details[i]).Cmp(field(details[j]))
		if desc {
			return c > 0
		}
		return c < 0
	})
}
