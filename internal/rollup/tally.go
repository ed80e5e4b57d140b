package rollup

import (
	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

// PositionIncome returns the estimated annual income of a single position.
// Only the income source matching the asset type is used, so a record that
// carries both a rate and a yield is never counted twice.
func PositionIncome(p models.Position) decimal.Decimal {
	switch p.AssetType.Rules().Income {
	case models.IncomeFromRate:
		return p.CurrentValue.Mul(p.DividendRate).Shift(-2)
	case models.IncomeFromYield:
		return p.CurrentValue.Mul(p.DividendYield).Shift(-2)
	default:
		return decimal.Zero
	}
}

// tally accumulates the additive fields of a set of positions. It backs both
// the asset-level groups and the account-level drill-down rows.
type tally struct {
	assetType models.AssetType
	quantity  decimal.Decimal
	value     decimal.Decimal
	cost      decimal.Decimal
	income    decimal.Decimal
	price     decimal.NullDecimal
	accounts  map[string]struct{}
	positions []models.Position
}

func newTally(t models.AssetType) *tally {
	return &tally{
		assetType: t,
		quantity:  decimal.Zero,
		value:     decimal.Zero,
		cost:      decimal.Zero,
		income:    decimal.Zero,
		accounts:  make(map[string]struct{}),
	}
}

func (t *tally) add(p models.Position) {
	t.quantity = t.quantity.Add(p.Quantity)
	t.value = t.value.Add(p.CurrentValue)
	t.cost = t.cost.Add(p.TotalCostBasis)
	t.income = t.income.Add(PositionIncome(p))
	if p.CurrentPricePerUnit.Valid {
		t.price = p.CurrentPricePerUnit
	}
	t.accounts[p.AccountID] = struct{}{}
	t.positions = append(t.positions, p)
}

// summary is the finished, zero-guarded view of a tally
type summary struct {
	Quantity      decimal.Decimal
	Value         decimal.Decimal
	Cost          decimal.Decimal
	AvgCost       decimal.Decimal
	GainLoss      decimal.Decimal
	GainLossPct   decimal.Decimal
	Applicable    bool
	Income        decimal.Decimal
	IncomePerUnit decimal.Decimal
	Accounts      int
	Price         decimal.NullDecimal
	Positions     []models.Position
}

func (t *tally) finish() summary {
	s := summary{
		Quantity:      t.quantity,
		Value:         t.value,
		Cost:          t.cost,
		AvgCost:       SafeDiv(t.cost, t.quantity),
		GainLoss:      decimal.Zero,
		GainLossPct:   decimal.Zero,
		Applicable:    t.assetType.Rules().GainLoss,
		Income:        t.income,
		IncomePerUnit: SafeDiv(t.income, t.quantity),
		Accounts:      len(t.accounts),
		Price:         t.price,
		Positions:     t.positions,
	}
	if s.Applicable {
		s.GainLoss = t.value.Sub(t.cost)
		s.GainLossPct = GainPercent(s.GainLoss, t.cost)
	}
	return s
}
