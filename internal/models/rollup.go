package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetGroup aggregates all positions sharing an asset identity across accounts
type AssetGroup struct {
	Key                   string              `json:"key"`
	AssetType             AssetType           `json:"asset_type"`
	Identifier            string              `json:"identifier"`
	Name                  string              `json:"name,omitempty"`
	TotalQuantity         decimal.Decimal     `json:"total_quantity"`
	TotalValue            decimal.Decimal     `json:"total_value"`
	TotalCostBasis        decimal.Decimal     `json:"total_cost_basis"`
	AvgCostBasisPerUnit   decimal.Decimal     `json:"avg_cost_basis_per_unit"`
	TotalGainLoss         decimal.Decimal     `json:"total_gain_loss"`
	TotalGainLossPercent  decimal.Decimal     `json:"total_gain_loss_percent"`
	GainLossApplicable    bool                `json:"gain_loss_applicable"`
	EstimatedAnnualIncome decimal.Decimal     `json:"estimated_annual_income"`
	IncomePerUnit         decimal.Decimal     `json:"income_per_unit"`
	AccountsCount         int                 `json:"accounts_count"`
	CurrentPricePerUnit   decimal.NullDecimal `json:"current_price_per_unit"`
	PercentOfPortfolio    decimal.Decimal     `json:"percent_of_portfolio"`
	Positions             []Position          `json:"positions"`
}

// PortfolioTotals holds portfolio-wide sums for one filtered view
type PortfolioTotals struct {
	TotalValue            decimal.Decimal `json:"total_value"`
	TotalCostBasis        decimal.Decimal `json:"total_cost_basis"`
	TotalGainLoss         decimal.Decimal `json:"total_gain_loss"`
	TotalGainLossPercent  decimal.Decimal `json:"total_gain_loss_percent"`
	EstimatedAnnualIncome decimal.Decimal `json:"estimated_annual_income"`
	LiquidValue           decimal.Decimal `json:"liquid_value"`
	IlliquidValue         decimal.Decimal `json:"illiquid_value"`
	GroupCount            int             `json:"group_count"`
	PositionCount         int             `json:"position_count"`
}

// AccountDetail is one account's share of a single asset group
type AccountDetail struct {
	AccountID            string          `json:"account_id"`
	AccountName          string          `json:"account_name"`
	Institution          string          `json:"institution,omitempty"`
	TotalQuantity        decimal.Decimal `json:"total_quantity"`
	TotalValue           decimal.Decimal `json:"total_value"`
	TotalCostBasis       decimal.Decimal `json:"total_cost_basis"`
	TotalGainLoss        decimal.Decimal `json:"total_gain_loss"`
	TotalGainLossPercent decimal.Decimal `json:"total_gain_loss_percent"`
	GainLossApplicable   bool            `json:"gain_loss_applicable"`
	Positions            []Position      `json:"positions"`
}

// TotalsEvent is published after a positions snapshot has been applied
type TotalsEvent struct {
	EventType string          `json:"event_type"`
	Source    string          `json:"source,omitempty"`
	AccountID string          `json:"account_id,omitempty"`
	Totals    PortfolioTotals `json:"totals"`
	Timestamp time.Time       `json:"timestamp"`
}
