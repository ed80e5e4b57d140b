package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Position represents a single holding of one asset in one account
type Position struct {
	ID                  int                 `json:"id,omitempty"`
	AccountID           string              `json:"account_id"`
	AccountName         string              `json:"account_name"`
	Institution         string              `json:"institution,omitempty"`
	AssetType           AssetType           `json:"asset_type"`
	Identifier          string              `json:"identifier"`
	Name                string              `json:"name,omitempty"`
	Quantity            decimal.Decimal     `json:"quantity"`
	CurrentPricePerUnit decimal.NullDecimal `json:"current_price_per_unit"`
	CurrentValue        decimal.Decimal     `json:"current_value"`
	TotalCostBasis      decimal.Decimal     `json:"total_cost_basis"`
	CostPerUnit         decimal.NullDecimal `json:"cost_per_unit"`
	DividendRate        decimal.Decimal     `json:"dividend_rate,omitempty"`
	DividendYield       decimal.Decimal     `json:"dividend_yield,omitempty"`
	PurchaseDate        *time.Time          `json:"purchase_date,omitempty"`
	CreatedAt           time.Time           `json:"created_at,omitempty"`
	UpdatedAt           time.Time           `json:"updated_at,omitempty"`
}

// GroupKey returns the identity under which positions are grouped.
// Positions sharing an identifier but not an asset type never share a key.
func (p Position) GroupKey() string {
	return GroupKey(p.AssetType, p.Identifier)
}

// GroupKey builds "{asset_type}:{identifier}"
func GroupKey(t AssetType, identifier string) string {
	return string(t) + ":" + identifier
}

// RawPosition is a loosely typed position record as it arrives from a data
// source. Values may be numbers, numeric strings, or null.
type RawPosition map[string]interface{}

// PositionsEvent represents a Kafka message carrying a positions snapshot
type PositionsEvent struct {
	EventType string             `json:"event_type"`
	Source    string             `json:"source"`
	Timestamp string             `json:"timestamp"`
	Data      PositionsEventData `json:"data"`
}

// PositionsEventData contains the raw position records of a snapshot.
// When AccountID is set the snapshot replaces only that account's positions.
type PositionsEventData struct {
	AccountID AccountRef    `json:"account_id,omitempty"`
	Positions []RawPosition `json:"positions"`
}

// AccountRef is an account id that may arrive as a JSON string or number
type AccountRef string

// UnmarshalJSON accepts "7", 7 and null
func (a *AccountRef) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*a = ""
	case string:
		*a = AccountRef(strings.TrimSpace(x))
	case json.Number:
		*a = AccountRef(x.String())
	default:
		return fmt.Errorf("account id must be a string or number, got %s", data)
	}
	return nil
}
