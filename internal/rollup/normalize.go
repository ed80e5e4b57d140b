package rollup

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/trogers1052/portfolio-rollup/internal/models"
)

// Normalize converts a loosely typed record into a Position.
//
// Numeric fields that are missing or unparseable become zero. Price and
// cost per unit stay null instead, since an absent value there renders as
// N/A rather than as a zero price. Normalize never fails; a malformed record
// becomes a zero-valued position.
func Normalize(raw models.RawPosition) models.Position {
	p := models.Position{
		AccountID:     coerceString(raw["account_id"]),
		AccountName:   coerceString(raw["account_name"]),
		Institution:   coerceString(raw["institution"]),
		AssetType:     models.ParseAssetType(coerceString(raw["asset_type"])),
		Name:          coerceString(raw["name"]),
		Quantity:      orZero(coerceDecimal(raw["quantity"])),
		DividendRate:  orZero(coerceDecimal(raw["dividend_rate"])),
		DividendYield: orZero(coerceDecimal(raw["dividend_yield"])),
		PurchaseDate:  coerceDate(raw["purchase_date"]),
	}
	p.ID = int(orZero(coerceDecimal(raw["id"])).IntPart())

	p.Identifier = firstNonEmpty(
		coerceString(raw["identifier"]),
		coerceString(raw["symbol"]),
		coerceString(raw["ticker"]),
		p.Name,
	)

	p.CurrentPricePerUnit = coerceDecimal(raw["current_price_per_unit"])
	if !p.CurrentPricePerUnit.Valid {
		p.CurrentPricePerUnit = coerceDecimal(raw["current_price"])
	}
	p.CostPerUnit = coerceDecimal(raw["cost_per_unit"])

	if v := coerceDecimal(raw["current_value"]); v.Valid {
		p.CurrentValue = v.Decimal
	} else if p.CurrentPricePerUnit.Valid {
		p.CurrentValue = p.Quantity.Mul(p.CurrentPricePerUnit.Decimal)
	} else {
		p.CurrentValue = decimal.Zero
	}

	if c := coerceDecimal(raw["total_cost_basis"]); c.Valid {
		p.TotalCostBasis = c.Decimal
	} else if p.CostPerUnit.Valid {
		p.TotalCostBasis = p.Quantity.Mul(p.CostPerUnit.Decimal)
	} else {
		p.TotalCostBasis = decimal.Zero
	}

	return p
}

// NormalizeAll normalizes a batch of records. One bad record never drops
// the others.
func NormalizeAll(raws []models.RawPosition) []models.Position {
	positions := make([]models.Position, 0, len(raws))
	for _, raw := range raws {
		positions = append(positions, Normalize(raw))
	}
	return positions
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Amounts outside these bounds are treated as malformed. An exponent such
// as 1e50000000 would otherwise make every later Add or Cmp rescale to a
// huge coefficient.
const (
	maxScale  = 30
	maxDigits = 40
)

func coerceDecimal(v interface{}) decimal.NullDecimal {
	d := decodeDecimal(v)
	if d.Valid && !inRange(d.Decimal) {
		return decimal.NullDecimal{}
	}
	return d
}

func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxScale || exp > maxScale {
		return false
	}
	return d.NumDigits() <= maxDigits
}

func decodeDecimal(v interface{}) decimal.NullDecimal {
	switch x := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case decimal.Decimal:
		return decimal.NewNullDecimal(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(x))
	case float32:
		return decodeDecimal(float64(x))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(x)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(x))
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	default:
		return decimal.NullDecimal{}
	}
}

// parseDecimal accepts plain numbers with optional thousands separators
// and a leading currency sign
func parseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func coerceString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

func coerceDate(v interface{}) *time.Time {
	s := coerceString(v)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
