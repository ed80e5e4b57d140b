package models

import "strings"

// AssetType partitions positions into classes with their own metric rules
type AssetType string

// Asset type constants
const (
	AssetTypeSecurity   AssetType = "security"
	AssetTypeCash       AssetType = "cash"
	AssetTypeCrypto     AssetType = "crypto"
	AssetTypeMetal      AssetType = "metal"
	AssetTypeRealEstate AssetType = "real_estate"
	AssetTypeOther      AssetType = "other_asset"
	AssetTypeLiability  AssetType = "liability"
)

// IncomeRule selects which field of a position drives its annual income
type IncomeRule int

// Income rule constants
const (
	IncomeNone IncomeRule = iota
	// IncomeFromRate uses dividend_rate as a percentage of value (cash, interest-bearing)
	IncomeFromRate
	// IncomeFromYield uses dividend_yield as a percentage of value (securities)
	IncomeFromYield
)

// AssetRules describes how an asset type is treated by the rollup
type AssetRules struct {
	Income IncomeRule
	Liquid bool
	// GainLoss is false when gain/loss is reported as not applicable
	GainLoss bool
}

var assetRules = map[AssetType]AssetRules{
	AssetTypeSecurity:   {Income: IncomeFromYield, Liquid: true, GainLoss: true},
	AssetTypeCash:       {Income: IncomeFromRate, Liquid: true, GainLoss: false},
	AssetTypeCrypto:     {Income: IncomeNone, Liquid: true, GainLoss: true},
	AssetTypeMetal:      {Income: IncomeNone, Liquid: false, GainLoss: true},
	AssetTypeRealEstate: {Income: IncomeNone, Liquid: false, GainLoss: true},
	AssetTypeOther:      {Income: IncomeNone, Liquid: false, GainLoss: true},
	AssetTypeLiability:  {Income: IncomeNone, Liquid: false, GainLoss: true},
}

// ParseAssetType lower-cases and trims s. Empty input becomes other_asset.
// Unrecognized values are kept as-is so they still form their own groups.
func ParseAssetType(s string) AssetType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AssetTypeOther
	}
	return AssetType(s)
}

// Known reports whether t is one of the defined asset types
func (t AssetType) Known() bool {
	_, ok := assetRules[t]
	return ok
}

// Rules returns the dispatch entry for t, falling back to other_asset
func (t AssetType) Rules() AssetRules {
	if r, ok := assetRules[t]; ok {
		return r
	}
	return assetRules[AssetTypeOther]
}

// AllAssetTypes lists the defined asset types in display order
func AllAssetTypes() []AssetType {
	return []AssetType{
		AssetTypeSecurity,
		AssetTypeCash,
		AssetTypeCrypto,
		AssetTypeMetal,
		AssetTypeRealEstate,
		AssetTypeOther,
		AssetTypeLiability,
	}
}
