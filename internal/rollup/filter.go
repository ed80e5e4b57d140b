package rollup

import (
	"strings"

	"github.com/trogers1052/portfolio-rollup/internal/models"
)

// FilterAll is the sentinel that disables the account and asset type filters
const FilterAll = "all"

// Filter selects positions before grouping. Empty fields match everything.
type Filter struct {
	Search    string
	AccountID string
	AssetType string
}

// FilterPositions returns the positions matching every criterion of f.
// Filtering runs on raw positions, so a group whose only matching account is
// filtered out disappears instead of showing up empty.
func FilterPositions(positions []models.Position, f Filter) []models.Position {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	accountID := strings.TrimSpace(f.AccountID)
	assetType := strings.TrimSpace(f.AssetType)

	out := make([]models.Position, 0, len(positions))
	for _, p := range positions {
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if !isUnfiltered(accountID) && p.AccountID != accountID {
			continue
		}
		if !isUnfiltered(assetType) && p.AssetType != models.ParseAssetType(assetType) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p models.Position, search string) bool {
	return strings.Contains(strings.ToLower(p.Identifier), search) ||
		strings.Contains(strings.ToLower(p.Name), search)
}

func isUnfiltered(v string) bool {
	return v == "" || strings.EqualFold(v, FilterAll)
}
