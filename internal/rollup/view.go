package rollup

import "github.com/trogers1052/portfolio-rollup/internal/models"

// ViewState is the complete filter, sort and selection state of a dashboard
// view. It is a value: every transition returns a new state.
type ViewState struct {
	Search           string    `json:"search"`
	AccountFilter    string    `json:"account_filter"`
	AssetTypeFilter  string    `json:"asset_type_filter"`
	SortKey          string    `json:"sort_key"`
	SelectedGroupKey string    `json:"selected_group_key,omitempty"`
	DetailSortKey    string    `json:"detail_sort_key,omitempty"`
	DetailSortOrder  SortOrder `json:"detail_sort_order,omitempty"`
}

// DefaultViewState is an unfiltered, collapsed view sorted by value
func DefaultViewState() ViewState {
	return ViewState{
		AccountFilter:   FilterAll,
		AssetTypeFilter: FilterAll,
		SortKey:         DefaultSortKey,
	}
}

// Expanded reports whether a group is selected
func (s ViewState) Expanded() bool {
	return s.SelectedGroupKey != ""
}

// Filter returns the position filter described by the state
func (s ViewState) Filter() Filter {
	return Filter{
		Search:    s.Search,
		AccountID: s.AccountFilter,
		AssetType: s.AssetTypeFilter,
	}
}

func (s ViewState) WithSearch(search string) ViewState {
	s.Search = search
	return s
}

func (s ViewState) WithAccountFilter(accountID string) ViewState {
	s.AccountFilter = accountID
	return s
}

func (s ViewState) WithAssetTypeFilter(assetType string) ViewState {
	s.AssetTypeFilter = assetType
	return s
}

func (s ViewState) WithSort(key string) ViewState {
	s.SortKey = key
	return s
}

// Select expands key. Selecting a group other than the current one resets
// the drill-down sort to value descending.
func (s ViewState) Select(key string) ViewState {
	if key == "" {
		return s.Collapse()
	}
	if key != s.SelectedGroupKey {
		s.DetailSortKey = DefaultDetailSortKey
		s.DetailSortOrder = DefaultDetailSortOrder
	}
	s.SelectedGroupKey = key
	return s
}

// Collapse clears the selection and its sort state
func (s ViewState) Collapse() ViewState {
	s.SelectedGroupKey = ""
	s.DetailSortKey = ""
	s.DetailSortOrder = ""
	return s
}

// WithDetailSort sets the drill-down sort. It has no effect while collapsed.
func (s ViewState) WithDetailSort(key string, order SortOrder) ViewState {
	if !s.Expanded() {
		return s
	}
	s.DetailSortKey = key
	s.DetailSortOrder = order
	return s
}

// DrillDown is the expanded detail of the selected group
type DrillDown struct {
	Group    models.AssetGroup      `json:"group"`
	Accounts []models.AccountDetail `json:"accounts"`
}

// Dashboard is everything a view renders for one state
type Dashboard struct {
	Groups []models.AssetGroup    `json:"groups"`
	Totals models.PortfolioTotals `json:"totals"`
	Detail *DrillDown             `json:"detail,omitempty"`
	State  ViewState              `json:"state"`
}

// BuildDashboard runs the full pipeline for one view state: filter raw
// positions, group, derive totals and allocation, sort, and project the
// selected group. Detail is nil when collapsed or when the selected group
// has no positions left under the current filters.
func BuildDashboard(positions []models.Position, state ViewState) Dashboard {
	filtered := FilterPositions(positions, state.Filter())
	groups := GroupByIdentity(filtered)
	totals := ComputeTotals(groups)
	groups = SortGroups(WithAllocation(groups, totals), state.SortKey)

	dash := Dashboard{
		Groups: groups,
		Totals: totals,
		State:  state,
	}

	if !state.Expanded() {
		return dash
	}
	g, ok := FindGroup(groups, state.SelectedGroupKey)
	if !ok {
		return dash
	}
	key := state.DetailSortKey
	if key == "" {
		key = DefaultDetailSortKey
	}
	order := state.DetailSortOrder
	if order == "" {
		order = DefaultDetailSortOrder
	}
	dash.Detail = &DrillDown{
		Group:    g,
		Accounts: ProjectAccountDetail(g, key, order),
	}
	return dash
}

// FindGroup returns the group with the given key
func FindGroup(groups []models.AssetGroup, key string) (models.AssetGroup, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return models.AssetGroup{}, false
}
