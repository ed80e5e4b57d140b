package api

import (
	"net/http"
	"net/url"

	"github.com/trogers1052/portfolio-rollup/internal/rollup"
)

// viewStateFromQuery maps query parameters onto a ViewState:
// search, account, asset_type, sort, selected, detail_sort, detail_order
func viewStateFromQuery(r *http.Request) rollup.ViewState {
	q := r.URL.Query()

	state := rollup.DefaultViewState().
		WithSearch(q.Get("search")).
		WithAccountFilter(queryOr(q.Get("account"), rollup.FilterAll)).
		WithAssetTypeFilter(queryOr(q.Get("asset_type"), rollup.FilterAll)).
		WithSort(queryOr(q.Get("sort"), rollup.DefaultSortKey))

	if selected := q.Get("selected"); selected != "" {
		state = state.Select(selected)
		if hasAny(q, "detail_sort", "detail_order") {
			state = state.WithDetailSort(
				queryOr(q.Get("detail_sort"), rollup.DefaultDetailSortKey),
				rollup.ParseSortOrder(q.Get("detail_order")),
			)
		}
	}
	return state
}

func queryOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func hasAny(q url.Values, keys ...string) bool {
	for _, k := range keys {
		if q.Get(k) != "" {
			return true
		}
	}
	return false
}
