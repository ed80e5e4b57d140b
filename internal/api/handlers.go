package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/trogers1052/portfolio-rollup/internal/cache"
	"github.com/trogers1052/portfolio-rollup/internal/models"
	"github.com/trogers1052/portfolio-rollup/internal/rollup"
)

// PositionStore defines the storage operations used by the handlers
type PositionStore interface {
	GetAllPositions() ([]models.Position, error)
	ReplaceAllPositions(positions []*models.Position) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store PositionStore
	cache *cache.DashboardCache
	log   zerolog.Logger
}

// NewHandler creates a new Handler. dashboards may be nil, in which case
// every request is computed directly.
func NewHandler(store PositionStore, dashboards *cache.DashboardCache, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		cache: dashboards,
		log:   log.With().Str("component", "api").Logger(),
	}
}

// GetPositions handles GET /positions
func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, ok := h.loadPositions(w)
	if !ok {
		return
	}

	state := viewStateFromQuery(r)
	filtered := rollup.FilterPositions(positions, state.Filter())
	respondJSON(w, http.StatusOK, rollup.SortPositions(filtered, state.SortKey))
}

// ReplacePositions handles POST /positions with a JSON array of raw records
func (h *Handler) ReplacePositions(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raws []models.RawPosition
	if err := dec.Decode(&raws); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	normalized := rollup.NormalizeAll(raws)
	positions := make([]*models.Position, len(normalized))
	for i := range normalized {
		positions[i] = &normalized[i]
	}

	if err := h.store.ReplaceAllPositions(positions); err != nil {
		h.log.Error().Err(err).Msg("Failed to replace positions")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.log.Info().Int("positions", len(positions)).Msg("Replaced positions")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"positions": len(positions),
		"totals":    rollup.ComputeTotals(rollup.GroupByIdentity(normalized)),
	})
}

// GetDashboard handles GET /dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.dashboard(w, r, viewStateFromQuery(r))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

// GetGroups handles GET /groups
func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.dashboard(w, r, viewStateFromQuery(r).Collapse())
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, dash.Groups)
}

// GetTotals handles GET /totals
func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	dash, ok := h.dashboard(w, r, viewStateFromQuery(r).Collapse())
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, dash.Totals)
}

// GetGroupAccounts handles GET /groups/{key}/accounts
func (h *Handler) GetGroupAccounts(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	q := r.URL.Query()

	// sort and order address the drill-down here, not the group list
	state := viewStateFromQuery(r).
		WithSort(rollup.DefaultSortKey).
		Select(key).
		WithDetailSort(queryOr(q.Get("sort"), rollup.DefaultDetailSortKey), rollup.ParseSortOrder(q.Get("order")))

	dash, ok := h.dashboard(w, r, state)
	if !ok {
		return
	}
	if dash.Detail == nil {
		http.Error(w, "group not found: "+key, http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, dash.Detail)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) loadPositions(w http.ResponseWriter) ([]models.Position, bool) {
	positions, err := h.store.GetAllPositions()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load positions")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return positions, true
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request, state rollup.ViewState) (rollup.Dashboard, bool) {
	positions, ok := h.loadPositions(w)
	if !ok {
		return rollup.Dashboard{}, false
	}
	return h.cache.Dashboard(r.Context(), positions, state), true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
