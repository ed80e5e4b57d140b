package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trogers1052/portfolio-rollup/internal/models"
	"github.com/trogers1052/portfolio-rollup/internal/rollup"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	gets    int
	sets    int
	failGet error
	failSet error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memoryStore) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.failGet != nil {
		return redis.NewStringResult("", m.failGet)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSet != nil {
		return redis.NewStatusResult("", m.failSet)
	}
	m.data[key] = string(value.([]byte))
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func testPositions() []models.Position {
	return []models.Position{
		{AccountID: "1", AccountName: "Brokerage", AssetType: models.AssetTypeSecurity, Identifier: "AAPL", Quantity: decimal.NewFromInt(10), CurrentValue: decimal.NewFromInt(1500), TotalCostBasis: decimal.NewFromInt(1000)},
		{AccountID: "2", AccountName: "IRA", AssetType: models.AssetTypeSecurity, Identifier: "AAPL", Quantity: decimal.NewFromInt(5), CurrentValue: decimal.NewFromInt(750), TotalCostBasis: decimal.NewFromInt(600)},
		{AccountID: "1", AccountName: "Brokerage", AssetType: models.AssetTypeCash, Identifier: "USD", Quantity: decimal.NewFromInt(1), CurrentValue: decimal.NewFromInt(5000), TotalCostBasis: decimal.NewFromInt(5000), DividendRate: decimal.NewFromInt(2)},
	}
}

func TestDashboardCache_MemoizesWithoutChangingResults(t *testing.T) {
	store := newMemoryStore()
	c := NewDashboardCache(store, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))
	state := rollup.DefaultViewState().Select("security:AAPL")

	fresh := rollup.BuildDashboard(testPositions(), state)
	first := c.Dashboard(context.Background(), testPositions(), state)
	second := c.Dashboard(context.Background(), testPositions(), state)

	assert.Equal(t, 2, store.gets)
	assert.Equal(t, 1, store.sets)

	for _, dash := range []rollup.Dashboard{first, second} {
		require.Len(t, dash.Groups, len(fresh.Groups))
		for i := range fresh.Groups {
			assert.Equal(t, fresh.Groups[i].Key, dash.Groups[i].Key)
			assert.True(t, fresh.Groups[i].TotalValue.Equal(dash.Groups[i].TotalValue))
			assert.True(t, fresh.Groups[i].PercentOfPortfolio.Equal(dash.Groups[i].PercentOfPortfolio))
		}
		assert.True(t, fresh.Totals.TotalValue.Equal(dash.Totals.TotalValue))
		require.NotNil(t, dash.Detail)
		assert.Len(t, dash.Detail.Accounts, 2)
		assert.Equal(t, state, dash.State)
	}

	for _, ttl := range store.ttls {
		assert.Equal(t, time.Minute, ttl)
	}
}

func TestDashboardCache_FallsBackOnStoreErrors(t *testing.T) {
	store := newMemoryStore()
	store.failGet = errors.New("connection refused")
	store.failSet = errors.New("connection refused")
	c := NewDashboardCache(store, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))

	dash := c.Dashboard(context.Background(), testPositions(), rollup.DefaultViewState())
	require.Len(t, dash.Groups, 2)
	assert.True(t, decimal.NewFromInt(7250).Equal(dash.Totals.TotalValue))
}

func TestDashboardCache_DiscardsCorruptEntries(t *testing.T) {
	store := newMemoryStore()
	c := NewDashboardCache(store, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))
	state := rollup.DefaultViewState()

	key, err := Key(testPositions(), state)
	require.NoError(t, err)
	store.data[key] = "{garbage"

	dash := c.Dashboard(context.Background(), testPositions(), state)
	require.Len(t, dash.Groups, 2)
	assert.Equal(t, 1, store.sets)
}

func TestDashboardCache_NilStoreComputesDirectly(t *testing.T) {
	c := NewDashboardCache(nil, time.Minute, zerolog.New(nil).Level(zerolog.Disabled))
	dash := c.Dashboard(context.Background(), testPositions(), rollup.DefaultViewState())
	assert.Len(t, dash.Groups, 2)

	var nilCache *DashboardCache
	assert.Len(t, nilCache.Dashboard(context.Background(), testPositions(), rollup.DefaultViewState()).Groups, 2)
}

func TestKey(t *testing.T) {
	state := rollup.DefaultViewState()

	a, err := Key(testPositions(), state)
	require.NoError(t, err)
	b, err := Key(testPositions(), state)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a, keyPrefix)

	c, err := Key(testPositions(), state.WithSearch("aapl"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	changed := testPositions()
	changed[0].CurrentValue = decimal.NewFromInt(1501)
	d, err := Key(changed, state)
	require.NoError(t, err)
	assert.NotEqual(t, a, d)
}
