package metrics_test

import (
	"testing"

	"github.com/kvcache-dev/kvcache/cache"
	"github.com/kvcache-dev/kvcache/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstrumentedEngine(t *testing.T) {
	t.Parallel()

	reg := metrics.New(metrics.WithNamespace("app"))
	inner := cache.New()
	ie := metrics.NewInstrumentedEngine(reg, "sessions", inner)

	assert.NotNil(t, ie)
	assert.NotNil(t, ie.Metrics)

	families := collectMetricFamilies(t, reg)
	assert.NotNil(t, findFamily(families, "app_sessions_hits_total"))
	assert.NotNil(t, findFamily(families, "app_sessions_misses_total"))
	assert.NotNil(t, findFamily(families, "app_sessions_sets_total"))
	assert.NotNil(t, findFamily(families, "app_sessions_deletes_total"))
	assert.NotNil(t, findFamily(families, "app_sessions_evictions_total"))
	assert.NotNil(t, findFamily(families, "app_sessions_size"))
	assert.NotNil(t, findFamily(families, "app_sessions_operation_duration_seconds"))
}

func TestInstrumentedEngineGetHitMiss(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		seed          map[string]int
		lookups       []string
		expectedHits  float64
		expectedMiss  float64
		expectedRatio float64
	}{
		{
			name:          "all hits",
			seed:          map[string]int{"a": 1, "b": 2},
			lookups:       []string{"a", "b", "a"},
			expectedHits:  3,
			expectedMiss:  0,
			expectedRatio: 1.0,
		},
		{
			name:          "all misses",
			seed:          map[string]int{},
			lookups:       []string{"x", "y"},
			expectedHits:  0,
			expectedMiss:  2,
			expectedRatio: 0.0,
		},
		{
			name:          "mixed",
			seed:          map[string]int{"a": 1},
			lookups:       []string{"a", "b"},
			expectedHits:  1,
			expectedMiss:  1,
			expectedRatio: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := metrics.New()
			inner := cache.New()

			for key, val := range tt.seed {
				inner.Set(key, val, cache.TTLOption{})
			}

			ie := metrics.NewInstrumentedEngine(reg, "c", inner)

			for _, key := range tt.lookups {
				ie.Get(key)
			}

			assert.InDelta(t, tt.expectedRatio, ie.Metrics.HitRatio(), 0.001)

			families := collectMetricFamilies(t, reg)

			if tt.expectedHits > 0 {
				hitsFam := findFamily(families, "c_hits_total")
				require.NotNil(t, hitsFam)
				assert.InDelta(t, tt.expectedHits, hitsFam.GetMetric()[0].GetCounter().GetValue(), 0.001)
			}

			if tt.expectedMiss > 0 {
				missFam := findFamily(families, "c_misses_total")
				require.NotNil(t, missFam)
				assert.InDelta(t, tt.expectedMiss, missFam.GetMetric()[0].GetCounter().GetValue(), 0.001)
			}

			histFam := findFamily(families, "c_operation_duration_seconds")
			require.NotNil(t, histFam)
			assert.Equal(t,
				uint64(len(tt.lookups)),
				histFam.GetMetric()[0].GetHistogram().GetSampleCount(),
			)
		})
	}
}

func TestInstrumentedEngineSetUpdatesSize(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	inner := cache.New()
	ie := metrics.NewInstrumentedEngine(reg, "store", inner)

	ie.Set("a", "1", cache.TTLOption{})
	ie.Set("b", "2", cache.TTLOption{})
	ie.Set("c", "3", cache.TTLOption{})

	assert.Equal(t, 3, ie.Size())

	families := collectMetricFamilies(t, reg)

	setsFam := findFamily(families, "store_sets_total")
	require.NotNil(t, setsFam)
	assert.InDelta(t, 3.0, setsFam.GetMetric()[0].GetCounter().GetValue(), 0.001)

	sizeFam := findFamily(families, "store_size")
	require.NotNil(t, sizeFam)
	assert.InDelta(t, 3.0, sizeFam.GetMetric()[0].GetGauge().GetValue(), 0.001)
}

func TestInstrumentedEngineDelete(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	inner := cache.New()
	inner.Set("a", 1, cache.TTLOption{})
	inner.Set("b", 2, cache.TTLOption{})

	ie := metrics.NewInstrumentedEngine(reg, "del", inner)

	ie.Delete("a")

	assert.Equal(t, 1, ie.Size())

	families := collectMetricFamilies(t, reg)

	delFam := findFamily(families, "del_deletes_total")
	require.NotNil(t, delFam)
	assert.InDelta(t, 1.0, delFam.GetMetric()[0].GetCounter().GetValue(), 0.001)

	sizeFam := findFamily(families, "del_size")
	require.NotNil(t, sizeFam)
	assert.InDelta(t, 1.0, sizeFam.GetMetric()[0].GetGauge().GetValue(), 0.001)
}

func TestInstrumentedEngineClear(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	inner := cache.New()
	inner.Set("a", 1, cache.TTLOption{})
	inner.Set("b", 2, cache.TTLOption{})

	ie := metrics.NewInstrumentedEngine(reg, "clr", inner)
	ie.Clear()

	assert.Equal(t, 0, ie.Size())

	families := collectMetricFamilies(t, reg)
	sizeFam := findFamily(families, "clr_size")
	require.NotNil(t, sizeFam)
	assert.InDelta(t, 0.0, sizeFam.GetMetric()[0].GetGauge().GetValue(), 0.001)
}

func TestInstrumentedEngineEvictionsSurfaceFromSet(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	inner := cache.New(cache.WithMaxKeys(2))
	ie := metrics.NewInstrumentedEngine(reg, "evict", inner)

	ie.Set("a", 1, cache.TTLOption{})
	ie.Set("b", 2, cache.TTLOption{})
	ie.Set("c", 3, cache.TTLOption{}) // evicts "a" under default LRU

	families := collectMetricFamilies(t, reg)
	evictFam := findFamily(families, "evict_evictions_total")
	require.NotNil(t, evictFam)
	assert.InDelta(t, 1.0, evictFam.GetMetric()[0].GetCounter().GetValue(), 0.001)
}

func TestInstrumentedEngineWithCustomBuckets(t *testing.T) {
	t.Parallel()

	customBuckets := []float64{0.001, 0.01, 0.1}
	reg := metrics.New()
	inner := cache.New()
	ie := metrics.NewInstrumentedEngine(reg, "custom", inner,
		metrics.WithCacheBuckets(customBuckets),
	)

	ie.Set("a", 1, cache.TTLOption{})
	ie.Get("a")

	families := collectMetricFamilies(t, reg)
	histFam := findFamily(families, "custom_operation_duration_seconds")
	require.NotNil(t, histFam)

	hist := histFam.GetMetric()[0].GetHistogram()
	assert.Len(t, hist.GetBucket(), len(customBuckets))
}

func TestInstrumentedEngineHitRatioNoLookups(t *testing.T) {
	t.Parallel()

	reg := metrics.New()
	inner := cache.New()
	ie := metrics.NewInstrumentedEngine(reg, "empty", inner)

	assert.InDelta(t, 0.0, ie.Metrics.HitRatio(), 0.001)
}
