package analytics

import (
	"testing"
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
	"github.com/stretchr/testify/assert"
)

func TestGetAnalyticsQuery(t *testing.T) {
	t.Run("Aligns the histogram grid to a window start off the stride grid", func(t *testing.T) {
		oldest := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
		plan := windowing.Plan{
			Oldest: oldest,
			Newest: oldest.Add(6 * time.Hour),
			Stride: 60,
		}

		histogram := getHistogramAggregation(t, getAnalyticsQuery(nil, plan))
		assert.Equal(t, "60m", histogram["fixed_interval"])
		assert.Equal(t, "1800000ms", histogram["offset"])
	})

	t.Run("Emits a zero offset for a stride-aligned window start", func(t *testing.T) {
		oldest := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		plan := windowing.Plan{
			Oldest: oldest,
			Newest: oldest.AddDate(0, 0, 30),
			Stride: 1440,
		}

		histogram := getHistogramAggregation(t, getAnalyticsQuery(nil, plan))
		assert.Equal(t, "1440m", histogram["fixed_interval"])
		assert.Equal(t, "0ms", histogram["offset"])
	})

	t.Run("Keys merged buckets on the offset grid", func(t *testing.T) {
		oldest := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
		plan := windowing.Plan{
			Oldest: oldest,
			Newest: oldest.Add(3 * time.Hour),
			Stride: 60,
			Timestamps: []time.Time{
				oldest,
				oldest.Add(time.Hour),
				oldest.Add(2 * time.Hour),
			},
		}

		histogram := getHistogramAggregation(t, getAnalyticsQuery(nil, plan))
		strideMillis := int64(plan.Stride) * 60000
		assert.Equal(t, "1800000ms", histogram["offset"])
		for _, timestamp := range plan.Timestamps {
			// With the offset applied, every bucket key the backend returns
			// for this grid is congruent to the window start modulo the
			// stride, so the merger's exact-key lookup hits.
			assert.Equal(t, int64(1800000), timestamp.UnixMilli()%strideMillis)
		}
	})
}

func getHistogramAggregation(t *testing.T, query map[string]interface{}) map[string]interface{} {
	t.Helper()
	aggs, ok := query["aggs"].(map[string]interface{})
	assert.True(t, ok)
	buckets, ok := aggs["buckets"].(map[string]interface{})
	assert.True(t, ok)
	histogram, ok := buckets["date_histogram"].(map[string]interface{})
	assert.True(t, ok)
	return histogram
}
