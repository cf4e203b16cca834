package analytics

import (
	"testing"
	"time"

	esModel "github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/model"
	"github.com/stretchr/testify/assert"
)

func TestMergeBuckets(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timestamps := []time.Time{
		base,
		base.Add(time.Hour),
		base.Add(2 * time.Hour),
	}

	t.Run("Merges matching rows and zero-fills the rest", func(t *testing.T) {
		totalRows := []esModel.HistogramBucket{
			{
				Key:      base.UnixMilli(),
				DocCount: 5,
				Duration: esModel.MetricValue{Value: 1250.0},
				Cost:     esModel.MetricValue{Value: 0.02},
				Tokens:   esModel.MetricValue{Value: 340.0},
			},
			{
				Key:      base.Add(2 * time.Hour).UnixMilli(),
				DocCount: 2,
				Duration: esModel.MetricValue{Value: 90.0},
			},
		}
		errorRows := []esModel.HistogramBucket{
			{Key: base.UnixMilli(), DocCount: 1},
		}

		buckets := MergeBuckets(timestamps, totalRows, errorRows)
		assert.Len(t, buckets, len(timestamps))

		assert.Equal(t, int64(5), buckets[0].Count)
		assert.Equal(t, int64(1), buckets[0].Errors)
		assert.Equal(t, 1250.0, buckets[0].Duration)
		assert.Equal(t, 0.02, buckets[0].Cost)
		assert.Equal(t, 340.0, buckets[0].Tokens)

		assert.Equal(t, AnalyticsBucket{Timestamp: timestamps[1]}, buckets[1])

		assert.Equal(t, int64(2), buckets[2].Count)
		assert.Equal(t, int64(0), buckets[2].Errors)
	})

	t.Run("Every expected timestamp appears exactly once", func(t *testing.T) {
		buckets := MergeBuckets(timestamps, nil, nil)
		assert.Len(t, buckets, len(timestamps))
		for i, bucket := range buckets {
			assert.Equal(t, timestamps[i], bucket.Timestamp)
			assert.Equal(t, int64(0), bucket.Count)
		}
	})

	t.Run("Ignores rows outside the expected list", func(t *testing.T) {
		totalRows := []esModel.HistogramBucket{
			{Key: base.Add(48 * time.Hour).UnixMilli(), DocCount: 9},
		}
		buckets := MergeBuckets(timestamps, totalRows, nil)
		for _, bucket := range buckets {
			assert.Equal(t, int64(0), bucket.Count)
		}
	})
}
