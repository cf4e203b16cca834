package analytics

import (
	"time"

	esModel "github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/model"
)

// MergeBuckets folds the raw total and error aggregation rows into one
// ordered series covering every expected bucket timestamp exactly once,
// zero-filling the timestamps the backend returned no rows for.
func MergeBuckets(
	timestamps []time.Time,
	totalRows []esModel.HistogramBucket,
	errorRows []esModel.HistogramBucket,
) []AnalyticsBucket {
	totalsByKey := make(map[int64]esModel.HistogramBucket, len(totalRows))
	for _, row := range totalRows {
		totalsByKey[row.Key] = row
	}
	errorsByKey := make(map[int64]esModel.HistogramBucket, len(errorRows))
	for _, row := range errorRows {
		errorsByKey[row.Key] = row
	}

	buckets := make([]AnalyticsBucket, len(timestamps))
	for i, timestamp := range timestamps {
		key := timestamp.UnixMilli()
		bucket := AnalyticsBucket{Timestamp: timestamp}
		if row, ok := totalsByKey[key]; ok {
			bucket.Count = row.DocCount
			bucket.Duration = row.Duration.Value
			bucket.Cost = row.Cost.Value
			bucket.Tokens = row.Tokens.Value
		}
		if row, ok := errorsByKey[key]; ok {
			bucket.Errors = row.DocCount
		}
		buckets[i] = bucket
	}
	return buckets
}
