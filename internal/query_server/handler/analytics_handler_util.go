package handler

import (
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/analytics"
)

func convertAnalyticsResultToDTO(result analytics.AnalyticsResult) AnalyticsResponseDTO {
	buckets := make([]AnalyticsBucketDTO, len(result.Buckets))
	for i, bucket := range result.Buckets {
		buckets[i] = AnalyticsBucketDTO{
			Timestamp: bucket.Timestamp,
			Count:     bucket.Count,
			Errors:    bucket.Errors,
			Duration:  bucket.Duration,
			Cost:      bucket.Cost,
			Tokens:    bucket.Tokens,
		}
	}
	return AnalyticsResponseDTO{
		Buckets: buckets,
		Count:   result.TotalCount,
	}
}
