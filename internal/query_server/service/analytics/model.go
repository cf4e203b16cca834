package analytics

import (
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
)

type AnalyticsParams struct {
	Windowing windowing.Windowing  `json:"windowing,omitempty"`
	Filtering *filtering.Filtering `json:"filtering,omitempty"`
}

// AnalyticsBucket is one bucket of the series: aggregates for one stride of
// the resolved window, zero-valued when no span fell into it.
type AnalyticsBucket struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int64     `json:"count"`
	Errors    int64     `json:"errors"`
	Duration  float64   `json:"duration"`
	Cost      float64   `json:"cost"`
	Tokens    float64   `json:"tokens"`
}

type AnalyticsResult struct {
	Buckets    []AnalyticsBucket `json:"buckets"`
	TotalCount int64             `json:"total_count"`
}
