package analytics

import (
	"fmt"

	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
)

const (
	durationMetricPath = "attributes.metrics.duration.incremental"
	costMetricPath     = "attributes.metrics.costs.incremental.total"
	tokensMetricPath   = "attributes.metrics.tokens.incremental.total"
)

func getAnalyticsQuery(
	filter map[string]interface{},
	plan windowing.Plan,
) map[string]interface{} {
	mustClauses := []map[string]interface{}{
		{
			"range": map[string]interface{}{
				"start_time": map[string]interface{}{
					"gte": plan.Oldest,
					"lt":  plan.Newest,
				},
			},
		},
	}
	if filter != nil {
		mustClauses = append(mustClauses, filter)
	}

	histogram := map[string]interface{}{
		"date_histogram": map[string]interface{}{
			"field":          "start_time",
			"fixed_interval": fmt.Sprintf("%dm", plan.Stride),
			"offset":         histogramOffset(plan),
			"min_doc_count":  0,
		},
		"aggs": map[string]interface{}{
			"duration": map[string]interface{}{
				"sum": map[string]interface{}{
					"field": durationMetricPath,
				},
			},
			"cost": map[string]interface{}{
				"sum": map[string]interface{}{
					"field": costMetricPath,
				},
			},
			"tokens": map[string]interface{}{
				"sum": map[string]interface{}{
					"field": tokensMetricPath,
				},
			},
		},
	}

	return map[string]interface{}{
		"size": 0,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": mustClauses,
			},
		},
		"aggs": map[string]interface{}{
			"buckets": histogram,
			"errors": map[string]interface{}{
				"filter": map[string]interface{}{
					"exists": map[string]interface{}{
						"field": "exception",
					},
				},
				"aggs": map[string]interface{}{
					"buckets": histogram,
				},
			},
		},
	}
}

// histogramOffset shifts the histogram grid onto the resolved window start.
// Without it the backend keys buckets at epoch-aligned boundaries, which only
// line up with the planner's timestamps when the window start is a multiple
// of the stride.
func histogramOffset(plan windowing.Plan) string {
	strideMillis := int64(plan.Stride) * 60000
	offsetMillis := plan.Oldest.UnixMilli() % strideMillis
	if offsetMillis < 0 {
		offsetMillis += strideMillis
	}
	return fmt.Sprintf("%dms", offsetMillis)
}

func getCountQuery(
	filter map[string]interface{},
	plan windowing.Plan,
) map[string]interface{} {
	mustClauses := []map[string]interface{}{
		{
			"range": map[string]interface{}{
				"start_time": map[string]interface{}{
					"gte": plan.Oldest,
					"lt":  plan.Newest,
				},
			},
		},
	}
	if filter != nil {
		mustClauses = append(mustClauses, filter)
	}
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": mustClauses,
			},
		},
	}
}
