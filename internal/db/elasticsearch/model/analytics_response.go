package model

// Structs for parsing the bucketed analytics aggregation response
type EsAnalyticsResponse struct {
	Took         int                   `json:"took"`
	TimedOut     bool                  `json:"timed_out"`
	Hits         Hits                  `json:"hits"`
	Aggregations AnalyticsAggregations `json:"aggregations"`
}

type AnalyticsAggregations struct {
	Buckets HistogramAggregation `json:"buckets"`
	Errors  FilteredHistogram    `json:"errors"`
}

type FilteredHistogram struct {
	DocCount int64                `json:"doc_count"`
	Buckets  HistogramAggregation `json:"buckets"`
}

type HistogramAggregation struct {
	Buckets []HistogramBucket `json:"buckets"`
}

type HistogramBucket struct {
	Key         int64       `json:"key"`
	KeyAsString string      `json:"key_as_string"`
	DocCount    int64       `json:"doc_count"`
	Duration    MetricValue `json:"duration"`
	Cost        MetricValue `json:"cost"`
	Tokens      MetricValue `json:"tokens"`
}

type MetricValue struct {
	Value float64 `json:"value"`
}
