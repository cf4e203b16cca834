package handler

import (
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/spans"
)

// QueryResponseDTO represents the response to a span query: either a flat
// span list or the reconstructed trace trees, plus the returned count.
// @swagger:model QueryResponseDTO
type QueryResponseDTO struct {
	// The flat span list, null when trace formatting was requested
	Spans []model.Span `json:"spans,omitempty"`
	// The reconstructed trace trees, null for flat formatting
	Traces []spans.TraceTree `json:"traces,omitempty"`
	// The number of spans or traces returned
	Count int `json:"count"`
}

// AnalyticsBucketDTO represents one bucket of the analytics series
// @swagger:model AnalyticsBucketDTO
type AnalyticsBucketDTO struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int64     `json:"count"`
	Errors    int64     `json:"errors"`
	Duration  float64   `json:"duration"`
	Cost      float64   `json:"cost"`
	Tokens    float64   `json:"tokens"`
}

// AnalyticsResponseDTO represents the response to an analytics request
// @swagger:model AnalyticsResponseDTO
type AnalyticsResponseDTO struct {
	// The zero-filled bucket series covering the resolved window
	Buckets []AnalyticsBucketDTO `json:"buckets"`
	// The total number of spans matched across the whole window
	Count int64 `json:"count"`
}
