package model

import "time"

// RawSpan is a span as delivered by an OpenTelemetry-compatible exporter,
// prior to normalization: wire-format identifiers, a flat dot-keyed
// attribute bag, and optionally embedded child spans.
type RawSpan struct {
	TraceID       string                 `json:"trace_id"`
	SpanID        string                 `json:"span_id"`
	ParentID      string                 `json:"parent_id,omitempty"`
	Name          string                 `json:"name"`
	Kind          string                 `json:"kind,omitempty"`
	StartTime     time.Time              `json:"start_time"`
	EndTime       time.Time              `json:"end_time"`
	StatusCode    StatusCode             `json:"status_code"`
	StatusMessage string                 `json:"status_message,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Events        []RawSpanEvent         `json:"events,omitempty"`
	Links         []RawSpanLink          `json:"links,omitempty"`
	Spans         []RawSpan              `json:"spans,omitempty"`
}

type RawSpanEvent struct {
	Name       string                 `json:"name"`
	Timestamp  time.Time              `json:"timestamp"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type RawSpanLink struct {
	TraceID    string                 `json:"trace_id"`
	SpanID     string                 `json:"span_id"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}
