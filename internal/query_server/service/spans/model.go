package spans

import (
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
)

// Focus selects the granularity of the query result.
type Focus string

const (
	FocusTrace Focus = "trace"
	FocusSpan  Focus = "span"
)

// Format selects the shape of the query result.
type Format string

const (
	FormatAgenta        Format = "agenta"
	FormatOpenTelemetry Format = "opentelemetry"
)

type Formatting struct {
	Focus  Focus  `json:"focus,omitempty"`
	Format Format `json:"format,omitempty"`
}

type QueryParams struct {
	Formatting Formatting           `json:"formatting,omitempty"`
	Windowing  windowing.Windowing  `json:"windowing,omitempty"`
	Filtering  *filtering.Filtering `json:"filtering,omitempty"`
}

// SpanNode is a span with its children nested under their name keys.
type SpanNode struct {
	model.Span
	Spans map[string]*SpanNode `json:"spans,omitempty"`
}

// TraceTree exposes one trace as a nested structure rooted at its
// parentless spans.
type TraceTree struct {
	TraceID string               `json:"trace_id"`
	Spans   map[string]*SpanNode `json:"spans"`
}

// QueryResult carries either the flat span list or the nested trace trees,
// depending on the requested formatting.
type QueryResult struct {
	Spans  []model.Span `json:"spans,omitempty"`
	Traces []TraceTree  `json:"traces,omitempty"`
}
