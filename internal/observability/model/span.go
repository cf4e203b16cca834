package model

import "time"

type TraceType string

const (
	TraceTypeInvocation TraceType = "INVOCATION"
	TraceTypeAnnotation TraceType = "ANNOTATION"
	TraceTypeUndefined  TraceType = "UNDEFINED"
)

const DefaultTraceType = TraceTypeInvocation

type SpanType string

const (
	SpanTypeAgent      SpanType = "AGENT"
	SpanTypeChain      SpanType = "CHAIN"
	SpanTypeWorkflow   SpanType = "WORKFLOW"
	SpanTypeTask       SpanType = "TASK"
	SpanTypeTool       SpanType = "TOOL"
	SpanTypeEmbedding  SpanType = "EMBEDDING"
	SpanTypeQuery      SpanType = "QUERY"
	SpanTypeCompletion SpanType = "COMPLETION"
	SpanTypeChat       SpanType = "CHAT"
	SpanTypeRerank     SpanType = "RERANK"
	SpanTypeUndefined  SpanType = "UNDEFINED"
)

const DefaultSpanType = SpanTypeTask

type StatusCode string

const (
	StatusCodeUnset StatusCode = "UNSET"
	StatusCodeOk    StatusCode = "OK"
	StatusCodeError StatusCode = "ERROR"
)

// ReferenceKey is the closed vocabulary of relation names a span may point
// to. Unknown keys are dropped during normalization rather than preserved,
// since references are strictly typed downstream.
type ReferenceKey string

const (
	RefTestset             ReferenceKey = "testset"
	RefTestsetVariant      ReferenceKey = "testset_variant"
	RefTestsetRevision     ReferenceKey = "testset_revision"
	RefTestcase            ReferenceKey = "testcase"
	RefWorkflow            ReferenceKey = "workflow"
	RefWorkflowVariant     ReferenceKey = "workflow_variant"
	RefWorkflowRevision    ReferenceKey = "workflow_revision"
	RefApplication         ReferenceKey = "application"
	RefApplicationVariant  ReferenceKey = "application_variant"
	RefApplicationRevision ReferenceKey = "application_revision"
	RefEvaluator           ReferenceKey = "evaluator"
	RefEvaluatorVariant    ReferenceKey = "evaluator_variant"
	RefEvaluatorRevision   ReferenceKey = "evaluator_revision"
	RefEnvironment         ReferenceKey = "environment"
	RefEnvironmentVariant  ReferenceKey = "environment_variant"
	RefEnvironmentRevision ReferenceKey = "environment_revision"
)

var referenceKeys = map[ReferenceKey]bool{
	RefTestset:             true,
	RefTestsetVariant:      true,
	RefTestsetRevision:     true,
	RefTestcase:            true,
	RefWorkflow:            true,
	RefWorkflowVariant:     true,
	RefWorkflowRevision:    true,
	RefApplication:         true,
	RefApplicationVariant:  true,
	RefApplicationRevision: true,
	RefEvaluator:           true,
	RefEvaluatorVariant:    true,
	RefEvaluatorRevision:   true,
	RefEnvironment:         true,
	RefEnvironmentVariant:  true,
	RefEnvironmentRevision: true,
}

func IsReferenceKey(key string) bool {
	return referenceKeys[ReferenceKey(key)]
}

// Reference is a lightweight pointer from a span to an external entity.
type Reference struct {
	Id      string `json:"id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Version string `json:"version,omitempty"`
}

type SpanEvent struct {
	Name       string                 `json:"name"`
	Timestamp  time.Time              `json:"timestamp"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// SpanException is derived from the first event named "exception"; the
// remaining exception attributes are retained alongside the extracted fields.
type SpanException struct {
	Message    string                 `json:"message,omitempty"`
	Type       string                 `json:"type,omitempty"`
	Stacktrace string                 `json:"stacktrace,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

type SpanLink struct {
	TraceID string `json:"trace_id"`
	SpanID  string `json:"span_id"`
	Type    string `json:"type,omitempty"`
}

// Attributes is the namespaced structured payload of a span. Anything that
// does not match the known schema is preserved under Unsupported so that
// codec round-trips stay non-destructive.
type Attributes struct {
	Data        map[string]interface{} `json:"data,omitempty"`
	Metrics     map[string]interface{} `json:"metrics,omitempty"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
	Tags        map[string]string      `json:"tags,omitempty"`
	Unsupported map[string]interface{} `json:"unsupported,omitempty"`
}

type Span struct {
	Id            string                     `json:"_id,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
	TraceID       string                     `json:"trace_id"`
	SpanID        string                     `json:"span_id"`
	ParentID      string                     `json:"parent_id,omitempty"`
	TraceType     TraceType                  `json:"trace_type"`
	SpanType      SpanType                   `json:"span_type"`
	Name          string                     `json:"name"`
	Kind          string                     `json:"kind,omitempty"`
	StartTime     time.Time                  `json:"start_time"`
	EndTime       time.Time                  `json:"end_time"`
	StatusCode    StatusCode                 `json:"status_code"`
	StatusMessage string                     `json:"status_message,omitempty"`
	Attributes    Attributes                 `json:"attributes"`
	Events        []SpanEvent                `json:"events,omitempty"`
	Exception     *SpanException             `json:"exception,omitempty"`
	Links         []SpanLink                 `json:"links,omitempty"`
	References    map[ReferenceKey]Reference `json:"references,omitempty"`
	Hash          string                     `json:"hash,omitempty"`
}

func ParseTraceType(value string) TraceType {
	switch TraceType(value) {
	case TraceTypeInvocation, TraceTypeAnnotation, TraceTypeUndefined:
		return TraceType(value)
	default:
		return DefaultTraceType
	}
}

func ParseSpanType(value string) SpanType {
	switch SpanType(value) {
	case SpanTypeAgent, SpanTypeChain, SpanTypeWorkflow, SpanTypeTask, SpanTypeTool,
		SpanTypeEmbedding, SpanTypeQuery, SpanTypeCompletion, SpanTypeChat,
		SpanTypeRerank, SpanTypeUndefined:
		return SpanType(value)
	default:
		return DefaultSpanType
	}
}
