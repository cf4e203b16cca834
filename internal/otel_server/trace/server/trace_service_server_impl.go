package server

import (
	"context"
	"fmt"
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/observability/identifier"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/normalizer"
	"github.com/Agenta-AI/agenta-sub003/internal/pipeline/event_bus"
	ingestService "github.com/Agenta-AI/agenta-sub003/internal/pipeline/ingestion/service"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonV1 "go.opentelemetry.io/proto/otlp/common/v1"
	"go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
)

type TraceServiceServerImpl struct {
	protoTrace.UnimplementedTraceServiceServer
	normalizerService normalizer.NormalizerService
	ingestionBus      event_bus.AgentaEventBus[any, []model.Span]
	logger            *zap.Logger
}

func NewTraceServiceServerImpl(
	logger *zap.Logger,
	normalizerService normalizer.NormalizerService,
	ingestionBus event_bus.AgentaEventBus[any, []model.Span],
) TraceServiceServerImpl {
	logger.Info("Creating new TraceServiceServerImpl")
	return TraceServiceServerImpl{
		logger:            logger,
		normalizerService: normalizerService,
		ingestionBus:      ingestionBus,
	}
}

func (tss TraceServiceServerImpl) Export(
	ctx context.Context,
	req *protoTrace.ExportTraceServiceRequest,
) (*protoTrace.ExportTraceServiceResponse, error) {
	var rawSpans []model.RawSpan
	for _, resourceSpan := range req.ResourceSpans {
		converted, err := getRawSpans(resourceSpan)
		if err != nil {
			tss.logger.Error("Failed to convert resource spans, discarding batch", zap.Error(err))
			return &protoTrace.ExportTraceServiceResponse{}, nil
		}
		rawSpans = append(rawSpans, converted...)
	}

	normalizedSpans := tss.normalizerService.NormalizeBatch(rawSpans)
	if len(normalizedSpans) == 0 {
		if len(rawSpans) > 0 {
			tss.logger.Warn(
				"Discarded span batch during normalization",
				zap.Int("raw_span_count", len(rawSpans)),
			)
		}
		return &protoTrace.ExportTraceServiceResponse{}, nil
	}

	err := tss.ingestionBus.Publish(ingestService.NormalizedSpanTopic, normalizedSpans)
	if err != nil {
		tss.logger.Error("Failed to publish normalized spans", zap.Error(err))
	}
	return &protoTrace.ExportTraceServiceResponse{}, nil
}

func getRawSpans(resourceSpan *v1.ResourceSpans) ([]model.RawSpan, error) {
	var rawSpans []model.RawSpan
	for _, libSpan := range resourceSpan.ScopeSpans {
		for _, span := range libSpan.Spans {
			rawSpan, err := getRawSpan(span)
			if err != nil {
				return nil, err
			}
			rawSpans = append(rawSpans, rawSpan)
		}
	}
	return rawSpans, nil
}

func getRawSpan(span *v1.Span) (model.RawSpan, error) {
	traceId, err := identifier.TraceIDFromBytes(span.TraceId)
	if err != nil {
		return model.RawSpan{}, fmt.Errorf("invalid trace identifier: %w", err)
	}
	spanId, err := identifier.SpanIDFromBytes(span.SpanId)
	if err != nil {
		return model.RawSpan{}, fmt.Errorf("invalid span identifier: %w", err)
	}
	parentId := ""
	if len(span.ParentSpanId) > 0 {
		parsedParentId, err := identifier.SpanIDFromBytes(span.ParentSpanId)
		if err != nil {
			return model.RawSpan{}, fmt.Errorf("invalid parent span identifier: %w", err)
		}
		parentId = parsedParentId.String()
	}

	statusCode, statusMessage := getStatus(span)
	rawLinks, err := getLinks(span)
	if err != nil {
		return model.RawSpan{}, err
	}

	return model.RawSpan{
		TraceID:       traceId.String(),
		SpanID:        spanId.String(),
		ParentID:      parentId,
		Name:          span.Name,
		Kind:          span.Kind.String(),
		StartTime:     time.Unix(0, int64(span.StartTimeUnixNano)).UTC(),
		EndTime:       time.Unix(0, int64(span.EndTimeUnixNano)).UTC(),
		StatusCode:    statusCode,
		StatusMessage: statusMessage,
		Attributes:    getAttributes(span.Attributes),
		Events:        getEvents(span),
		Links:         rawLinks,
	}, nil
}

func getEvents(span *v1.Span) []model.RawSpanEvent {
	if len(span.Events) == 0 {
		return nil
	}
	events := make([]model.RawSpanEvent, len(span.Events))
	for i, event := range span.Events {
		events[i] = model.RawSpanEvent{
			Name:       event.Name,
			Timestamp:  time.Unix(0, int64(event.TimeUnixNano)).UTC(),
			Attributes: getAttributes(event.Attributes),
		}
	}
	return events
}

func getLinks(span *v1.Span) ([]model.RawSpanLink, error) {
	if len(span.Links) == 0 {
		return nil, nil
	}
	links := make([]model.RawSpanLink, len(span.Links))
	for i, link := range span.Links {
		linkedTraceId, err := identifier.TraceIDFromBytes(link.TraceId)
		if err != nil {
			return nil, fmt.Errorf("invalid linked trace identifier: %w", err)
		}
		linkedSpanId, err := identifier.SpanIDFromBytes(link.SpanId)
		if err != nil {
			return nil, fmt.Errorf("invalid linked span identifier: %w", err)
		}
		links[i] = model.RawSpanLink{
			TraceID:    linkedTraceId.String(),
			SpanID:     linkedSpanId.String(),
			Attributes: getAttributes(link.Attributes),
		}
	}
	return links, nil
}

func getAttributes(keyValues []*commonV1.KeyValue) map[string]interface{} {
	attributes := make(map[string]interface{}, len(keyValues))
	for _, attribute := range keyValues {
		attributes[attribute.Key] = anyValueToInterface(attribute.Value)
	}
	return attributes
}

func anyValueToInterface(value *commonV1.AnyValue) interface{} {
	if value == nil {
		return nil
	}
	switch v := value.Value.(type) {
	case *commonV1.AnyValue_StringValue:
		return v.StringValue
	case *commonV1.AnyValue_IntValue:
		return v.IntValue
	case *commonV1.AnyValue_DoubleValue:
		return v.DoubleValue
	case *commonV1.AnyValue_BoolValue:
		return v.BoolValue
	case *commonV1.AnyValue_BytesValue:
		return v.BytesValue
	case *commonV1.AnyValue_ArrayValue:
		values := make([]interface{}, len(v.ArrayValue.Values))
		for i, element := range v.ArrayValue.Values {
			values[i] = anyValueToInterface(element)
		}
		return values
	case *commonV1.AnyValue_KvlistValue:
		kvMap := make(map[string]interface{}, len(v.KvlistValue.Values))
		for _, keyValue := range v.KvlistValue.Values {
			kvMap[keyValue.Key] = anyValueToInterface(keyValue.Value)
		}
		return kvMap
	default:
		return nil
	}
}

func getStatus(span *v1.Span) (model.StatusCode, string) {
	if span.Status == nil {
		return model.StatusCodeUnset, ""
	}
	switch span.Status.Code {
	case v1.Status_STATUS_CODE_OK:
		return model.StatusCodeOk, span.Status.Message
	case v1.Status_STATUS_CODE_ERROR:
		return model.StatusCodeError, span.Status.Message
	default:
		return model.StatusCodeUnset, span.Status.Message
	}
}
