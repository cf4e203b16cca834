package normalizer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/observability/attribute"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/identifier"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"go.uber.org/zap"
)

const exceptionEventName = "exception"

type NormalizerService interface {
	// NormalizeBatch converts a batch of raw spans into canonical spans.
	// The batch is all-or-nothing: one bad span discards the whole batch
	// so that traces are never partially ingested.
	NormalizeBatch(rawSpans []model.RawSpan) []model.Span
}

type NormalizerServiceImpl struct {
	codex  *attribute.Codex
	logger *zap.Logger
}

func NewNormalizerService(codex *attribute.Codex, logger *zap.Logger) *NormalizerServiceImpl {
	return &NormalizerServiceImpl{
		codex:  codex,
		logger: logger,
	}
}

func (ns *NormalizerServiceImpl) NormalizeBatch(rawSpans []model.RawSpan) []model.Span {
	spans := make([]model.Span, 0, len(rawSpans))
	for _, rawSpan := range rawSpans {
		flattened, err := ns.normalizeTree(rawSpan)
		if err != nil {
			ns.logger.Error(
				"Failed to normalize span, discarding batch",
				zap.String("span_id", rawSpan.SpanID),
				zap.Error(err),
			)
			return []model.Span{}
		}
		spans = append(spans, flattened...)
	}
	return spans
}

func (ns *NormalizerServiceImpl) normalizeTree(rawSpan model.RawSpan) ([]model.Span, error) {
	var spans []model.Span
	for _, child := range rawSpan.Spans {
		childSpans, err := ns.normalizeTree(child)
		if err != nil {
			return nil, err
		}
		spans = append(spans, childSpans...)
	}
	span, err := ns.normalizeSpan(rawSpan)
	if err != nil {
		return nil, err
	}
	return append(spans, span), nil
}

func (ns *NormalizerServiceImpl) normalizeSpan(rawSpan model.RawSpan) (model.Span, error) {
	flat := make(map[string]interface{}, len(rawSpan.Attributes))
	for key, value := range ns.codex.RemapToInternal(rawSpan.Attributes) {
		flat[key] = attribute.DecodeValue(value)
	}

	traceType, spanType := extractTypes(flat)

	traceID, err := identifier.ParseTraceID(rawSpan.TraceID)
	if err != nil {
		return model.Span{}, err
	}
	spanID, err := identifier.ParseSpanID(rawSpan.SpanID)
	if err != nil {
		return model.Span{}, err
	}
	var parentID string
	if rawSpan.ParentID != "" {
		parsed, err := identifier.ParseSpanID(rawSpan.ParentID)
		if err != nil {
			return model.Span{}, err
		}
		parentID = parsed.String()
	}
	links, err := decodeLinks(rawSpan.Links)
	if err != nil {
		return model.Span{}, err
	}

	events, exception, errorCount := extractException(rawSpan.Events)

	nested := attribute.Unmarshall(flat)
	attributes := splitNamespaces(nested)
	references := extractReferences(nested)

	if duration := durationMillis(rawSpan.StartTime, rawSpan.EndTime); duration > 0 {
		setMetric(&attributes, "duration", "incremental", duration)
	}
	if errorCount > 0 {
		setMetric(&attributes, "errors", "incremental", float64(errorCount))
	}

	span := model.Span{
		Id:            documentId(traceID, spanID),
		CreatedAt:     time.Now().UTC(),
		TraceID:       traceID.String(),
		SpanID:        spanID.String(),
		ParentID:      parentID,
		TraceType:     traceType,
		SpanType:      spanType,
		Name:          rawSpan.Name,
		Kind:          rawSpan.Kind,
		StartTime:     rawSpan.StartTime,
		EndTime:       rawSpan.EndTime,
		StatusCode:    rawSpan.StatusCode,
		StatusMessage: rawSpan.StatusMessage,
		Attributes:    attributes,
		Events:        events,
		Exception:     exception,
		Links:         links,
		References:    references,
	}
	span.Hash = contentHash(references, links)
	return span, nil
}

func extractTypes(flat map[string]interface{}) (model.TraceType, model.SpanType) {
	traceType := model.DefaultTraceType
	if value, ok := flat["type.trace"]; ok {
		traceType = model.ParseTraceType(asString(value))
		delete(flat, "type.trace")
	}
	spanType := model.DefaultSpanType
	if value, ok := flat["type.span"]; ok {
		spanType = model.ParseSpanType(asString(value))
		delete(flat, "type.span")
	}
	return traceType, spanType
}

func decodeLinks(rawLinks []model.RawSpanLink) ([]model.SpanLink, error) {
	if len(rawLinks) == 0 {
		return nil, nil
	}
	links := make([]model.SpanLink, len(rawLinks))
	for i, rawLink := range rawLinks {
		linkTraceID, err := identifier.ParseTraceID(rawLink.TraceID)
		if err != nil {
			return nil, fmt.Errorf("failed to decode link trace identifier: %w", err)
		}
		linkSpanID, err := identifier.ParseSpanID(rawLink.SpanID)
		if err != nil {
			return nil, fmt.Errorf("failed to decode link span identifier: %w", err)
		}
		links[i] = model.SpanLink{
			TraceID: linkTraceID.String(),
			SpanID:  linkSpanID.String(),
			Type:    asString(rawLink.Attributes["type"]),
		}
	}
	return links, nil
}

// extractException scans events in order: every event named "exception"
// increments the error counter, the first one becomes the dedicated exception
// field, and only non-exception events are retained. First-wins is the
// deterministic policy here; later exception events contribute to the counter
// only.
func extractException(rawEvents []model.RawSpanEvent) ([]model.SpanEvent, *model.SpanException, int) {
	var events []model.SpanEvent
	var exception *model.SpanException
	errorCount := 0
	for _, rawEvent := range rawEvents {
		if rawEvent.Name != exceptionEventName {
			events = append(events, model.SpanEvent{
				Name:       rawEvent.Name,
				Timestamp:  rawEvent.Timestamp,
				Attributes: rawEvent.Attributes,
			})
			continue
		}
		errorCount++
		if exception != nil {
			continue
		}
		residual := make(map[string]interface{}, len(rawEvent.Attributes))
		for key, value := range rawEvent.Attributes {
			residual[key] = value
		}
		exception = &model.SpanException{
			Message:    popString(residual, "exception.message", "message"),
			Type:       popString(residual, "exception.type", "type"),
			Stacktrace: popString(residual, "exception.stacktrace", "stacktrace"),
		}
		if len(residual) > 0 {
			exception.Attributes = residual
		}
	}
	return events, exception, errorCount
}

// splitNamespaces distributes the unmarshalled bag over the fixed top-level
// namespaces. Anything else lands in Unsupported verbatim.
func splitNamespaces(nested map[string]interface{}) model.Attributes {
	attributes := model.Attributes{
		Data:    asMap(nested["data"]),
		Metrics: asMap(nested["metrics"]),
		Meta:    asMap(nested["meta"]),
		Tags:    asStringMap(nested["tags"]),
	}
	for key, value := range nested {
		switch key {
		case "data", "metrics", "meta", "tags", "refs", "type":
		default:
			if attributes.Unsupported == nil {
				attributes.Unsupported = make(map[string]interface{})
			}
			attributes.Unsupported[key] = value
		}
	}
	return attributes
}

func extractReferences(nested map[string]interface{}) map[model.ReferenceKey]model.Reference {
	refs := asMap(nested["refs"])
	if len(refs) == 0 {
		return nil
	}
	references := make(map[model.ReferenceKey]model.Reference)
	for key, value := range refs {
		if !model.IsReferenceKey(key) {
			continue
		}
		pointer := asMap(value)
		references[model.ReferenceKey(key)] = model.Reference{
			Id:      asString(pointer["id"]),
			Slug:    asString(pointer["slug"]),
			Version: asString(pointer["version"]),
		}
	}
	if len(references) == 0 {
		return nil
	}
	return references
}

// contentHash digests the references and links of a span into a 128-bit hex
// string usable as an idempotent join key. Links are sorted and map keys are
// serialized in order, so the hash is independent of input ordering. Spans
// with neither references nor links produce no hash.
func contentHash(references map[model.ReferenceKey]model.Reference, links []model.SpanLink) string {
	if len(references) == 0 && len(links) == 0 {
		return ""
	}
	sortedLinks := make([]model.SpanLink, len(links))
	copy(sortedLinks, links)
	sort.Slice(sortedLinks, func(i, j int) bool {
		if sortedLinks[i].TraceID != sortedLinks[j].TraceID {
			return sortedLinks[i].TraceID < sortedLinks[j].TraceID
		}
		if sortedLinks[i].SpanID != sortedLinks[j].SpanID {
			return sortedLinks[i].SpanID < sortedLinks[j].SpanID
		}
		return sortedLinks[i].Type < sortedLinks[j].Type
	})
	serialized, err := json.Marshal(map[string]interface{}{
		"references": references,
		"links":      sortedLinks,
	})
	if err != nil {
		return ""
	}
	digest := sha256.Sum256(serialized)
	return hex.EncodeToString(digest[:16])
}

func durationMillis(startTime time.Time, endTime time.Time) float64 {
	return math.Round(float64(endTime.Sub(startTime).Microseconds()) / 1000.0)
}

func setMetric(attributes *model.Attributes, name string, phase string, value float64) {
	if attributes.Metrics == nil {
		attributes.Metrics = make(map[string]interface{})
	}
	entry := asMap(attributes.Metrics[name])
	if entry == nil {
		entry = make(map[string]interface{})
	}
	entry[phase] = value
	attributes.Metrics[name] = entry
}

func documentId(traceID identifier.TraceID, spanID identifier.SpanID) string {
	data := fmt.Sprintf("%s:%s", traceID.String(), spanID.String())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func asMap(value interface{}) map[string]interface{} {
	typed, _ := value.(map[string]interface{})
	return typed
}

func asStringMap(value interface{}) map[string]string {
	typed, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	result := make(map[string]string, len(typed))
	for key, entry := range typed {
		result[key] = asString(entry)
	}
	return result
}

func asString(value interface{}) string {
	switch typed := value.(type) {
	case string:
		return typed
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func popString(attributes map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value, ok := attributes[key]; ok {
			delete(attributes, key)
			return asString(value)
		}
	}
	return ""
}
