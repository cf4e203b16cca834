package normalizer

import (
	"testing"
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/observability/attribute"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const (
	testTraceID = "0x0123456789abcdef1122334455667788"
	testSpanID  = "0xaabbccddeeff0011"
)

func getNormalizerService(t *testing.T) *NormalizerServiceImpl {
	codex, err := attribute.NewCodex()
	assert.Nil(t, err)
	return NewNormalizerService(codex, zap.NewNop())
}

func getRawSpan() model.RawSpan {
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return model.RawSpan{
		TraceID:    testTraceID,
		SpanID:     testSpanID,
		Name:       "generate",
		StartTime:  startTime,
		EndTime:    startTime.Add(250 * time.Millisecond),
		StatusCode: model.StatusCodeOk,
	}
}

func TestNormalizeBatch(t *testing.T) {
	t.Run("Remaps wire keys into namespaced attributes", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Attributes = map[string]interface{}{
			"ag.data.outputs.0.name": "x",
			"ag.tags.env":            "production",
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		expectedData := map[string]interface{}{
			"outputs": []interface{}{
				map[string]interface{}{"name": "x"},
			},
		}
		assert.Equal(t, expectedData, spans[0].Attributes.Data)
		assert.Equal(t, map[string]string{"env": "production"}, spans[0].Attributes.Tags)
	})

	t.Run("Preserves unrecognized keys under unsupported", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Attributes = map[string]interface{}{
			"http.status_code": 200,
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.Equal(
			t,
			map[string]interface{}{"status_code": 200},
			spans[0].Attributes.Unsupported["http"],
		)
	})

	t.Run("Defaults trace and span types when absent", func(t *testing.T) {
		ns := getNormalizerService(t)
		spans := ns.NormalizeBatch([]model.RawSpan{getRawSpan()})
		assert.Len(t, spans, 1)
		assert.Equal(t, model.TraceTypeInvocation, spans[0].TraceType)
		assert.Equal(t, model.SpanTypeTask, spans[0].SpanType)
	})

	t.Run("Extracts type pseudo-attributes and consumes their keys", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Attributes = map[string]interface{}{
			"ag.type.trace": "ANNOTATION",
			"ag.type.span":  "CHAT",
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.Equal(t, model.TraceTypeAnnotation, spans[0].TraceType)
		assert.Equal(t, model.SpanTypeChat, spans[0].SpanType)
		assert.Nil(t, spans[0].Attributes.Unsupported)
	})

	t.Run("Computes the duration metric in milliseconds", func(t *testing.T) {
		ns := getNormalizerService(t)
		spans := ns.NormalizeBatch([]model.RawSpan{getRawSpan()})
		assert.Len(t, spans, 1)
		duration := spans[0].Attributes.Metrics["duration"].(map[string]interface{})
		assert.Equal(t, 250.0, duration["incremental"])
	})

	t.Run("Omits the duration metric when non-positive", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.EndTime = rawSpan.StartTime.Add(-time.Second)
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.Nil(t, spans[0].Attributes.Metrics["duration"])
	})

	t.Run("Extracts the first exception event and counts all of them", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Events = []model.RawSpanEvent{
			{
				Name: "exception",
				Attributes: map[string]interface{}{
					"exception.message":    "boom",
					"exception.type":       "ValueError",
					"exception.stacktrace": "trace...",
				},
			},
			{
				Name: "exception",
				Attributes: map[string]interface{}{
					"exception.message": "second boom",
				},
			},
			{Name: "retry"},
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.NotNil(t, spans[0].Exception)
		assert.Equal(t, "boom", spans[0].Exception.Message)
		assert.Equal(t, "ValueError", spans[0].Exception.Type)
		assert.Equal(t, "trace...", spans[0].Exception.Stacktrace)
		assert.Len(t, spans[0].Events, 1)
		assert.Equal(t, "retry", spans[0].Events[0].Name)
		errorMetric := spans[0].Attributes.Metrics["errors"].(map[string]interface{})
		assert.Equal(t, 2.0, errorMetric["incremental"])
	})

	t.Run("Produces empty events and an exception for a lone exception event", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Events = []model.RawSpanEvent{
			{
				Name: "exception",
				Attributes: map[string]interface{}{
					"exception.message":    "boom",
					"exception.type":       "RuntimeError",
					"exception.stacktrace": "at line 3",
				},
			},
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.Empty(t, spans[0].Events)
		assert.Equal(t, &model.SpanException{
			Message:    "boom",
			Type:       "RuntimeError",
			Stacktrace: "at line 3",
		}, spans[0].Exception)
	})

	t.Run("Keeps only references from the known vocabulary", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Attributes = map[string]interface{}{
			"ag.refs.application.id":   "app-1",
			"ag.refs.application.slug": "my-app",
			"ag.refs.bogus.id":         "dropped",
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.Equal(t, map[model.ReferenceKey]model.Reference{
			model.RefApplication: {Id: "app-1", Slug: "my-app"},
		}, spans[0].References)
		assert.Nil(t, spans[0].Attributes.Unsupported)
	})

	t.Run("Hashes references and links independent of ordering", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Attributes = map[string]interface{}{
			"ag.refs.application.id": "app-1",
			"ag.refs.evaluator.id":   "eval-1",
		}
		rawSpan.Links = []model.RawSpanLink{
			{TraceID: testTraceID, SpanID: "0x1111111111111111"},
			{TraceID: testTraceID, SpanID: "0x2222222222222222"},
		}
		reordered := rawSpan
		reordered.Links = []model.RawSpanLink{
			{TraceID: testTraceID, SpanID: "0x2222222222222222"},
			{TraceID: testTraceID, SpanID: "0x1111111111111111"},
		}
		first := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		second := ns.NormalizeBatch([]model.RawSpan{reordered})
		assert.Len(t, first, 1)
		assert.Len(t, second, 1)
		assert.NotEmpty(t, first[0].Hash)
		assert.Equal(t, first[0].Hash, second[0].Hash)
	})

	t.Run("Produces no hash without references or links", func(t *testing.T) {
		ns := getNormalizerService(t)
		spans := ns.NormalizeBatch([]model.RawSpan{getRawSpan()})
		assert.Len(t, spans, 1)
		assert.Empty(t, spans[0].Hash)
	})

	t.Run("Flattens embedded child spans before the parent", func(t *testing.T) {
		ns := getNormalizerService(t)
		parent := getRawSpan()
		child := getRawSpan()
		child.SpanID = "0x1111111111111111"
		child.Name = "retrieve"
		child.ParentID = parent.SpanID
		parent.Spans = []model.RawSpan{child}
		spans := ns.NormalizeBatch([]model.RawSpan{parent})
		assert.Len(t, spans, 2)
		assert.Equal(t, "retrieve", spans[0].Name)
		assert.Equal(t, "generate", spans[1].Name)
	})

	t.Run("Discards the whole batch on a single bad span", func(t *testing.T) {
		ns := getNormalizerService(t)
		good := getRawSpan()
		bad := getRawSpan()
		bad.TraceID = "not-an-identifier"
		spans := ns.NormalizeBatch([]model.RawSpan{good, bad})
		assert.Empty(t, spans)
	})

	t.Run("Decodes tagged container values in the attribute bag", func(t *testing.T) {
		ns := getNormalizerService(t)
		rawSpan := getRawSpan()
		rawSpan.Attributes = map[string]interface{}{
			"ag.data.messages": `@ag.type=json:[{"role":"user"}]`,
		}
		spans := ns.NormalizeBatch([]model.RawSpan{rawSpan})
		assert.Len(t, spans, 1)
		assert.Equal(
			t,
			[]interface{}{map[string]interface{}{"role": "user"}},
			spans[0].Attributes.Data["messages"],
		)
	})
}
