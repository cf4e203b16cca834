package spans

import (
	"testing"

	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/stretchr/testify/assert"
)

func TestConstructForest(t *testing.T) {
	tcs := NewTreeConstructorService()

	t.Run("Nests children under their parent's name key", func(t *testing.T) {
		spans := []model.Span{
			{TraceID: "0xt1", SpanID: "0xa", Name: "workflow"},
			{TraceID: "0xt1", SpanID: "0xb", ParentID: "0xa", Name: "retrieve"},
			{TraceID: "0xt1", SpanID: "0xc", ParentID: "0xa", Name: "generate"},
			{TraceID: "0xt1", SpanID: "0xd", ParentID: "0xc", Name: "completion"},
		}
		trees := tcs.ConstructForest(spans)
		assert.Len(t, trees, 1)
		root := trees[0].Spans["workflow"]
		assert.NotNil(t, root)
		assert.Len(t, root.Spans, 2)
		assert.NotNil(t, root.Spans["retrieve"])
		generate := root.Spans["generate"]
		assert.NotNil(t, generate)
		assert.NotNil(t, generate.Spans["completion"])
	})

	t.Run("Groups spans by trace", func(t *testing.T) {
		spans := []model.Span{
			{TraceID: "0xt1", SpanID: "0xa", Name: "first"},
			{TraceID: "0xt2", SpanID: "0xb", Name: "second"},
		}
		trees := tcs.ConstructForest(spans)
		assert.Len(t, trees, 2)
		assert.Equal(t, "0xt1", trees[0].TraceID)
		assert.Equal(t, "0xt2", trees[1].TraceID)
	})

	t.Run("Skips spans whose declared parent is absent", func(t *testing.T) {
		spans := []model.Span{
			{TraceID: "0xt1", SpanID: "0xa", Name: "workflow"},
			{TraceID: "0xt1", SpanID: "0xb", ParentID: "0xmissing", Name: "orphan"},
		}
		trees := tcs.ConstructForest(spans)
		assert.Len(t, trees, 1)
		assert.Len(t, trees[0].Spans, 1)
		assert.NotNil(t, trees[0].Spans["workflow"])
	})

	t.Run("Returns an empty forest for no spans", func(t *testing.T) {
		assert.Empty(t, tcs.ConstructForest(nil))
	})
}
