package service

import (
	"fmt"

	"github.com/Agenta-AI/agenta-sub003/internal/db/cache"
	"github.com/Agenta-AI/agenta-sub003/internal/db/write_buffer"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/Agenta-AI/agenta-sub003/internal/pipeline/event_bus"
	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

const NormalizedSpanTopic = "normalized_spans"

// IngestionPipeline subscribes to normalized span batches and fans them into
// the bulk write buffer and the per-trace write-behind cache.
type IngestionPipeline struct {
	writeBuffer write_buffer.DatabaseWriteBuffer[model.Span]
	spanCache   cache.WriteBehindCache[model.Span]
	ingestBus   event_bus.AgentaEventBus[[]model.Span, any]
	logger      *zap.Logger
}

func NewIngestionPipeline(
	writeBuffer write_buffer.DatabaseWriteBuffer[model.Span],
	spanCache cache.WriteBehindCache[model.Span],
	eventBus EventBus.Bus,
	logger *zap.Logger,
) *IngestionPipeline {
	ingestBus := event_bus.NewAgentaEventBus[[]model.Span, any](
		eventBus,
		logger,
	)
	return &IngestionPipeline{
		writeBuffer: writeBuffer,
		spanCache:   spanCache,
		ingestBus:   ingestBus,
		logger:      logger,
	}
}

func (ip *IngestionPipeline) Start() error {
	err := ip.ingestBus.Subscribe(
		NormalizedSpanTopic,
		func(spans []model.Span) error {
			for traceId, traceSpans := range groupByTrace(spans) {
				err := ip.spanCache.Put(traceId, traceSpans)
				if err != nil {
					ip.logger.Error(
						"Failed to cache spans for trace",
						zap.String("trace_id", traceId),
						zap.Error(err),
					)
				}
			}
			ip.writeBuffer.WriteToBuffer(spans)
			return nil
		},
		true,
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to normalized span topic: %w", err)
	}
	return nil
}

func groupByTrace(spans []model.Span) map[string][]model.Span {
	grouped := make(map[string][]model.Span)
	for _, span := range spans {
		grouped[span.TraceID] = append(grouped[span.TraceID], span)
	}
	return grouped
}
