package main

import (
	"net"

	"github.com/Agenta-AI/agenta-sub003/internal/db/cache"
	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/bootstrapper"
	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/client"
	"github.com/Agenta-AI/agenta-sub003/internal/db/write_buffer"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/attribute"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/normalizer"
	traceServer "github.com/Agenta-AI/agenta-sub003/internal/otel_server/trace/server"
	agentaBus "github.com/Agenta-AI/agenta-sub003/internal/pipeline/event_bus"
	ingestService "github.com/Agenta-AI/agenta-sub003/internal/pipeline/ingestion/service"
	"github.com/asaskevich/EventBus"
	"github.com/dgraph-io/ristretto"
	"github.com/elastic/go-elasticsearch/v8"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
)

func main() {
	logger, err := zap.NewProduction()
	defer logger.Sync()

	es, err := elasticsearch.NewDefaultClient()
	if err != nil {
		logger.Error("Failed to create elasticsearch client", zap.Error(err))
	}

	bs := bootstrapper.NewBootstrapper(es, logger)
	err = bs.BootstrapElasticsearch()
	if err != nil {
		logger.Error("Failed to bootstrap elasticsearch", zap.Error(err))
	}

	listener, err := net.Listen("tcp", ":4317")
	if err != nil {
		logger.Error("Failed to listen: %v", zap.Error(err))
	}

	ac := client.NewAgentaClientImpl(es, client.Async)
	codex, err := attribute.NewCodex()
	if err != nil {
		logger.Fatal("Failed to load attribute codex", zap.Error(err))
	}
	normalizerService := normalizer.NewNormalizerService(codex, logger)

	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: (1 << 20) * 10,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		logger.Fatal("Failed to create ristretto cache", zap.Error(err))
	}
	spanCache := cache.NewWriteBehindCacheImpl[model.Span](ristrettoCache)

	eventBus := EventBus.New()
	spanDBBuffer := write_buffer.NewDatabaseWriteBufferImpl[model.Span](
		ac,
		bootstrapper.SpanIndexName,
		logger,
	)
	ingestionPipeline := ingestService.NewIngestionPipeline(
		spanDBBuffer,
		spanCache,
		eventBus,
		logger,
	)
	if err := ingestionPipeline.Start(); err != nil {
		logger.Fatal("Failed to start ingestion pipeline: %v", zap.Error(err))
	}

	srv := grpc.NewServer()
	traceServiceServer := traceServer.NewTraceServiceServerImpl(
		logger,
		normalizerService,
		agentaBus.NewAgentaEventBus[any, []model.Span](eventBus, logger),
	)

	protoTrace.RegisterTraceServiceServer(srv, traceServiceServer)
	logger.Info("gRPC service started, listening for OpenTelemetry traces...")

	if err := srv.Serve(listener); err != nil {
		logger.Fatal("Failed to serve: %v", zap.Error(err))
	}
}
