package main

import (
	"context"
	"net/http"

	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/bootstrapper"
	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/client"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/router"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/analytics"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/spans"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// @title Agenta Observability API
// @version 1.0
// @description Query and analytics API over ingested LLM application traces.

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

	ac := client.NewAgentaClientImpl(es, client.Wait)
	compiler := filtering.NewFilterCompiler(logger)
	planner := windowing.NewWindowPlanner()
	treeConstructor := spans.NewTreeConstructorService()
	spanQueryService := spans.NewSpanQueryService(ac, compiler, planner, treeConstructor, logger)
	analyticsQueryService := analytics.NewAnalyticsQueryService(ac, compiler, planner, logger)

	r := router.CreateRouter(context.Background(), spanQueryService, analyticsQueryService, logger)
	logger.Info("Starting query server at :8081")
	if err := http.ListenAndServe(":8081", r); err != nil {
		logger.Fatal("Failed to serve: %v", zap.Error(err))
	}
}
