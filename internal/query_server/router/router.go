package router

import (
	"context"
	"net/http"

	"github.com/Agenta-AI/agenta-sub003/internal/query_server/handler"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/analytics"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/spans"
	"go.uber.org/zap"
)
import "github.com/gorilla/mux"

func CreateRouter(
	ctx context.Context,
	spanQueryService spans.SpanQueryService,
	analyticsQueryService analytics.AnalyticsQueryService,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.Handle(
		"/api/observability/v1/query", handler.QueryHandler(
			ctx,
			spanQueryService,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/api/observability/v1/analytics", handler.AnalyticsHandler(
			ctx,
			analyticsQueryService,
			logger,
		),
	).Methods("POST")

	return r
}
