package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/bootstrapper"
	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/client"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
	"go.uber.org/zap"
)

const timeout = 10 * time.Second

type AnalyticsQueryService interface {
	GetAnalytics(ctx context.Context, params AnalyticsParams) (AnalyticsResult, error)
}

type AnalyticsQueryServiceImpl struct {
	ac       client.AgentaClient
	compiler *filtering.FilterCompiler
	planner  *windowing.WindowPlanner
	logger   *zap.Logger
}

func NewAnalyticsQueryService(
	ac client.AgentaClient,
	compiler *filtering.FilterCompiler,
	planner *windowing.WindowPlanner,
	logger *zap.Logger,
) *AnalyticsQueryServiceImpl {
	return &AnalyticsQueryServiceImpl{
		ac:       ac,
		compiler: compiler,
		planner:  planner,
		logger:   logger,
	}
}

func (aqs *AnalyticsQueryServiceImpl) GetAnalytics(
	ctx context.Context,
	params AnalyticsParams,
) (AnalyticsResult, error) {
	filter, err := aqs.compiler.Compile(params.Filtering)
	if err != nil {
		aqs.logger.Error("Error when compiling analytics filter", zap.Error(err))
		return AnalyticsResult{}, err
	}
	plan := aqs.planner.Resolve(params.Windowing, time.Now().UTC())

	queryJson, err := json.Marshal(getAnalyticsQuery(filter, plan))
	if err != nil {
		aqs.logger.Error("Error when marshalling analytics query to JSON", zap.Error(err))
		return AnalyticsResult{}, err
	}

	aggregateCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := aqs.ac.Aggregate(
		aggregateCtx,
		string(queryJson),
		[]string{bootstrapper.SpanIndexName},
	)
	if err != nil {
		aqs.logger.Error("Error when aggregating analytics buckets", zap.Error(err))
		return AnalyticsResult{}, err
	}

	countJson, err := json.Marshal(getCountQuery(filter, plan))
	if err != nil {
		aqs.logger.Error("Error when marshalling count query to JSON", zap.Error(err))
		return AnalyticsResult{}, err
	}
	countCtx, countCancel := context.WithTimeout(ctx, timeout)
	defer countCancel()
	totalCount, err := aqs.ac.Count(
		countCtx,
		string(countJson),
		[]string{bootstrapper.SpanIndexName},
	)
	if err != nil {
		aqs.logger.Error("Error when counting spans for analytics", zap.Error(err))
		return AnalyticsResult{}, err
	}

	buckets := MergeBuckets(
		plan.Timestamps,
		res.Aggregations.Buckets.Buckets,
		res.Aggregations.Errors.Buckets.Buckets,
	)
	return AnalyticsResult{
		Buckets:    buckets,
		TotalCount: totalCount,
	}, nil
}
