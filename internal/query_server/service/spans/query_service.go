package spans

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/bootstrapper"
	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/client"
	"github.com/Agenta-AI/agenta-sub003/internal/observability/model"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/windowing"
	"go.uber.org/zap"
)

const timeout = 10 * time.Second
const defaultQuerySize = 1000

type SpanQueryService interface {
	GetSpans(ctx context.Context, params QueryParams) (QueryResult, error)
}

type SpanQueryServiceImpl struct {
	ac              client.AgentaClient
	compiler        *filtering.FilterCompiler
	planner         *windowing.WindowPlanner
	treeConstructor *TreeConstructorService
	logger          *zap.Logger
}

func NewSpanQueryService(
	ac client.AgentaClient,
	compiler *filtering.FilterCompiler,
	planner *windowing.WindowPlanner,
	treeConstructor *TreeConstructorService,
	logger *zap.Logger,
) *SpanQueryServiceImpl {
	return &SpanQueryServiceImpl{
		ac:              ac,
		compiler:        compiler,
		planner:         planner,
		treeConstructor: treeConstructor,
		logger:          logger,
	}
}

func (sqs *SpanQueryServiceImpl) GetSpans(
	ctx context.Context,
	params QueryParams,
) (QueryResult, error) {
	filter, err := sqs.compiler.Compile(params.Filtering)
	if err != nil {
		sqs.logger.Error("Error when compiling filter", zap.Error(err))
		return QueryResult{}, err
	}
	plan := sqs.planner.Resolve(params.Windowing, time.Now().UTC())

	query := getSpansQuery(filter, plan, params.Windowing.Order)
	queryJson, err := json.Marshal(query)
	if err != nil {
		sqs.logger.Error("Error when marshalling query to JSON", zap.Error(err))
		return QueryResult{}, err
	}

	querySize := defaultQuerySize
	if params.Windowing.Limit > 0 {
		querySize = params.Windowing.Limit
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	docs, err := sqs.ac.Search(
		queryCtx,
		string(queryJson),
		[]string{bootstrapper.SpanIndexName},
		&querySize,
	)
	if err != nil {
		sqs.logger.Error("Error when searching for spans", zap.Error(err))
		return QueryResult{}, err
	}

	foundSpans, err := ConvertFromDocuments(docs)
	if err != nil {
		sqs.logger.Error("Error when converting search result to spans", zap.Error(err))
		return QueryResult{}, err
	}

	if params.Formatting.Focus == FocusTrace && params.Formatting.Format != FormatOpenTelemetry {
		return QueryResult{Traces: sqs.treeConstructor.ConstructForest(foundSpans)}, nil
	}
	return QueryResult{Spans: foundSpans}, nil
}

func ConvertFromDocuments(docs []map[string]interface{}) ([]model.Span, error) {
	foundSpans := make([]model.Span, len(docs))
	for i, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		var span model.Span
		if err := json.Unmarshal(data, &span); err != nil {
			return nil, err
		}
		foundSpans[i] = span
	}
	return foundSpans, nil
}
