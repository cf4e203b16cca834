package client

import (
	"context"

	"github.com/Agenta-AI/agenta-sub003/internal/db/elasticsearch/model"
	"github.com/elastic/go-elasticsearch/v8"
)

const SearchResultSize = 10

type RefreshRate string

const (
	// Wait for the changes made by the request to be made visible by a refresh before replying.
	Wait RefreshRate = "wait_for"
	// Immediate Refresh the relevant primary and replica shards (not the whole index) immediately after the operation occurs.
	Immediate RefreshRate = "true"
	// Async Take no refresh related actions. The changes made by this request will be made visible at some point after the request returns.
	Async RefreshRate = "false"
)

type AgentaClient interface {
	// BulkIndex indexes (inserts) multiple documents in the same index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/docs-bulk.html
	BulkIndex(ctx context.Context, metaInfo []MetaMap, documentInfo []DocumentMap, index string) error
	// Search searches for documents in the index
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-search.html
	// queryResultSize is the number of results to return, -1 for default
	Search(ctx context.Context, query string, indices []string, queryResultSize *int) ([]map[string]interface{}, error)
	// Count counts the number of documents in the index matching the query
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-count.html
	Count(ctx context.Context, query string, indices []string) (int64, error)
	// Aggregate runs a size-zero search and returns the parsed aggregation response
	// https://www.elastic.co/guide/en/elasticsearch/reference/master/search-aggregations.html
	Aggregate(ctx context.Context, query string, indices []string) (*model.EsAnalyticsResponse, error)
}

type AgentaClientImpl struct {
	es          *elasticsearch.Client
	refreshRate string
}

func NewAgentaClientImpl(es *elasticsearch.Client, refreshRate RefreshRate) *AgentaClientImpl {
	return &AgentaClientImpl{es: es, refreshRate: string(refreshRate)}
}
