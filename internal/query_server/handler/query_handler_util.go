package handler

import (
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/spans"
)

func convertQueryResultToDTO(result spans.QueryResult) QueryResponseDTO {
	count := len(result.Spans)
	if result.Traces != nil {
		count = len(result.Traces)
	}
	return QueryResponseDTO{
		Spans:  result.Spans,
		Traces: result.Traces,
		Count:  count,
	}
}
