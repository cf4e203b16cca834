package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/spans"
	"go.uber.org/zap"
)

// QueryHandler creates a handler for querying spans with filtering, windowing
// and formatting parameters.
// @Summary Query ingested spans as a flat list or as trace trees.
// @Tags observability
// @Accept json
// @Produce json
// @Param query body spans.QueryParams true "The query parameters"
// @Success 200 {object} QueryResponseDTO "The matching spans or trace trees"
// @Failure 400 {object} ErrorMessage "Invalid request payload or filter"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /api/observability/v1/query [post]
func QueryHandler(
	ctx context.Context,
	sqs spans.SpanQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req spans.QueryParams
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			logger.Error("Error encountered when decoding request body", zap.Error(err))
			HttpError(w, "Invalid request payload", http.StatusBadRequest, logger)
			return
		}

		defer func(Body io.ReadCloser) {
			err := Body.Close()
			if err != nil {
				logger.Error("Error encountered when closing request body", zap.Error(err))
			}
		}(r.Body)

		result, err := sqs.GetSpans(ctx, req)
		if err != nil {
			var filteringError *filtering.FilteringError
			if errors.As(err, &filteringError) {
				logger.Error("Invalid filter in query request", zap.Error(err))
				HttpError(w, filteringError.Error(), http.StatusBadRequest, logger)
				return
			}
			logger.Error("Error encountered when querying spans", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}

		err = json.NewEncoder(w).Encode(convertQueryResultToDTO(result))
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
