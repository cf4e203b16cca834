package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/analytics"
	"github.com/Agenta-AI/agenta-sub003/internal/query_server/service/filtering"
	"go.uber.org/zap"
)

// AnalyticsHandler creates a handler for bucketed span analytics over a
// filtered time window.
// @Summary Get the bucketed count/error/duration/cost/token series.
// @Tags observability
// @Accept json
// @Produce json
// @Param analytics body analytics.AnalyticsParams true "The analytics parameters"
// @Success 200 {object} AnalyticsResponseDTO "The zero-filled bucket series"
// @Failure 400 {object} ErrorMessage "Invalid request payload or filter"
// @Failure 500 {object} ErrorMessage "Internal server error"
// @Router /api/observability/v1/analytics [post]
func AnalyticsHandler(
	ctx context.Context,
	aqs analytics.AnalyticsQueryService,
	logger *zap.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analytics.AnalyticsParams
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

		result, err := aqs.GetAnalytics(ctx, req)
		if err != nil {
			var filteringError *filtering.FilteringError
			if errors.As(err, &filteringError) {
				logger.Error("Invalid filter in analytics request", zap.Error(err))
				HttpError(w, filteringError.Error(), http.StatusBadRequest, logger)
				return
			}
			logger.Error("Error encountered when computing analytics", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}

		err = json.NewEncoder(w).Encode(convertAnalyticsResultToDTO(result))
		if err != nil {
			logger.Error("Error encountered when encoding response", zap.Error(err))
			HttpError(w, "Internal server error", http.StatusInternalServerError, logger)
			return
		}
	}
}
