package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleServiceError translates domain errors into HTTP responses.
// Anything unrecognized is logged and reported as a generic 500.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var invalidID *domain.ErrInvalidID
	if errors.As(err, &invalidID) {
		writeError(w, http.StatusBadRequest, invalidID.Error())
		return
	}

	var validation *domain.ErrValidation
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}

	var notFound *domain.ErrNotFound
	if errors.As(err, &notFound) {
		writeError(w, http.StatusNotFound, notFound.Error())
		return
	}

	var unavailable *domain.ErrStoreUnavailable
	if errors.As(err, &unavailable) {
		logger.Error("store unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "record store unavailable")
		return
	}

	var aggregation *domain.ErrAggregation
	if errors.As(err, &aggregation) {
		logger.Error("aggregation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, aggregation.Error())
		return
	}

	logger.Error("unhandled service error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
