package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"

	"github.com/aquanet-ops/aquanet/pkg/utils/errutil"
)

// envelope is the standard JSON response wrapper: {success, message, data}.
// Degraded enrichment data still travels inside a success envelope; only
// real request failures flip success to false.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(ctx context.Context, w http.ResponseWriter, message string, data any) {
	respondJSON(ctx, w, http.StatusOK, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondCreated(ctx context.Context, w http.ResponseWriter, message string, data any) {
	respondJSON(ctx, w, http.StatusCreated, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		errutil.Handle(ctx, goerr.Wrap(err, "failed to encode response"), "failed to write response")
	}
}
