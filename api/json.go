package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/permitdesk/permitdesk/internal/permits"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, errorResponse{Error: msg}, status)
}

// respondServiceError maps core error types onto HTTP statuses: validation
// 400, missing resource 404, rejected transition 409, anything else 500
// without leaking repository detail.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *permits.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, errorResponse{Error: "invalid input", Fields: ve.Fields}, http.StatusBadRequest)
		return
	}

	var nf *permits.NotFoundError
	if errors.As(err, &nf) {
		writeError(w, nf.Error(), http.StatusNotFound)
		return
	}

	var it *permits.IllegalTransitionError
	if errors.As(err, &it) {
		writeError(w, it.Error(), http.StatusConflict)
		return
	}

	logger.Error("request failed", slog.Any("err", err))
	writeError(w, "internal server error", http.StatusInternalServerError)
}
