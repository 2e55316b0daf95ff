package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shapestone/shape-table/internal/export/pgcopy"
	"github.com/shapestone/shape-table/internal/logging"
	"github.com/shapestone/shape-table/internal/session"
	"github.com/shapestone/shape-table/pkg/table"
)

// errNoDatabase is returned by the copy endpoint when no database is
// configured.
var errNoDatabase = errors.New("no database configured")

// errBadRequest marks malformed parameters and bodies.
var errBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// classify maps an error to a status code and a machine-readable code.
func classify(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrOutOfRange):
		return http.StatusBadRequest, "out_of_range"
	case errors.Is(err, session.ErrLimit):
		return http.StatusTooManyRequests, "too_many_documents"
	case errors.Is(err, table.ErrInvalidDialect):
		return http.StatusBadRequest, "invalid_dialect"
	case errors.Is(err, table.ErrEmptyInput):
		return http.StatusBadRequest, "empty_input"
	case errors.Is(err, pgcopy.ErrNoColumns):
		return http.StatusBadRequest, "no_columns"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, errNoDatabase):
		return http.StatusServiceUnavailable, "no_database"
	}
	return http.StatusInternalServerError, "internal"
}

// respondError logs err and writes it as JSON. Internal errors are not
// echoed to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	requestID := middleware.GetReqID(r.Context())

	log := logging.FromContext(r.Context())
	attrs := []any{"path", r.URL.Path, "method", r.Method, "status", status, "code", code, "error", err.Error()}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", attrs...)
	} else {
		log.Warn("request rejected", attrs...)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code, RequestID: requestID})
}

// writeJSON encodes v as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
