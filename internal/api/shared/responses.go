package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/redact"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// Error classes attached to error logs. They mirror the status groups the
// API maps domain errors into.
const (
	ErrorClassAuth     = "auth"
	ErrorClassNotFound = "not_found"
	ErrorClassConflict = "conflict"
	ErrorClassClient   = "client"
	ErrorClassServer   = "server"
)

// ErrorClass names the group a response status belongs to.
func ErrorClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return ErrorClassServer
	case status == http.StatusUnauthorized:
		return ErrorClassAuth
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status == http.StatusConflict:
		return ErrorClassConflict
	default:
		return ErrorClassClient
	}
}

// errorLogLevel: server faults are errors, rejected credentials are worth
// seeing in normal operation, everything else is the caller's mistake.
func errorLogLevel(class string) slog.Level {
	switch class {
	case ErrorClassServer:
		return slog.LevelError
	case ErrorClassAuth:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// RespondWithJSON writes data as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
}

// RespondWithError writes an error body carrying message and the request's trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	RespondWithErrorAndLog(w, r, status, message, nil)
}

// RespondWithErrorAndLog writes message to the client and logs err, redacted,
// at a level chosen by the status class. err never reaches the response body.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	traceID := GetTraceID(r.Context())
	class := ErrorClass(status)

	attrs := []slog.Attr{
		slog.Int("status_code", status),
		slog.String("error_class", class),
		slog.String("user_message", message),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), errorLogLevel(class), "api error response", attrs...)

	RespondWithJSON(w, r, status, ErrorResponse{Error: message, TraceID: traceID})
}
