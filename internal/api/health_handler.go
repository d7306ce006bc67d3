package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/kioku/internal/api/shared"
	"github.com/phrazzld/kioku/internal/platform/logger"
)

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// NewHealthHandler reports 200 when the database answers a ping within
// timeout, 503 otherwise.
func NewHealthHandler(db Pinger, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", slog.String("error", err.Error()))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
				HealthResponse{Status: "unavailable", Database: "down"})
			return
		}
		RespondOK(w, r, HealthResponse{Status: "ok", Database: "up"})
	}
}
