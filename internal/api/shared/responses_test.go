package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClass(t *testing.T) {
	t.Parallel()

	testCases := map[int]string{
		http.StatusBadRequest:          ErrorClassClient,
		http.StatusUnauthorized:        ErrorClassAuth,
		http.StatusNotFound:            ErrorClassNotFound,
		http.StatusConflict:            ErrorClassConflict,
		http.StatusInternalServerError: ErrorClassServer,
		http.StatusServiceUnavailable:  ErrorClassServer,
	}
	for status, want := range testCases {
		assert.Equal(t, want, ErrorClass(status), "status %d", status)
	}
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		status    int
		err       error
		wantLevel string
		wantClass string
	}{
		{"server fault", http.StatusInternalServerError, errors.New("db down"), "ERROR", ErrorClassServer},
		{"rejected token", http.StatusUnauthorized, errors.New("bad signature"), "INFO", ErrorClassAuth},
		{"missing item", http.StatusNotFound, errors.New("no rows"), "DEBUG", ErrorClassNotFound},
		{"bad grade", http.StatusBadRequest, nil, "DEBUG", ErrorClassClient},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
			ctx := SetTraceID(logger.WithContext(req.Context(), log))
			req = req.WithContext(ctx)
			rr := httptest.NewRecorder()

			RespondWithErrorAndLog(rr, req, tc.status, "safe message", tc.err)

			require.Equal(t, tc.status, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, "safe message", body.Error)
			assert.Equal(t, GetTraceID(ctx), body.TraceID)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, tc.wantClass, entry["error_class"])
			if tc.err != nil {
				assert.Equal(t, tc.err.Error(), entry["error"])
			}
		})
	}
}

func TestRespondWithErrorAndLogRedacts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	req := httptest.NewRequest(http.MethodPost, "/api/profile", nil)
	req = req.WithContext(logger.WithContext(req.Context(), log))
	rr := httptest.NewRecorder()

	err := errors.New("connect postgres://kioku:hunter2@db:5432/kioku failed")
	RespondWithErrorAndLog(rr, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.NotContains(t, buf.String(), "hunter2")
	assert.NotContains(t, rr.Body.String(), "postgres://")
	assert.True(t, strings.Contains(buf.String(), "[REDACTED_CREDENTIAL]"))
}
