package common

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerly-inc/customerly/internal/interfaces/http/handlers/testutil"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

type fixedCounter int

func (f fixedCounter) Count() int { return int(f) }

func TestHealthHandler_HealthCheck(t *testing.T) {
	up := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantState  string
	}{
		{"all up", map[string]Check{"database": up, "redis": up}, http.StatusOK, "healthy"},
		{"redis down", map[string]Check{"database": up, "redis": down}, http.StatusServiceUnavailable, "degraded"},
		{"no checks", nil, http.StatusOK, "healthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checks, fixedCounter(3), logger.NewNop())
			c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)

			handler.HealthCheck(c)

			require.Equal(t, tt.wantStatus, w.Code)
			var body struct {
				Status      string            `json:"status"`
				Checks      map[string]string `json:"checks"`
				Connections int               `json:"realtime_connections"`
			}
			require.NoError(t, testutil.ParseResponse(w, &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, 3, body.Connections)
			for name := range tt.checks {
				assert.Contains(t, []string{"up", "down"}, body.Checks[name])
			}
		})
	}
}
