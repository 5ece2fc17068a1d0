package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks map[string]Check) *gin.Engine {
	h := NewHealth(checks)
	r := gin.New()
	r.GET("/healthz", h)
	r.HEAD("/healthz", h)
	r.OPTIONS("/healthz", h)
	return r
}

func ok(ctx context.Context) error   { return nil }
func down(ctx context.Context) error { return errors.New("connection refused") }

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		checks         map[string]Check
		method         string
		expectedStatus int
		expectedBody   string
	}{
		{"no dependencies", nil, http.MethodGet, http.StatusOK, `{"status":"ok"}`},
		{"all healthy", map[string]Check{"db": ok, "redis": ok}, http.MethodGet, http.StatusOK,
			`{"status":"ok","checks":{"db":"ok","redis":"ok"}}`},
		{"redis down", map[string]Check{"db": ok, "redis": down}, http.MethodGet, http.StatusServiceUnavailable,
			`{"status":"degraded","checks":{"db":"ok","redis":"unavailable"}}`},
		{"head healthy", map[string]Check{"db": ok}, http.MethodHead, http.StatusOK, ``},
		{"head degraded", map[string]Check{"db": down}, http.MethodHead, http.StatusServiceUnavailable, ``},
		{"options", map[string]Check{"db": down}, http.MethodOptions, http.StatusNoContent, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			setupRouter(tt.checks).ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.expectedBody == "" {
				assert.Zero(t, w.Body.Len())
				return
			}
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHealth_CheckReceivesDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	checks := map[string]Check{"db": func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}}

	w := httptest.NewRecorder()
	setupRouter(checks).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var res HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ok", res.Status)
	assert.True(t, hasDeadline)
}
