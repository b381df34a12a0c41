package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/pallet-service/pkg/errors"
	"github.com/wms-platform/pallet-service/pkg/logging"
)

func newRouter(t *testing.T, logger *logging.Logger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Setup(router, DefaultConfig("pallet-service-test", logger))
	return router
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIErrorResponse {
	t.Helper()
	var body APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequestID(t *testing.T) {
	router := newRouter(t, logging.NewNop())
	router.GET("/pallets", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		header string
	}{
		{"propagates incoming id", "req-42"},
		{"mints an id when absent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/pallets", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			if tt.header != "" {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEmpty(t, got)
			}
			assert.NotEmpty(t, w.Header().Get(HeaderCorrelationID))
		})
	}
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.New(&logging.Config{Level: logging.LevelInfo, ServiceName: "test", Output: &logs})

	router := newRouter(t, logger)
	router.GET("/boom", func(c *gin.Context) { panic("allocation exploded") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, errors.CodeInternalError, decodeError(t, w).Code)
	assert.Contains(t, logs.String(), "allocation exploded")
}

func TestErrorHandler(t *testing.T) {
	router := newRouter(t, logging.NewNop())
	router.DELETE("/pallets/:id", func(c *gin.Context) {
		_ = c.Error(errors.ErrConflict("pallet is not empty").WithDetail("id", c.Param("id")))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/pallets/P-1", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, errors.CodeConflict, body.Code)
	assert.Equal(t, "P-1", body.Details["id"])
	assert.Equal(t, "/pallets/P-1", body.Path)
	assert.NotEmpty(t, body.RequestID)
}

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ready := true
	router := gin.New()
	router.GET("/ready", ReadinessCheck("pallet-service", func() error {
		if ready {
			return nil
		}
		return assert.AnError
	}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ready = false
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
