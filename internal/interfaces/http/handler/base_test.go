package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"domain error", shared.ErrBranchNotFound, http.StatusNotFound, shared.CodeBranchNotFound},
		{"wrapped domain error", fmt.Errorf("load: %w", shared.ErrAccessDenied), http.StatusForbidden, shared.CodeAccessDenied},
		{"validation", shared.NewValidationError("bad input"), http.StatusBadRequest, shared.CodeValidation},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, shared.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h BaseHandler
			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "req-1")
				h.HandleError(c, tt.err)
			})

			rec := serve(r, http.MethodGet, "/", "")

			assert.Equal(t, tt.status, rec.Code)
			resp, _ := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}

	t.Run("internal detail is hidden", func(t *testing.T) {
		var h BaseHandler
		r := gin.New()
		r.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("pq: connection refused")) })

		rec := serve(r, http.MethodGet, "/", "")

		assert.NotContains(t, rec.Body.String(), "connection refused")
		assert.Contains(t, rec.Body.String(), "An unexpected error occurred")
	})
}

func TestGetRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/ctx", func(c *gin.Context) {
		c.Set(middleware.RequestIDKey, "from-context")
		c.String(http.StatusOK, getRequestID(c))
	})
	r.GET("/header", func(c *gin.Context) { c.String(http.StatusOK, getRequestID(c)) })

	assert.Equal(t, "from-context", serve(r, http.MethodGet, "/ctx", "").Body.String())

	req, _ := http.NewRequest(http.MethodGet, "/header", nil)
	req.Header.Set(middleware.RequestIDHeader, "from-header")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "from-header", rec.Body.String())
}

func TestParseOptionalTime(t *testing.T) {
	got, err := parseOptionalTime("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseOptionalTime("2024-06-30")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))

	got, err = parseOptionalTime("2024-06-30T10:15:00+02:00")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 6, 30, 8, 15, 0, 0, time.UTC)))

	_, err = parseOptionalTime("30/06/2024")
	assert.Error(t, err)
}

func TestHealthHandler(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewHealthHandler(stubPinger{}).Health)

		rec := serve(r, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		_, data := decodeResponse(t, rec)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "up", data["database"])
	})

	t.Run("database down", func(t *testing.T) {
		r := gin.New()
		r.GET("/health", NewHealthHandler(stubPinger{err: errors.New("dial tcp")}).Health)

		rec := serve(r, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		resp, data := decodeResponse(t, rec)
		assert.Equal(t, "down", data["database"])
		assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)
	})
}
