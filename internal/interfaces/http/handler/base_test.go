package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/interfaces/http/dto"
	"github.com/propman/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name: "from context",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-request-id")
			},
			expectedID: "ctx-request-id",
		},
		{
			name: "from header when context empty",
			setup: func(c *gin.Context) {
				c.Request.Header.Set(middleware.RequestIDKey, "header-request-id")
			},
			expectedID: "header-request-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set(middleware.RequestIDKey, "ctx-id")
				c.Request.Header.Set(middleware.RequestIDKey, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)
			tt.setup(c)

			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SuccessWithMeta(c, []string{"a", "b"}, 100, 1, 10)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(100), resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.TotalPages)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Created(c, map[string]string{"id": "123"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name         string
		method       func(*BaseHandler, *gin.Context)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "BadRequest",
			method: func(h *BaseHandler, c *gin.Context) {
				h.BadRequest(c, "Invalid request")
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  dto.ErrCodeBadRequest,
		},
		{
			name: "NotFound",
			method: func(h *BaseHandler, c *gin.Context) {
				h.NotFound(c, "Resource not found")
			},
			expectedCode: http.StatusNotFound,
			expectedErr:  dto.ErrCodeNotFound,
		},
		{
			name: "InternalError",
			method: func(h *BaseHandler, c *gin.Context) {
				h.InternalError(c, "Server error")
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			tt.method(h, c)

			assert.Equal(t, tt.expectedCode, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
		})
	}
}

func TestBaseHandlerErrorWithRequestID(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	c.Set(middleware.RequestIDKey, "test-request-123")

	h.BadRequest(c, "Invalid request")

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test-request-123", resp.Error.RequestID)
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		h.HandleError(c, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})

	t.Run("domain error maps through the status table", func(t *testing.T) {
		tests := []struct {
			code         string
			expectedCode int
		}{
			{"BILLS_EXIST", http.StatusConflict},
			{"GENERATION_IN_PROGRESS", http.StatusConflict},
			{"NEGATIVE_CONSUMPTION", http.StatusBadRequest},
			{"INVALID_STATE", http.StatusUnprocessableEntity},
			{"NOT_FOUND", http.StatusNotFound},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			h.HandleError(c, shared.NewDomainError(tt.code, "boom"))

			assert.Equal(t, tt.expectedCode, w.Code, "code %s", tt.code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		}
	})

	t.Run("wrapped domain error keeps its code", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		wrapped := fmt.Errorf("loading bill: %w", shared.ErrNotFound)
		h.HandleError(c, wrapped)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("standard error becomes 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/", nil)

		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}
