package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propman/backend/internal/interfaces/http/dto"
	"github.com/propman/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBillTestEngine() *gin.Engine {
	middleware.SetupValidator()
	engine := gin.New()
	NewBillHandler(nil).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func TestBillHandlerListValidation(t *testing.T) {
	engine := newBillTestEngine()

	tests := []struct {
		name  string
		query string
	}{
		{"unknown payment status token", "payment_status=PAIDD"},
		{"malformed month", "month=2025-13"},
		{"malformed contract id", "contract_id=not-a-uuid"},
		{"zero page", "page=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/bills?"+tt.query, nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		})
	}
}
