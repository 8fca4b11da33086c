package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIdempotencyKey(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantKey    string
	}{
		{"absent", "", http.StatusOK, ""},
		{"valid", "order-7f3a", http.StatusOK, "order-7f3a"},
		{"contains space", "order 1", http.StatusBadRequest, ""},
		{"too long", strings.Repeat("k", MaxIdempotencyKeyLength+1), http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			router := gin.New()
			router.POST("/checkout", IdempotencyKey(), func(c *gin.Context) {
				got = GetIdempotencyKey(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
			if tt.header != "" {
				req.Header.Set(IdempotencyKeyHeader, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantKey, got)
		})
	}
}
