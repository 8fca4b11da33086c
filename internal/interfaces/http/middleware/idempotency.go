package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phonestore/backend/internal/interfaces/http/dto"
)

// Idempotency settings for order placement
const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotencyKeyCtxKey    = "idempotency_key"
	MaxIdempotencyKeyLength = 128
)

// IdempotencyKey validates the optional Idempotency-Key header and stores it
// for the handler. Keys must be printable ASCII.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if !validIdempotencyKey(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Invalid Idempotency-Key header", GetRequestID(c)))
			return
		}
		c.Set(IdempotencyKeyCtxKey, key)
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key, or "" when none was sent
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(IdempotencyKeyCtxKey)
}

func validIdempotencyKey(key string) bool {
	if len(key) > MaxIdempotencyKeyLength {
		return false
	}
	for i := 0; i < len(key); i++ {
		if key[i] < 0x21 || key[i] > 0x7e {
			return false
		}
	}
	return true
}
