package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/interfaces/http/dto"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerCreatedMessage(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.CreatedMessage(c, "Images uploaded", []string{"a"})

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Images uploaded", resp.Message)
}

func TestPaginated(t *testing.T) {
	c, w := newTestContext()
	page := shared.NewPaginated([]string{"a", "b"}, 12, 2, 5)

	Paginated(c, &page)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(12), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.DELETE("/test", func(c *gin.Context) { h.NoContent(c) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/test", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerErrorWithRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()
	c.Set(middleware.RequestIDKey, "req-42")

	h.NotFound(c, "Product not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
		expectedMsg  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists, "Resource already exists"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid input provided"},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Not authorized to perform this action"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden, "Access to this resource is forbidden"},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState, "Operation not allowed in current state"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict, "Resource was modified by another process"},
		{"insufficient stock", shared.NewDomainError("INSUFFICIENT_STOCK", "Only 2 left of Pixel 9"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock, "Only 2 left of Pixel 9"},
		{"has references", shared.ErrHasReferences, http.StatusConflict, dto.ErrCodeHasReferences, "Resource is still referenced by other records"},
		{"wrapped domain error", fmt.Errorf("load order: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound, "Resource not found"},
		{"database error keeps driver message", shared.WrapDomainError("DATABASE_ERROR", "deadlock detected", errors.New("pgconn: deadlock")), http.StatusInternalServerError, dto.ErrCodeDatabase, "deadlock detected"},
		{"plain error hides its message", errors.New("pq: connection refused"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedErr, resp.Error.Code)
			assert.Equal(t, tt.expectedMsg, resp.Error.Message)
		})
	}
}

func TestBaseHandlerHandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerParamUUID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	t.Run("valid", func(t *testing.T) {
		c, _ := newTestContext()
		c.Params = gin.Params{{Key: "id", Value: id.String()}}

		got, ok := h.paramUUID(c, "id", "product")
		assert.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("malformed", func(t *testing.T) {
		c, w := newTestContext()
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, ok := h.paramUUID(c, "id", "product")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid product ID format", decodeResponse(t, w).Error.Message)
	})
}

func TestBaseHandlerBindJSON(t *testing.T) {
	type request struct {
		Name string `json:"name" binding:"required"`
	}
	h := &BaseHandler{}

	t.Run("valid body", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request = httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]string{"name": "Pixel"}))
		c.Request.Header.Set("Content-Type", "application/json")

		var req request
		assert.True(t, h.bindJSON(c, &req))
		assert.Equal(t, "Pixel", req.Name)
	})

	t.Run("missing field", func(t *testing.T) {
		c, w := newTestContext()
		c.Request = httptest.NewRequest(http.MethodPost, "/", jsonBody(t, map[string]string{}))
		c.Request.Header.Set("Content-Type", "application/json")

		var req request
		assert.False(t, h.bindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decodeResponse(t, w).Success)
	})
}

func TestBaseHandlerCurrentCustomer(t *testing.T) {
	h := &BaseHandler{}

	t.Run("anonymous session", func(t *testing.T) {
		c, w := newTestContext()
		c.Set(middleware.SessionKey, session.New())

		_, ok := h.currentCustomer(c)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("signed in", func(t *testing.T) {
		c, _ := newTestContext()
		sess := session.New()
		customerID := uuid.New()
		sess.SignIn(customerID, "Ana")
		c.Set(middleware.SessionKey, sess)

		got, ok := h.currentCustomer(c)
		assert.True(t, ok)
		assert.Equal(t, customerID, got)
	})
}

func TestBaseHandlerCurrentAdminID(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext()
	_, ok := h.currentAdminID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = newTestContext()
	admin := &identity.Admin{Username: "root"}
	admin.ID = uuid.New()
	c.Set(middleware.AdminKey, admin)
	got, ok := h.currentAdminID(c)
	assert.True(t, ok)
	assert.Equal(t, admin.ID, got)
}
