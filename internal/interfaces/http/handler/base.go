// Package handler implements the storefront and admin HTTP endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/logger"
	"github.com/phonestore/backend/internal/interfaces/http/dto"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessMessage sends a success response with a user-facing message
func (h *BaseHandler) SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message, data))
}

// Paginated sends a page of items with pagination meta
func Paginated[T any](c *gin.Context, page *shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// CreatedMessage sends a 201 created response with a user-facing message
func (h *BaseHandler) CreatedMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.NewMessageResponse(message, data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError maps domain errors onto the error envelope; database failures
// keep the driver message. Anything that is not a domain error is logged and
// reported as a 500 without its message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed",
				zap.String("path", c.FullPath()),
				zap.String("code", code),
				zap.Error(err))
		}
		h.Error(c, status, code, domainErr.Message)
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// bindJSON binds the request body and writes the validation envelope on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters and writes the validation envelope on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// paramUUID parses a UUID path parameter, answering 400 when it is malformed
func (h *BaseHandler) paramUUID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// session returns the storefront session; the Session middleware always sets one
func (h *BaseHandler) session(c *gin.Context) (*session.Session, bool) {
	sess := middleware.GetSession(c)
	if sess == nil {
		h.InternalError(c, "Session is not available")
		return nil, false
	}
	return sess, true
}

// currentCustomer returns the signed-in customer of the storefront session
func (h *BaseHandler) currentCustomer(c *gin.Context) (uuid.UUID, bool) {
	sess := middleware.GetSession(c)
	if sess == nil || sess.CustomerID == nil {
		h.Unauthorized(c, "Please sign in to continue")
		return uuid.Nil, false
	}
	return *sess.CustomerID, true
}

// currentAdminID returns the id of the authenticated admin
func (h *BaseHandler) currentAdminID(c *gin.Context) (uuid.UUID, bool) {
	admin := middleware.GetAdmin(c)
	if admin == nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return admin.ID, true
}
