package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// crudService is the shape shared by the admin reference-data services
type crudService[Req, Resp any] interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Resp, error)
	Create(ctx context.Context, req Req) (*Resp, error)
	Update(ctx context.Context, id uuid.UUID, req Req) (*Resp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func getOne[Req, Resp any](h *BaseHandler, c *gin.Context, svc crudService[Req, Resp], label string) {
	id, ok := h.paramUUID(c, "id", label)
	if !ok {
		return
	}
	resp, err := svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func createOne[Req, Resp any](h *BaseHandler, c *gin.Context, svc crudService[Req, Resp]) {
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := svc.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func updateOne[Req, Resp any](h *BaseHandler, c *gin.Context, svc crudService[Req, Resp], label string) {
	id, ok := h.paramUUID(c, "id", label)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func deleteOne[Req, Resp any](h *BaseHandler, c *gin.Context, svc crudService[Req, Resp], label string) {
	id, ok := h.paramUUID(c, "id", label)
	if !ok {
		return
	}
	if err := svc.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func listAll[T any](h *BaseHandler, c *gin.Context, list func(ctx context.Context) ([]T, error)) {
	items, err := list(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}
