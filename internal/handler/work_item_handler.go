package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/pkg/response"
)

type workItemService interface {
	Create(ctx context.Context, p *models.Principal, req models.CreateWorkItemRequest) (*models.WorkItem, error)
	ListOwn(ctx context.Context, p *models.Principal) ([]models.WorkItem, error)
	Get(ctx context.Context, p *models.Principal, id string) (*models.WorkItem, error)
	Update(ctx context.Context, p *models.Principal, id string, req models.UpdateWorkItemRequest) (*models.WorkItem, error)
	SetStatus(ctx context.Context, p *models.Principal, id string, req models.SetStatusRequest) (*models.WorkItem, error)
	Delete(ctx context.Context, p *models.Principal, id string) error
	ListForStudent(ctx context.Context, p *models.Principal, studentID string) ([]models.WorkItem, error)
	ListAll(ctx context.Context, p *models.Principal) ([]models.WorkItem, error)
}

// WorkItemHandler exposes the work item endpoints used by students and reviewing teachers.
type WorkItemHandler struct {
	service workItemService
}

// NewWorkItemHandler builds a new handler.
func NewWorkItemHandler(service workItemService) *WorkItemHandler {
	return &WorkItemHandler{service: service}
}

// Create godoc
// @Summary Submit a work item
// @Tags Work Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateWorkItemRequest true "Work item payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /work-items [post]
func (h *WorkItemHandler) Create(c *gin.Context) {
	var req models.CreateWorkItemRequest
	if !bindJSON(c, &req, "invalid work item payload") {
		return
	}
	item, err := h.service.Create(c.Request.Context(), principalFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List own work items
// @Tags Work Items
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /work-items [get]
func (h *WorkItemHandler) List(c *gin.Context) {
	items, err := h.service.ListOwn(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items)
}

// Get godoc
// @Summary Get a work item
// @Tags Work Items
// @Produce json
// @Security BearerAuth
// @Param id path string true "Work item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /work-items/{id} [get]
func (h *WorkItemHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Update godoc
// @Summary Edit own work item
// @Description Changing title or content returns the item to draft
// @Tags Work Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Work item ID"
// @Param payload body models.UpdateWorkItemRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /work-items/{id} [put]
func (h *WorkItemHandler) Update(c *gin.Context) {
	var req models.UpdateWorkItemRequest
	if !bindJSON(c, &req, "invalid work item payload") {
		return
	}
	item, err := h.service.Update(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// SetStatus godoc
// @Summary Review a work item
// @Description Teachers set draft, pending, in_review, reviewed or needs_revision
// @Tags Work Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Work item ID"
// @Param payload body models.SetStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /work-items/{id}/status [put]
func (h *WorkItemHandler) SetStatus(c *gin.Context) {
	var req models.SetStatusRequest
	if !bindJSON(c, &req, "invalid status payload") {
		return
	}
	item, err := h.service.SetStatus(c.Request.Context(), principalFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, item)
}

// Delete godoc
// @Summary Delete own work item
// @Tags Work Items
// @Security BearerAuth
// @Param id path string true "Work item ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /work-items/{id} [delete]
func (h *WorkItemHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), principalFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListForStudent godoc
// @Summary List a student's work items
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student account ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teacher/students/{id}/work-items [get]
func (h *WorkItemHandler) ListForStudent(c *gin.Context) {
	items, err := h.service.ListForStudent(c.Request.Context(), principalFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items)
}

// ListAll godoc
// @Summary List every work item
// @Tags Admin
// @Produce json
// @Param admin_key query string true "Static admin key"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/work-items [get]
func (h *WorkItemHandler) ListAll(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items)
}
