package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/pkg/response"
)

type accountService interface {
	ListStudents(ctx context.Context, p *models.Principal) ([]models.AccountInfo, error)
	ListAll(ctx context.Context, p *models.Principal) ([]models.AccountInfo, error)
}

// AccountHandler lists accounts for teachers and admin-key holders.
type AccountHandler struct {
	service accountService
}

// NewAccountHandler builds a new handler.
func NewAccountHandler(service accountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// ListStudents godoc
// @Summary List students
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /teacher/students [get]
func (h *AccountHandler) ListStudents(c *gin.Context) {
	students, err := h.service.ListStudents(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students)
}

// ListAll godoc
// @Summary List every account
// @Tags Admin
// @Produce json
// @Param admin_key query string true "Static admin key"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/accounts [get]
func (h *AccountHandler) ListAll(c *gin.Context) {
	accounts, err := h.service.ListAll(c.Request.Context(), principalFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, accounts)
}
