package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/internal/service"
	"github.com/noah-isme/review-desk-api/pkg/response"
)

type exportService interface {
	ExportWorkItems(ctx context.Context, p *models.Principal, format string) (*service.ExportFile, error)
}

// ExportHandler serves admin downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// WorkItems godoc
// @Summary Export every work item
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param admin_key query string true "Static admin key"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/work-items/export [get]
func (h *ExportHandler) WorkItems(c *gin.Context) {
	file, err := h.service.ExportWorkItems(c.Request.Context(), principalFromContext(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
