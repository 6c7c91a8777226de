package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/middleware"
	"github.com/noah-isme/review-desk-api/internal/models"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
	"github.com/noah-isme/review-desk-api/pkg/response"
)

func principalFromContext(c *gin.Context) *models.Principal {
	return middleware.Principal(c)
}

// bindJSON decodes the request body into dest, answering 400 on malformed input.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.ErrValidation.Because(err, message))
		return false
	}
	return true
}
