package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/models"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
	"github.com/noah-isme/review-desk-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved *models.Principal.
const ContextUserKey = "currentUser"

// TokenResolver turns a bearer token into a principal.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.Principal, error)
}

// Authenticate protects routes by requiring a valid bearer token.
func Authenticate(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthenticated, "missing or malformed bearer token"))
			return
		}

		principal, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserKey, principal)
		c.Next()
	}
}

// Principal returns the principal stored by Authenticate or AdminKey, or nil.
func Principal(c *gin.Context) *models.Principal {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
