package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/authz"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
	"github.com/noah-isme/review-desk-api/pkg/response"
)

// AdminKeyParam is the query parameter carrying the static admin key.
const AdminKeyParam = "admin_key"

// Require rejects callers whose role can never perform action. Ownership is left to the
// service, which sees the loaded resource.
func Require(gate *authz.Gate, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		op := authz.Operation{Action: action}
		if principal != nil {
			op.OwnerID = principal.AccountID
		}
		if err := gate.Authorize(principal, op); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

// AdminKey admits callers presenting the configured admin key and stores an admin principal.
// A missing or wrong key is forbidden.
func AdminKey(gate *authz.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := gate.AdminPrincipal(c.Query(AdminKeyParam))
		if principal == nil {
			response.Abort(c, appErrors.Clone(appErrors.ErrForbidden, "invalid admin key"))
			return
		}
		c.Set(ContextUserKey, principal)
		c.Next()
	}
}
