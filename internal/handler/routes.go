package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/review-desk-api/internal/authz"
	"github.com/noah-isme/review-desk-api/internal/middleware"
)

// Handlers groups every API handler mounted by RegisterRoutes.
type Handlers struct {
	Auth     *AuthHandler
	WorkItem *WorkItemHandler
	Account  *AccountHandler
	Export   *ExportHandler
}

// RegisterRoutes mounts the versioned API under group. Services repeat the gate's ownership
// checks once resources are loaded; route middleware only rejects impossible roles early.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, resolver middleware.TokenResolver, gate *authz.Gate) {
	authn := middleware.Authenticate(resolver)

	auth := group.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/me", authn, h.Auth.Me)

	items := group.Group("/work-items", authn)
	items.POST("", middleware.Require(gate, authz.ActionCreateWorkItem), h.WorkItem.Create)
	items.GET("", h.WorkItem.List)
	items.GET("/:id", h.WorkItem.Get)
	items.PUT("/:id", middleware.Require(gate, authz.ActionEditWorkItem), h.WorkItem.Update)
	items.PUT("/:id/status", middleware.Require(gate, authz.ActionSetWorkItemStatus), h.WorkItem.SetStatus)
	items.DELETE("/:id", middleware.Require(gate, authz.ActionDeleteWorkItem), h.WorkItem.Delete)

	teacher := group.Group("/teacher", authn, middleware.Require(gate, authz.ActionListStudents))
	teacher.GET("/students", h.Account.ListStudents)
	teacher.GET("/students/:id/work-items", h.WorkItem.ListForStudent)

	admin := group.Group("/admin", middleware.AdminKey(gate))
	admin.GET("/work-items", h.WorkItem.ListAll)
	admin.GET("/work-items/export", h.Export.WorkItems)
	admin.GET("/accounts", h.Account.ListAll)
	admin.GET("/students/:id/work-items", h.WorkItem.ListForStudent)
}
