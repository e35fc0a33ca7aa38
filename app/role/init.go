package role

import (
	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/internal/deps"
)

const (
	RepoKey    = "role_repository"
	ServiceKey = "role_service"
)

// InitRepositories initializes and registers the role repository.
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)
}

// InitService builds the role service from the container and registers it.
// The service is returned so main can run seeding and build the middleware.
func InitService(container *deps.Container, cfg *Config) Service {
	repo := container.GetRepository(RepoKey).(Repository)
	service := NewService(repo, container.Cache, container.Logger, cfg)
	container.RegisterService(ServiceKey, service)
	return service
}

// Mount mounts the role routes on an authenticated group. Gates follow the
// permission catalog; only seeding is pinned to the admin role itself.
func Mount(r *gin.RouterGroup, container *deps.Container, mw *Middleware) {
	handler := createHandler(container)

	roleGroup := r.Group("/role")
	roleGroup.POST("/initialize", mw.RequireAdmin(), handler.InitializeRoles)
	roleGroup.POST("", mw.RequirePermissions(PermManageRoles), handler.CreateRole)
	roleGroup.GET("", mw.RequirePermissions(PermManageRoles), handler.ListRoles)
	roleGroup.GET("/catalog", mw.RequirePermissions(PermManageRoles), handler.GetCatalog)
	roleGroup.POST("/assign", mw.RequirePermissions(PermAssignRoles), handler.AssignRole)
	roleGroup.POST("/bulk-assign", mw.RequirePermissions(PermAssignRoles), handler.BulkAssignRole)
	roleGroup.GET("/users/:name", mw.RequirePermissions(PermReadUser), handler.GetUsersByRole)
	roleGroup.GET("/permissions/:name", mw.RequirePermissions(PermManageRoles), handler.GetRolePermissions)
	roleGroup.GET("/check-permission/:permission", handler.CheckPermission)
	roleGroup.GET("/:id", mw.RequirePermissions(PermManageRoles), handler.GetRole)
	roleGroup.PUT("/:id", mw.RequirePermissions(PermManageRoles), handler.UpdateRole)
	roleGroup.DELETE("/:id", mw.RequirePermissions(PermManageRoles), handler.DeleteRole)
}

// createHandler creates a role handler with all dependencies.
func createHandler(container *deps.Container) *Handler {
	service := container.GetService(ServiceKey).(Service)
	return NewHandler(service, container.Sanitizer, container.Logger)
}
