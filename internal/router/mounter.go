// internal/router/mounter.go
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/roosthq/roost/internal/deps"
)

// MountFunc mounts one module's routes onto a group.
type MountFunc func(*gin.RouterGroup, *deps.Container)

// Mounter hands modules pre-built route groups so main wires every module
// the same way. Middleware comes in as plain gin handlers, which keeps this
// package free of module imports.
type Mounter struct {
	container *deps.Container
	prefix    string
}

func NewMounter(container *deps.Container, prefix string) *Mounter {
	return &Mounter{container: container, prefix: prefix}
}

// Public creates an unauthenticated group under the API prefix.
func (m *Mounter) Public(engine *gin.Engine) *RouteGroup {
	return &RouteGroup{group: engine.Group(m.prefix), container: m.container}
}

// Authenticated creates a group under the API prefix guarded by the given
// authentication handler.
func (m *Mounter) Authenticated(engine *gin.Engine, auth gin.HandlerFunc) *RouteGroup {
	group := engine.Group(m.prefix)
	group.Use(auth)
	return &RouteGroup{group: group, container: m.container}
}

type RouteGroup struct {
	group     *gin.RouterGroup
	container *deps.Container
}

// Mount provides a fluent interface for mounting modules.
func (rg *RouteGroup) Mount(mountFunc MountFunc) *RouteGroup {
	mountFunc(rg.group, rg.container)
	return rg
}

// Handle registers a single route directly on the group.
func (rg *RouteGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *RouteGroup {
	rg.group.Handle(method, path, handlers...)
	return rg
}
