package booking

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/cache"
	"github.com/roosthq/roost/internal/deps"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/security"
)

func TestInitRepositories(t *testing.T) {
	container := createTestContainer()

	InitRepositories(container)

	repo := container.GetRepository(RepoKey)
	assert.NotNil(t, repo)
	assert.Implements(t, (*Repository)(nil), repo)
}

func TestInitService(t *testing.T) {
	container := createTestContainer()
	InitRepositories(container)

	// The booking service borrows the role service for cancel authority
	// checks, so the role module has to be wired up first.
	role.InitRepositories(container)
	role.InitService(container, role.GetDefaultConfig())

	service := InitService(container)

	assert.NotNil(t, service)
	assert.Implements(t, (*Service)(nil), service)
	assert.Same(t, service, container.GetService(ServiceKey))
}

func TestMount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	container := createTestContainer()
	container.RegisterService(ServiceKey, &MockService{})

	Mount(router.Group("/api/v1"), container, createTestMiddleware(container))

	routes := router.Routes()
	assertRouteExists(t, routes, "POST", "/api/v1/bookings")
	assertRouteExists(t, routes, "GET", "/api/v1/bookings")
	assertRouteExists(t, routes, "GET", "/api/v1/bookings/my")
	assertRouteExists(t, routes, "POST", "/api/v1/bookings/:id/approve")
	assertRouteExists(t, routes, "POST", "/api/v1/bookings/:id/cancel")
	assertRouteExists(t, routes, "POST", "/api/v1/bookings/:id/payments")
	assertRouteExists(t, routes, "GET", "/api/v1/payments")
	assertRouteExists(t, routes, "POST", "/api/v1/payments/:id/refund")
	assertRouteExists(t, routes, "GET", "/api/v1/reports/occupancy")
}

func createTestContainer() *deps.Container {
	return deps.NewContainer(
		&gorm.DB{},
		&security.MockMaker{},
		sanitizer.NewHTMLStripper(),
		logger.NewNullLogger(),
		&cache.MockCache{},
	)
}

// createTestMiddleware builds a real role middleware; Mount only registers
// routes, so the gates are never executed here.
func createTestMiddleware(container *deps.Container) *role.Middleware {
	role.InitRepositories(container)
	roleService := role.InitService(container, role.GetDefaultConfig())
	return role.NewMiddleware(&security.MockMaker{}, roleService, role.GetDefaultConfig(), logger.NewNullLogger())
}

func assertRouteExists(t *testing.T, routes []gin.RouteInfo, method, path string) {
	for _, route := range routes {
		if route.Method == method && route.Path == path {
			return
		}
	}
	t.Errorf("Route %s %s not found", method, path)
}
