package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/deps"
)

const (
	RepoKey    = "hotel_repository"
	ServiceKey = "hotel_service"
)

// InitRepositories initializes and registers the hotel repository.
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)
}

// InitService builds the hotel service from the container and registers it.
func InitService(container *deps.Container) Service {
	repo := container.GetRepository(RepoKey).(Repository)
	service := NewService(repo, container.Logger)
	container.RegisterService(ServiceKey, service)
	return service
}

// Mount mounts the hotel and room routes on an authenticated group. Reads
// and writes are gated by separate permissions so viewing staff cannot edit
// the catalog.
func Mount(r *gin.RouterGroup, container *deps.Container, mw *role.Middleware) {
	handler := createHandler(container)

	hotelGroup := r.Group("/hotels")
	hotelGroup.GET("", mw.RequirePermissions(role.PermViewHotels), handler.ListHotels)
	hotelGroup.GET("/:id", mw.RequirePermissions(role.PermViewHotels), handler.GetHotel)
	hotelGroup.POST("", mw.RequirePermissions(role.PermManageHotels), handler.CreateHotel)
	hotelGroup.PUT("/:id", mw.RequirePermissions(role.PermManageHotels), handler.UpdateHotel)
	hotelGroup.DELETE("/:id", mw.RequirePermissions(role.PermManageHotels), handler.DeleteHotel)

	hotelGroup.GET("/:id/rooms", mw.RequirePermissions(role.PermViewRooms), handler.ListRooms)
	hotelGroup.POST("/:id/rooms", mw.RequirePermissions(role.PermManageRooms), handler.CreateRoom)
	hotelGroup.PUT("/:id/rooms/:roomID", mw.RequirePermissions(role.PermManageRooms), handler.UpdateRoom)
}

// createHandler creates a hotel handler with all dependencies.
func createHandler(container *deps.Container) *Handler {
	service := container.GetService(ServiceKey).(Service)
	return NewHandler(service, container.Sanitizer, container.Logger)
}
