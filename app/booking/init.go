package booking

import (
	"github.com/gin-gonic/gin"

	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/deps"
)

const (
	RepoKey    = "booking_repository"
	ServiceKey = "booking_service"
)

// InitRepositories initializes and registers the booking repository.
func InitRepositories(container *deps.Container) {
	repo := NewRepository(container.DB)
	container.RegisterRepository(RepoKey, repo)
}

// InitService builds the booking service and registers it. The role service
// must be registered first; it backs the cancel authority check.
func InitService(container *deps.Container) Service {
	repo := container.GetRepository(RepoKey).(Repository)
	roleService := container.GetService(role.ServiceKey).(role.Service)
	service := NewService(repo, roleService, container.Logger)
	container.RegisterService(ServiceKey, service)
	return service
}

// Mount mounts the booking, payment and report routes on an authenticated
// group. Creating and listing one's own bookings needs no permission beyond
// a valid token.
func Mount(r *gin.RouterGroup, container *deps.Container, mw *role.Middleware) {
	handler := createHandler(container)

	bookingGroup := r.Group("/bookings")
	bookingGroup.POST("", handler.CreateBooking)
	bookingGroup.GET("", mw.RequirePermissions(role.PermViewBookings), handler.ListBookings)
	bookingGroup.GET("/my", handler.ListMyBookings)
	bookingGroup.POST("/:id/approve", mw.RequirePermissions(role.PermApproveBookings), handler.ApproveBooking)
	bookingGroup.POST("/:id/cancel", mw.RequirePermissions(role.PermCancelBookings), handler.CancelBooking)
	bookingGroup.POST("/:id/payments", mw.RequirePermissions(role.PermManagePayments), handler.RecordPayment)

	paymentGroup := r.Group("/payments")
	paymentGroup.GET("", mw.RequirePermissions(role.PermViewPayments), handler.ListPayments)
	paymentGroup.POST("/:id/refund", mw.RequirePermissions(role.PermRefundPayments), handler.RefundPayment)

	r.GET("/reports/occupancy", mw.RequirePermissions(role.PermViewReports), handler.OccupancyReport)
}

// createHandler creates a booking handler with all dependencies.
func createHandler(container *deps.Container) *Handler {
	service := container.GetService(ServiceKey).(Service)
	return NewHandler(service, container.Sanitizer, container.Logger)
}
