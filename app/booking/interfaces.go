package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roosthq/roost/models"
)

type Repository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	ListBookings(ctx context.Context, filters *BookingFilters) ([]models.Booking, int64, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error

	GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)

	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListPayments(ctx context.Context, filters *PaymentFilters) ([]models.Payment, int64, error)
	UpdatePayment(ctx context.Context, payment *models.Payment) error
	SumCompletedPayments(ctx context.Context, bookingID uuid.UUID) (decimal.Decimal, error)

	OccupancyByHotel(ctx context.Context) ([]OccupancyRow, error)

	CreateAuditEntry(ctx context.Context, entry *models.AuditLog) error
}

// PermissionChecker resolves whether a user holds a permission. The role
// service satisfies it.
type PermissionChecker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
}

type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*BookingResponse, error)
	ListBookings(ctx context.Context, filters *BookingFilters) (*BookingListResponse, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID, filters *BookingFilters) (*BookingListResponse, error)
	ApproveBooking(ctx context.Context, id, actorID uuid.UUID) (*BookingResponse, error)
	CancelBooking(ctx context.Context, id, actorID uuid.UUID) (*BookingResponse, error)
	RecordPayment(ctx context.Context, bookingID, actorID uuid.UUID, req *RecordPaymentRequest) (*PaymentResponse, error)
	ListPayments(ctx context.Context, filters *PaymentFilters) (*PaymentListResponse, error)
	RefundPayment(ctx context.Context, id, actorID uuid.UUID) (*PaymentResponse, error)
	OccupancyReport(ctx context.Context) (*OccupancyReportResponse, error)
}
