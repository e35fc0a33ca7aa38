package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/roosthq/roost/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new booking repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// ListBookings returns bookings with filters and pagination, newest first.
func (r *repository) ListBookings(ctx context.Context, filters *BookingFilters) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{})
	query = r.applyBookingFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filters.Offset()).
		Limit(filters.Limit).
		Find(&bookings).Error
	return bookings, total, err
}

func (r *repository) applyBookingFilters(query *gorm.DB, filters *BookingFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filters.UserID)
	}

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	return query
}

func (r *repository) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// GetRoom returns a room by ID alone. Bookings carry the hotel ID from the
// room record, so no hotel scoping happens here.
func (r *repository) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	err := r.db.WithContext(ctx).Create(payment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateReference
	}
	return err
}

func (r *repository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// ListPayments returns payments with filters and pagination, newest first.
func (r *repository) ListPayments(ctx context.Context, filters *PaymentFilters) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if filters != nil && filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filters.Offset()).
		Limit(filters.Limit).
		Find(&payments).Error
	return payments, total, err
}

func (r *repository) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// SumCompletedPayments returns the total completed amount received against
// a booking.
func (r *repository) SumCompletedPayments(ctx context.Context, bookingID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// OccupancyRow is one aggregated row of the occupancy query.
type OccupancyRow struct {
	HotelID       uuid.UUID
	HotelName     string
	TotalRooms    int64
	OccupiedRooms int64
}

// OccupancyByHotel counts rooms with a confirmed or checked-in booking
// against total rooms, grouped per hotel.
func (r *repository) OccupancyByHotel(ctx context.Context) ([]OccupancyRow, error) {
	var rows []OccupancyRow
	err := r.db.WithContext(ctx).
		Table("hotels").
		Select("hotels.id AS hotel_id, hotels.name AS hotel_name, COUNT(DISTINCT rooms.id) AS total_rooms, COUNT(DISTINCT bookings.room_id) AS occupied_rooms").
		Joins("LEFT JOIN rooms ON rooms.hotel_id = hotels.id").
		Joins("LEFT JOIN bookings ON bookings.room_id = rooms.id AND bookings.status IN ?",
			[]models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}).
		Group("hotels.id, hotels.name").
		Order("hotels.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CreateAuditEntry(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
