package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/models"
)

type service struct {
	repo   Repository
	perms  PermissionChecker
	logger logger.Logger
}

// NewService creates a booking service. The permission checker decides
// whether a non-owner may cancel someone else's booking.
func NewService(repo Repository, perms PermissionChecker, log logger.Logger) Service {
	return &service{
		repo:   repo,
		perms:  perms,
		logger: log,
	}
}

// CreateBooking reserves a room for the calling user. The total is computed
// from the room's nightly price at booking time and never recomputed, so a
// later price change does not alter existing bookings.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*BookingResponse, error) {
	room, err := s.repo.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	if !room.IsAvailable {
		return nil, models.ErrRoomUnavailable
	}
	if req.Guests > room.Capacity {
		return nil, models.ErrInvalidGuestCount
	}

	checkIn, checkOut := req.Stay()
	booking := &models.Booking{
		UserID:   userID,
		HotelID:  room.HotelID,
		RoomID:   room.ID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   req.Guests,
		Status:   models.BookingStatusPending,
		Notes:    req.Notes,
	}
	booking.TotalAmount = booking.CalculateTotal(room.PricePerNight)

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info("booking created", logger.Fields{
		"booking_id": booking.ID,
		"room_id":    room.ID,
		"nights":     booking.Nights(),
	})

	return ToBookingResponse(booking), nil
}

// ListBookings returns all bookings matching the filters.
func (s *service) ListBookings(ctx context.Context, filters *BookingFilters) (*BookingListResponse, error) {
	records, total, err := s.repo.ListBookings(ctx, filters)
	if err != nil {
		return nil, err
	}

	return s.toBookingList(records, total, filters), nil
}

// ListMyBookings returns the calling user's bookings.
func (s *service) ListMyBookings(ctx context.Context, userID uuid.UUID, filters *BookingFilters) (*BookingListResponse, error) {
	filters.UserID = userID

	records, total, err := s.repo.ListBookings(ctx, filters)
	if err != nil {
		return nil, err
	}

	return s.toBookingList(records, total, filters), nil
}

func (s *service) toBookingList(records []models.Booking, total int64, filters *BookingFilters) *BookingListResponse {
	bookings := make([]BookingResponse, len(records))
	for i := range records {
		bookings[i] = *ToBookingResponse(&records[i])
	}

	return &BookingListResponse{
		Bookings:   bookings,
		Total:      total,
		Page:       filters.Page,
		TotalPages: api.CalcTotalPages(total, filters.Limit),
	}
}

// ApproveBooking moves a pending booking to confirmed.
func (s *service) ApproveBooking(ctx context.Context, id, actorID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingStatusPending {
		return nil, models.ErrBookingNotPending
	}

	booking.Status = models.BookingStatusConfirmed
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionBookingApprove, models.AuditResourceBooking, &booking.ID,
		models.AuditValues{"status": string(models.BookingStatusPending)},
		models.AuditValues{"status": string(models.BookingStatusConfirmed)},
	)
	s.writeAudit(ctx, entry)

	s.logger.Info("booking approved", logger.Fields{"booking_id": booking.ID, "approved_by": actorID})

	return ToBookingResponse(booking), nil
}

// CancelBooking cancels a booking. Owners may cancel their own; anyone else
// needs the manage_bookings permission.
func (s *service) CancelBooking(ctx context.Context, id, actorID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != actorID {
		allowed, err := s.perms.HasPermission(ctx, actorID, role.PermManageBookings)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, models.ErrBookingNotOwned
		}
	}

	if !booking.IsCancellable() {
		return nil, models.ErrBookingClosed
	}

	previous := booking.Status
	booking.Cancel()
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionBookingCancel, models.AuditResourceBooking, &booking.ID,
		models.AuditValues{"status": string(previous)},
		models.AuditValues{"status": string(models.BookingStatusCancelled)},
	)
	s.writeAudit(ctx, entry)

	s.logger.Info("booking cancelled", logger.Fields{"booking_id": booking.ID, "cancelled_by": actorID})

	return ToBookingResponse(booking), nil
}

// RecordPayment records a completed payment against a booking. When the
// completed total covers the booking amount, a pending booking is confirmed.
func (s *service) RecordPayment(ctx context.Context, bookingID, actorID uuid.UUID, req *RecordPaymentRequest) (*PaymentResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, models.ErrBookingClosed
	}

	payment := &models.Payment{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Status:    models.PaymentStatusCompleted,
		Method:    models.PaymentMethod(req.Method),
		Reference: req.Reference,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionPaymentRecord, models.AuditResourcePayment, &payment.ID, nil,
		models.AuditValues{
			"booking_id": booking.ID.String(),
			"amount":     payment.Amount.String(),
			"reference":  payment.Reference,
		},
	)
	s.writeAudit(ctx, entry)

	s.confirmWhenPaid(ctx, booking)

	s.logger.Info("payment recorded", logger.Fields{
		"payment_id": payment.ID,
		"booking_id": booking.ID,
		"amount":     payment.Amount.String(),
	})

	return ToPaymentResponse(payment), nil
}

// confirmWhenPaid confirms a pending booking once completed payments cover
// its total. The payment itself is already recorded, so failures here are
// logged and the booking is picked up by the next payment.
func (s *service) confirmWhenPaid(ctx context.Context, booking *models.Booking) {
	if booking.Status != models.BookingStatusPending {
		return
	}

	paid, err := s.repo.SumCompletedPayments(ctx, booking.ID)
	if err != nil {
		s.logger.Error(err, logger.Fields{"booking_id": booking.ID, "op": "sum completed payments"})
		return
	}

	if paid.LessThan(booking.TotalAmount) {
		return
	}

	booking.Status = models.BookingStatusConfirmed
	if err := s.repo.UpdateBooking(ctx, booking); err != nil {
		s.logger.Error(err, logger.Fields{"booking_id": booking.ID, "op": "confirm paid booking"})
		return
	}

	s.logger.Info("booking fully paid", logger.Fields{"booking_id": booking.ID, "paid": paid.String()})
}

// ListPayments returns all payments matching the filters.
func (s *service) ListPayments(ctx context.Context, filters *PaymentFilters) (*PaymentListResponse, error) {
	records, total, err := s.repo.ListPayments(ctx, filters)
	if err != nil {
		return nil, err
	}

	payments := make([]PaymentResponse, len(records))
	for i := range records {
		payments[i] = *ToPaymentResponse(&records[i])
	}

	return &PaymentListResponse{
		Payments:   payments,
		Total:      total,
		Page:       filters.Page,
		TotalPages: api.CalcTotalPages(total, filters.Limit),
	}, nil
}

// RefundPayment refunds a completed payment.
func (s *service) RefundPayment(ctx context.Context, id, actorID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !payment.IsRefundable() {
		return nil, models.ErrPaymentNotRefundable
	}

	payment.Refund()
	if err := s.repo.UpdatePayment(ctx, payment); err != nil {
		return nil, err
	}

	entry := models.NewAuditEntry(actorID, models.AuditActionPaymentRefund, models.AuditResourcePayment, &payment.ID,
		models.AuditValues{"status": string(models.PaymentStatusCompleted)},
		models.AuditValues{"status": string(models.PaymentStatusRefunded)},
	)
	s.writeAudit(ctx, entry)

	s.logger.Info("payment refunded", logger.Fields{"payment_id": payment.ID, "refunded_by": actorID})

	return ToPaymentResponse(payment), nil
}

// OccupancyReport aggregates active bookings against room counts per hotel.
func (s *service) OccupancyReport(ctx context.Context) (*OccupancyReportResponse, error) {
	rows, err := s.repo.OccupancyByHotel(ctx)
	if err != nil {
		return nil, err
	}

	hotels := make([]HotelOccupancy, len(rows))
	for i, row := range rows {
		entry := HotelOccupancy{
			HotelID:       row.HotelID,
			HotelName:     row.HotelName,
			TotalRooms:    row.TotalRooms,
			OccupiedRooms: row.OccupiedRooms,
		}
		if row.TotalRooms > 0 {
			entry.OccupancyRate = float64(row.OccupiedRooms) / float64(row.TotalRooms)
		}
		hotels[i] = entry
	}

	return &OccupancyReportResponse{
		GeneratedAt: time.Now().UTC(),
		Hotels:      hotels,
	}, nil
}

func (s *service) writeAudit(ctx context.Context, entry *models.AuditLog) {
	if err := s.repo.CreateAuditEntry(ctx, entry); err != nil {
		s.logger.Error(err, logger.Fields{"action": entry.Action, "op": "write audit entry"})
	}
}
