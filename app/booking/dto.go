package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	dateLayout = "2006-01-02"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// BookingFilters defines the query parameters for listing bookings. UserID is
// set by the service for owner-scoped listings, never from the query string.
type BookingFilters struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`

	UserID uuid.UUID `form:"-"`
}

// SanitizeAndValidate cleans the filter inputs and clamps pagination.
func (f *BookingFilters) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	f.Status = strings.ToLower(strings.TrimSpace(s.StripHTML(f.Status)))

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	if f.Status != "" {
		v.Check(validator.In(f.Status,
			string(models.BookingStatusPending),
			string(models.BookingStatusConfirmed),
			string(models.BookingStatusCancelled),
			string(models.BookingStatusCheckedIn),
			string(models.BookingStatusCheckedOut),
		), "status", "status must be one of: pending, confirmed, cancelled, checked_in, checked_out")
	}
}

// Offset returns the row offset for the current page.
func (f *BookingFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CreateBookingRequest is the request body for reserving a room.
type CreateBookingRequest struct {
	RoomID   uuid.UUID `json:"room_id"`
	CheckIn  string    `json:"check_in"`
	CheckOut string    `json:"check_out"`
	Guests   int       `json:"guests"`
	Notes    string    `json:"notes"`

	checkIn  time.Time
	checkOut time.Time
}

// SanitizeAndValidate cleans and validates the request data. The stay dates
// are parsed here so the service works with time values, not strings.
func (r *CreateBookingRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.CheckIn = strings.TrimSpace(r.CheckIn)
	r.CheckOut = strings.TrimSpace(r.CheckOut)
	r.Notes = strings.TrimSpace(s.StripHTML(r.Notes))

	v.Check(r.RoomID != uuid.Nil, "room_id", "room ID is required")
	v.Check(r.Guests >= 1, "guests", "guest count must be at least 1")
	v.Check(validator.MaxRunes(r.Notes, 1000), "notes", "notes must be at most 1000 characters")

	var err error
	r.checkIn, err = time.Parse(dateLayout, r.CheckIn)
	v.Check(err == nil, "check_in", "check-in must be a date in YYYY-MM-DD format")
	r.checkOut, err = time.Parse(dateLayout, r.CheckOut)
	v.Check(err == nil, "check_out", "check-out must be a date in YYYY-MM-DD format")

	if !r.checkIn.IsZero() && !r.checkOut.IsZero() {
		v.Check(r.checkOut.After(r.checkIn), "check_out", "check-out must be after check-in")
	}
}

// Stay returns the parsed check-in and check-out dates.
func (r *CreateBookingRequest) Stay() (time.Time, time.Time) {
	return r.checkIn, r.checkOut
}

// RecordPaymentRequest is the request body for recording money received
// against a booking.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
}

// SanitizeAndValidate cleans and validates the request data. Currency
// defaults to USD when omitted.
func (r *RecordPaymentRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	r.Method = strings.ToLower(strings.TrimSpace(r.Method))
	r.Reference = strings.TrimSpace(s.StripHTML(r.Reference))

	if r.Currency == "" {
		r.Currency = "USD"
	}

	v.Check(r.Amount.IsPositive(), "amount", "amount must be greater than zero")
	v.Check(validator.Matches(r.Currency, currencyPattern), "currency", "currency must be a 3-letter code")
	v.Check(validator.In(r.Method,
		string(models.PaymentMethodCard),
		string(models.PaymentMethodCash),
		string(models.PaymentMethodTransfer),
		string(models.PaymentMethodMobileMoney),
	), "method", "method must be one of: card, cash, transfer, mobile_money")
	v.Check(r.Reference != "", "reference", "reference is required")
	v.Check(validator.MaxRunes(r.Reference, 100), "reference", "reference must be at most 100 characters")
}

// PaymentFilters defines the query parameters for listing payments.
type PaymentFilters struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

// SanitizeAndValidate cleans the filter inputs and clamps pagination.
func (f *PaymentFilters) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	f.Status = strings.ToLower(strings.TrimSpace(s.StripHTML(f.Status)))

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	if f.Status != "" {
		v.Check(validator.In(f.Status,
			string(models.PaymentStatusPending),
			string(models.PaymentStatusCompleted),
			string(models.PaymentStatusRefunded),
		), "status", "status must be one of: pending, completed, refunded")
	}
}

// Offset returns the row offset for the current page.
func (f *PaymentFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	HotelID     uuid.UUID       `json:"hotel_id"`
	RoomID      uuid.UUID       `json:"room_id"`
	CheckIn     string          `json:"check_in"`
	CheckOut    string          `json:"check_out"`
	Nights      int             `json:"nights"`
	Guests      int             `json:"guests"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToBookingResponse converts a booking model to its API representation.
func ToBookingResponse(booking *models.Booking) *BookingResponse {
	return &BookingResponse{
		ID:          booking.ID,
		UserID:      booking.UserID,
		HotelID:     booking.HotelID,
		RoomID:      booking.RoomID,
		CheckIn:     booking.CheckIn.Format(dateLayout),
		CheckOut:    booking.CheckOut.Format(dateLayout),
		Nights:      booking.Nights(),
		Guests:      booking.Guests,
		Status:      string(booking.Status),
		TotalAmount: booking.TotalAmount,
		Notes:       booking.Notes,
		CancelledAt: booking.CancelledAt,
		CreatedAt:   booking.CreatedAt,
	}
}

// BookingListResponse is a paginated list of bookings.
type BookingListResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// PaymentResponse is the API representation of a payment.
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	BookingID  uuid.UUID       `json:"booking_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference"`
	RefundedAt *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a payment model to its API representation.
func ToPaymentResponse(payment *models.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         payment.ID,
		BookingID:  payment.BookingID,
		UserID:     payment.UserID,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
		Status:     string(payment.Status),
		Method:     string(payment.Method),
		Reference:  payment.Reference,
		RefundedAt: payment.RefundedAt,
		CreatedAt:  payment.CreatedAt,
	}
}

// PaymentListResponse is a paginated list of payments.
type PaymentListResponse struct {
	Payments   []PaymentResponse `json:"payments"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

// HotelOccupancy is one row of the occupancy report.
type HotelOccupancy struct {
	HotelID       uuid.UUID `json:"hotel_id"`
	HotelName     string    `json:"hotel_name"`
	TotalRooms    int64     `json:"total_rooms"`
	OccupiedRooms int64     `json:"occupied_rooms"`
	OccupancyRate float64   `json:"occupancy_rate"`
}

// OccupancyReportResponse summarizes active bookings against room counts
// per hotel.
type OccupancyReportResponse struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Hotels      []HotelOccupancy `json:"hotels"`
}
