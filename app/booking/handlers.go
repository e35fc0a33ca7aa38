package booking

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/app/role"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

// Handler handles HTTP requests for booking and payment operations
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new booking handler
func NewHandler(service Service, s sanitizer.HTMLStripperer, l logger.Logger) *Handler {
	return &Handler{service: service, sanitizer: s, logger: l}
}

// CreateBooking godoc
// @Summary Book a room
// @Description Reserve a room for the calling user; the total is nights times the nightly price
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBookingRequest true "Booking details"
// @Success 201 {object} api.Response{data=BookingResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoomNotFound):
			api.NotFoundResponse(c, "Room")
		case errors.Is(err, models.ErrRoomUnavailable):
			api.ConflictResponse(c, "Room is not available for booking")
		case errors.Is(err, models.ErrInvalidGuestCount):
			api.BadRequestResponse(c, "Guest count exceeds room capacity")
		default:
			h.logger.Error(err, logger.Fields{"op": "create booking"})
			api.InternalErrorResponse(c, "Failed to create booking")
		}
		return
	}

	api.CreatedResponse(c, "Booking created successfully", booking)
}

// ListBookings godoc
// @Summary List all bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param status query string false "Filter by booking status"
// @Success 200 {object} api.Response{data=BookingListResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Router /api/v1/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	var filters BookingFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	v := validator.New()
	if filters.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.ListBookings(c.Request.Context(), &filters)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "list bookings"})
		api.InternalErrorResponse(c, "Failed to fetch bookings")
		return
	}

	api.SuccessResponse(c, 200, "Bookings retrieved successfully", result)
}

// ListMyBookings godoc
// @Summary List the caller's bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param status query string false "Filter by booking status"
// @Success 200 {object} api.Response{data=BookingListResponse}
// @Failure 401 {object} api.Response
// @Router /api/v1/bookings/my [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	var filters BookingFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	v := validator.New()
	if filters.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.ListMyBookings(c.Request.Context(), userID, &filters)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "list own bookings"})
		api.InternalErrorResponse(c, "Failed to fetch bookings")
		return
	}

	api.SuccessResponse(c, 200, "Bookings retrieved successfully", result)
}

// ApproveBooking godoc
// @Summary Approve a pending booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} api.Response{data=BookingResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/bookings/{id}/approve [post]
func (h *Handler) ApproveBooking(c *gin.Context) {
	actorID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid booking ID format")
		return
	}

	booking, err := h.service.ApproveBooking(c.Request.Context(), id, actorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			api.NotFoundResponse(c, "Booking")
		case errors.Is(err, models.ErrBookingNotPending):
			api.ConflictResponse(c, "Only pending bookings can be approved")
		default:
			h.logger.Error(err, logger.Fields{"op": "approve booking"})
			api.InternalErrorResponse(c, "Failed to approve booking")
		}
		return
	}

	api.UpdatedResponse(c, "Booking approved successfully", booking)
}

// CancelBooking godoc
// @Summary Cancel a booking
// @Description Owners cancel their own bookings; the manage_bookings permission allows cancelling any
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} api.Response{data=BookingResponse}
// @Failure 400 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	actorID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid booking ID format")
		return
	}

	booking, err := h.service.CancelBooking(c.Request.Context(), id, actorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			api.NotFoundResponse(c, "Booking")
		case errors.Is(err, models.ErrBookingNotOwned):
			api.ForbiddenResponse(c, "You can only cancel your own bookings")
		case errors.Is(err, models.ErrBookingClosed):
			api.ConflictResponse(c, "Booking can no longer be cancelled")
		default:
			h.logger.Error(err, logger.Fields{"op": "cancel booking"})
			api.InternalErrorResponse(c, "Failed to cancel booking")
		}
		return
	}

	api.UpdatedResponse(c, "Booking cancelled successfully", booking)
}

// RecordPayment godoc
// @Summary Record a payment for a booking
// @Description Record money received; once completed payments cover the total, a pending booking is confirmed
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body RecordPaymentRequest true "Payment details"
// @Success 201 {object} api.Response{data=PaymentResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/bookings/{id}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	actorID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid booking ID format")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	payment, err := h.service.RecordPayment(c.Request.Context(), bookingID, actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrBookingNotFound):
			api.NotFoundResponse(c, "Booking")
		case errors.Is(err, models.ErrBookingClosed):
			api.ConflictResponse(c, "Cannot record a payment for a cancelled booking")
		case errors.Is(err, models.ErrDuplicateReference):
			api.ConflictResponse(c, "A payment with this reference already exists")
		default:
			h.logger.Error(err, logger.Fields{"op": "record payment"})
			api.InternalErrorResponse(c, "Failed to record payment")
		}
		return
	}

	api.CreatedResponse(c, "Payment recorded successfully", payment)
}

// ListPayments godoc
// @Summary List all payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param status query string false "Filter by payment status"
// @Success 200 {object} api.Response{data=PaymentListResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Router /api/v1/payments [get]
func (h *Handler) ListPayments(c *gin.Context) {
	var filters PaymentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	v := validator.New()
	if filters.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.ListPayments(c.Request.Context(), &filters)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "list payments"})
		api.InternalErrorResponse(c, "Failed to fetch payments")
		return
	}

	api.SuccessResponse(c, 200, "Payments retrieved successfully", result)
}

// RefundPayment godoc
// @Summary Refund a completed payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} api.Response{data=PaymentResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/payments/{id}/refund [post]
func (h *Handler) RefundPayment(c *gin.Context) {
	actorID, ok := role.CurrentUserID(c)
	if !ok {
		api.UnauthorizedResponse(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid payment ID format")
		return
	}

	payment, err := h.service.RefundPayment(c.Request.Context(), id, actorID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrPaymentNotFound):
			api.NotFoundResponse(c, "Payment")
		case errors.Is(err, models.ErrPaymentNotRefundable):
			api.ConflictResponse(c, "Only completed payments can be refunded")
		default:
			h.logger.Error(err, logger.Fields{"op": "refund payment"})
			api.InternalErrorResponse(c, "Failed to refund payment")
		}
		return
	}

	api.UpdatedResponse(c, "Payment refunded successfully", payment)
}

// OccupancyReport godoc
// @Summary Occupancy report
// @Description Rooms with an active booking against total rooms, per hotel
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} api.Response{data=OccupancyReportResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Router /api/v1/reports/occupancy [get]
func (h *Handler) OccupancyReport(c *gin.Context) {
	result, err := h.service.OccupancyReport(c.Request.Context())
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "occupancy report"})
		api.InternalErrorResponse(c, "Failed to generate occupancy report")
		return
	}

	api.SuccessResponse(c, 200, "Occupancy report generated successfully", result)
}
