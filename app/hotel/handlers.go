package hotel

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/internal/sanitizer"
	"github.com/roosthq/roost/internal/validator"
	"github.com/roosthq/roost/models"
)

// Handler handles HTTP requests for hotel and room operations
type Handler struct {
	service   Service
	sanitizer sanitizer.HTMLStripperer
	logger    logger.Logger
}

// NewHandler creates a new hotel handler
func NewHandler(service Service, s sanitizer.HTMLStripperer, l logger.Logger) *Handler {
	return &Handler{service: service, sanitizer: s, logger: l}
}

// ListHotels godoc
// @Summary List hotels
// @Description List hotels with pagination, city filter and search
// @Tags hotels
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param city query string false "Exact city match, case-insensitive"
// @Param search query string false "Substring match on name or description"
// @Success 200 {object} api.Response{data=HotelListResponse}
// @Failure 401 {object} api.Response
// @Failure 403 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/hotels [get]
func (h *Handler) ListHotels(c *gin.Context) {
	var filters HotelFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		api.BadRequestResponse(c, "Invalid query parameters")
		return
	}

	v := validator.New()
	if filters.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	result, err := h.service.ListHotels(c.Request.Context(), &filters)
	if err != nil {
		h.logger.Error(err, logger.Fields{"op": "list hotels"})
		api.InternalErrorResponse(c, "Failed to fetch hotels")
		return
	}

	api.SuccessResponse(c, 200, "Hotels retrieved successfully", result)
}

// GetHotel godoc
// @Summary Get a hotel
// @Tags hotels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Success 200 {object} api.Response{data=HotelResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Router /api/v1/hotels/{id} [get]
func (h *Handler) GetHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid hotel ID format")
		return
	}

	hotel, err := h.service.GetHotel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrHotelNotFound) {
			api.NotFoundResponse(c, "Hotel")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "get hotel"})
		api.InternalErrorResponse(c, "Failed to fetch hotel")
		return
	}

	api.SuccessResponse(c, 200, "Hotel retrieved successfully", hotel)
}

// CreateHotel godoc
// @Summary Create a hotel
// @Description Create a new property; the slug must be unique
// @Tags hotels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateHotelRequest true "Hotel details"
// @Success 201 {object} api.Response{data=HotelResponse}
// @Failure 400 {object} api.Response
// @Failure 409 {object} api.Response
// @Failure 500 {object} api.Response
// @Router /api/v1/hotels [post]
func (h *Handler) CreateHotel(c *gin.Context) {
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	hotel, err := h.service.CreateHotel(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateHotelSlug) {
			api.ConflictResponse(c, "A hotel with this slug already exists")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "create hotel"})
		api.InternalErrorResponse(c, "Failed to create hotel")
		return
	}

	api.CreatedResponse(c, "Hotel created successfully", hotel)
}

// UpdateHotel godoc
// @Summary Update a hotel
// @Tags hotels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Param request body UpdateHotelRequest true "Fields to change"
// @Success 200 {object} api.Response{data=HotelResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/hotels/{id} [put]
func (h *Handler) UpdateHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid hotel ID format")
		return
	}

	var req UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	hotel, err := h.service.UpdateHotel(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrHotelNotFound):
			api.NotFoundResponse(c, "Hotel")
		case errors.Is(err, models.ErrDuplicateHotelSlug):
			api.ConflictResponse(c, "A hotel with this slug already exists")
		default:
			h.logger.Error(err, logger.Fields{"op": "update hotel"})
			api.InternalErrorResponse(c, "Failed to update hotel")
		}
		return
	}

	api.UpdatedResponse(c, "Hotel updated successfully", hotel)
}

// DeleteHotel godoc
// @Summary Delete a hotel
// @Description Delete a property and all of its rooms
// @Tags hotels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Success 200 {object} api.Response
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Router /api/v1/hotels/{id} [delete]
func (h *Handler) DeleteHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid hotel ID format")
		return
	}

	if err := h.service.DeleteHotel(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrHotelNotFound) {
			api.NotFoundResponse(c, "Hotel")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "delete hotel"})
		api.InternalErrorResponse(c, "Failed to delete hotel")
		return
	}

	api.DeletedResponse(c, "Hotel deleted successfully")
}

// ListRooms godoc
// @Summary List rooms of a hotel
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Success 200 {object} api.Response{data=RoomListResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Router /api/v1/hotels/{id}/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid hotel ID format")
		return
	}

	result, err := h.service.ListRooms(c.Request.Context(), hotelID)
	if err != nil {
		if errors.Is(err, models.ErrHotelNotFound) {
			api.NotFoundResponse(c, "Hotel")
			return
		}
		h.logger.Error(err, logger.Fields{"op": "list rooms"})
		api.InternalErrorResponse(c, "Failed to fetch rooms")
		return
	}

	api.SuccessResponse(c, 200, "Rooms retrieved successfully", result)
}

// CreateRoom godoc
// @Summary Add a room to a hotel
// @Description Create a room; the number must be unique within the hotel
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Param request body CreateRoomRequest true "Room details"
// @Success 201 {object} api.Response{data=RoomResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/hotels/{id}/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid hotel ID format")
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), hotelID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrHotelNotFound):
			api.NotFoundResponse(c, "Hotel")
		case errors.Is(err, models.ErrDuplicateRoom):
			api.ConflictResponse(c, "A room with this number already exists in this hotel")
		default:
			h.logger.Error(err, logger.Fields{"op": "create room"})
			api.InternalErrorResponse(c, "Failed to create room")
		}
		return
	}

	api.CreatedResponse(c, "Room created successfully", room)
}

// UpdateRoom godoc
// @Summary Update a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hotel ID"
// @Param roomID path string true "Room ID"
// @Param request body UpdateRoomRequest true "Fields to change"
// @Success 200 {object} api.Response{data=RoomResponse}
// @Failure 400 {object} api.Response
// @Failure 404 {object} api.Response
// @Failure 409 {object} api.Response
// @Router /api/v1/hotels/{id}/rooms/{roomID} [put]
func (h *Handler) UpdateRoom(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid hotel ID format")
		return
	}

	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		api.BadRequestResponse(c, "Invalid room ID format")
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequestResponse(c, "Invalid request body")
		return
	}

	v := validator.New()
	if req.SanitizeAndValidate(v, h.sanitizer); !v.Valid() {
		api.ValidationErrorResponse(c, validator.NewValidationError("Validation failed", v.Errors))
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), hotelID, roomID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRoomNotFound):
			api.NotFoundResponse(c, "Room")
		case errors.Is(err, models.ErrDuplicateRoom):
			api.ConflictResponse(c, "A room with this number already exists in this hotel")
		default:
			h.logger.Error(err, logger.Fields{"op": "update room"})
			api.InternalErrorResponse(c, "Failed to update room")
		}
		return
	}

	api.UpdatedResponse(c, "Room updated successfully", room)
}
