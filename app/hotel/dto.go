package hotel

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
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// HotelFilters defines the query parameters for filtering the hotel list.
type HotelFilters struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	City   string `form:"city"`
	Search string `form:"search"`
}

// SanitizeAndValidate cleans the filter inputs and clamps pagination.
func (f *HotelFilters) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	f.City = strings.TrimSpace(s.StripHTML(f.City))
	f.Search = strings.TrimSpace(s.StripHTML(f.Search))

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	v.Check(validator.MaxRunes(f.Search, 100), "search", "search term must be at most 100 characters")
	v.Check(validator.MaxRunes(f.City, 100), "city", "city must be at most 100 characters")
}

// Offset returns the row offset for the current page.
func (f *HotelFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}

// CreateHotelRequest is the request body for listing a new property.
type CreateHotelRequest struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	City        string   `json:"city"`
	Amenities   []string `json:"amenities"`
}

// SanitizeAndValidate cleans and validates the request data. The slug is
// lowercased before any checks so duplicates cannot hide behind casing.
func (r *CreateHotelRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.Name = strings.TrimSpace(s.StripHTML(r.Name))
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	r.Description = strings.TrimSpace(s.StripHTML(r.Description))
	r.Address = strings.TrimSpace(s.StripHTML(r.Address))
	r.City = strings.TrimSpace(s.StripHTML(r.City))
	r.Amenities = cleanAmenities(s, r.Amenities)

	v.Check(r.Name != "", "name", "name is required")
	v.Check(validator.MaxRunes(r.Name, 150), "name", "name must be at most 150 characters")
	v.Check(r.Slug != "", "slug", "slug is required")
	if r.Slug != "" {
		v.Check(validator.Matches(r.Slug, slugPattern), "slug", "slug must contain only lowercase letters, digits and hyphens")
	}
	v.Check(validator.MaxRunes(r.Slug, 150), "slug", "slug must be at most 150 characters")
	v.Check(r.City != "", "city", "city is required")
	v.Check(validator.MaxRunes(r.City, 100), "city", "city must be at most 100 characters")
	v.Check(validator.MaxRunes(r.Description, 2000), "description", "description must be at most 2000 characters")
	v.Check(validator.MaxRunes(r.Address, 255), "address", "address must be at most 255 characters")
}

// UpdateHotelRequest is the patch body for updating a property. Nil fields
// are left untouched.
type UpdateHotelRequest struct {
	Name        *string   `json:"name"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Address     *string   `json:"address"`
	City        *string   `json:"city"`
	Amenities   *[]string `json:"amenities"`
	IsActive    *bool     `json:"is_active"`
}

// SanitizeAndValidate cleans and validates the provided patch fields.
func (r *UpdateHotelRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	v.Check(r.Name != nil || r.Slug != nil || r.Description != nil || r.Address != nil ||
		r.City != nil || r.Amenities != nil || r.IsActive != nil,
		"patch", "at least one field must be provided")

	if r.Name != nil {
		*r.Name = strings.TrimSpace(s.StripHTML(*r.Name))
		v.Check(*r.Name != "", "name", "name cannot be empty")
		v.Check(validator.MaxRunes(*r.Name, 150), "name", "name must be at most 150 characters")
	}
	if r.Slug != nil {
		*r.Slug = strings.ToLower(strings.TrimSpace(*r.Slug))
		v.Check(validator.Matches(*r.Slug, slugPattern), "slug", "slug must contain only lowercase letters, digits and hyphens")
		v.Check(validator.MaxRunes(*r.Slug, 150), "slug", "slug must be at most 150 characters")
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(s.StripHTML(*r.Description))
		v.Check(validator.MaxRunes(*r.Description, 2000), "description", "description must be at most 2000 characters")
	}
	if r.Address != nil {
		*r.Address = strings.TrimSpace(s.StripHTML(*r.Address))
		v.Check(validator.MaxRunes(*r.Address, 255), "address", "address must be at most 255 characters")
	}
	if r.City != nil {
		*r.City = strings.TrimSpace(s.StripHTML(*r.City))
		v.Check(*r.City != "", "city", "city cannot be empty")
		v.Check(validator.MaxRunes(*r.City, 100), "city", "city must be at most 100 characters")
	}
	if r.Amenities != nil {
		*r.Amenities = cleanAmenities(s, *r.Amenities)
	}
}

func cleanAmenities(s sanitizer.HTMLStripperer, amenities []string) []string {
	out := make([]string, 0, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(s.StripHTML(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// CreateRoomRequest is the request body for adding a room to a hotel.
type CreateRoomRequest struct {
	Number        string          `json:"number"`
	Type          string          `json:"type"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
}

// SanitizeAndValidate cleans and validates the request data.
func (r *CreateRoomRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	r.Number = strings.TrimSpace(s.StripHTML(r.Number))
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))

	v.Check(r.Number != "", "number", "room number is required")
	v.Check(validator.MaxRunes(r.Number, 20), "number", "room number must be at most 20 characters")
	v.Check(validator.In(r.Type,
		string(models.RoomTypeSingle), string(models.RoomTypeDouble),
		string(models.RoomTypeDorm), string(models.RoomTypeSuite)),
		"type", "type must be one of single, double, dorm, suite")
	v.Check(r.Capacity >= 1, "capacity", "capacity must be at least 1")
	v.Check(r.PricePerNight.IsPositive(), "price_per_night", "price per night must be greater than zero")
}

// UpdateRoomRequest is the patch body for updating a room. Nil fields are
// left untouched.
type UpdateRoomRequest struct {
	Number        *string          `json:"number"`
	Type          *string          `json:"type"`
	Capacity      *int             `json:"capacity"`
	PricePerNight *decimal.Decimal `json:"price_per_night"`
	IsAvailable   *bool            `json:"is_available"`
}

// SanitizeAndValidate cleans and validates the provided patch fields.
func (r *UpdateRoomRequest) SanitizeAndValidate(v *validator.Validator, s sanitizer.HTMLStripperer) {
	v.Check(r.Number != nil || r.Type != nil || r.Capacity != nil ||
		r.PricePerNight != nil || r.IsAvailable != nil,
		"patch", "at least one field must be provided")

	if r.Number != nil {
		*r.Number = strings.TrimSpace(s.StripHTML(*r.Number))
		v.Check(*r.Number != "", "number", "room number cannot be empty")
		v.Check(validator.MaxRunes(*r.Number, 20), "number", "room number must be at most 20 characters")
	}
	if r.Type != nil {
		*r.Type = strings.ToLower(strings.TrimSpace(*r.Type))
		v.Check(validator.In(*r.Type,
			string(models.RoomTypeSingle), string(models.RoomTypeDouble),
			string(models.RoomTypeDorm), string(models.RoomTypeSuite)),
			"type", "type must be one of single, double, dorm, suite")
	}
	if r.Capacity != nil {
		v.Check(*r.Capacity >= 1, "capacity", "capacity must be at least 1")
	}
	if r.PricePerNight != nil {
		v.Check(r.PricePerNight.IsPositive(), "price_per_night", "price per night must be greater than zero")
	}
}

// HotelResponse is the hotel representation returned by the API.
type HotelResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city"`
	Amenities   []string  `json:"amenities"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToHotelResponse converts a hotel model to its API representation.
func ToHotelResponse(hotel *models.Hotel) *HotelResponse {
	return &HotelResponse{
		ID:          hotel.ID,
		Name:        hotel.Name,
		Slug:        hotel.Slug,
		Description: hotel.Description,
		Address:     hotel.Address,
		City:        hotel.City,
		Amenities:   hotel.Amenities,
		IsActive:    hotel.IsActive,
		CreatedAt:   hotel.CreatedAt,
		UpdatedAt:   hotel.UpdatedAt,
	}
}

// HotelListResponse is a page of hotels plus pagination metadata.
type HotelListResponse struct {
	Hotels     []HotelResponse `json:"hotels"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}

// RoomResponse is the room representation returned by the API.
type RoomResponse struct {
	ID            uuid.UUID       `json:"id"`
	HotelID       uuid.UUID       `json:"hotel_id"`
	Number        string          `json:"number"`
	Type          string          `json:"type"`
	Capacity      int             `json:"capacity"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	IsAvailable   bool            `json:"is_available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToRoomResponse converts a room model to its API representation.
func ToRoomResponse(room *models.Room) *RoomResponse {
	return &RoomResponse{
		ID:            room.ID,
		HotelID:       room.HotelID,
		Number:        room.Number,
		Type:          string(room.Type),
		Capacity:      room.Capacity,
		PricePerNight: room.PricePerNight,
		IsAvailable:   room.IsAvailable,
		CreatedAt:     room.CreatedAt,
		UpdatedAt:     room.UpdatedAt,
	}
}

// RoomListResponse is the full room list for one hotel.
type RoomListResponse struct {
	HotelID uuid.UUID      `json:"hotel_id"`
	Rooms   []RoomResponse `json:"rooms"`
}
