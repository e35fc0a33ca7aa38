package hotel

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roosthq/roost/models"
)

// repository implements the Repository interface using GORM
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new hotel repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListHotels returns hotels with filters and pagination, newest first.
func (r *repository) ListHotels(ctx context.Context, filters *HotelFilters) ([]models.Hotel, int64, error) {
	var hotels []models.Hotel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Hotel{})
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset(filters.Offset()).
		Limit(filters.Limit).
		Find(&hotels).Error
	return hotels, total, err
}

func (r *repository) applyFilters(query *gorm.DB, filters *HotelFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(filters.City))
	}

	if filters.Search != "" {
		searchTerm := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	return query
}

func (r *repository) GetHotelByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hotel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrHotelNotFound
		}
		return nil, err
	}
	return &hotel, nil
}

func (r *repository) CreateHotel(ctx context.Context, hotel *models.Hotel) error {
	err := r.db.WithContext(ctx).Create(hotel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateHotelSlug
	}
	return err
}

func (r *repository) UpdateHotel(ctx context.Context, hotel *models.Hotel) error {
	err := r.db.WithContext(ctx).Save(hotel).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateHotelSlug
	}
	return err
}

func (r *repository) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Hotel{}, id).Error
}

// ListRooms returns every room of a hotel ordered by room number.
func (r *repository) ListRooms(ctx context.Context, hotelID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("number ASC").
		Find(&rooms).Error
	return rooms, err
}

// GetRoom returns a room scoped to its hotel, so a room ID from another
// hotel does not resolve through a mismatched URL.
func (r *repository) GetRoom(ctx context.Context, hotelID, roomID uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Where("id = ? AND hotel_id = ?", roomID, hotelID).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) CreateRoom(ctx context.Context, room *models.Room) error {
	err := r.db.WithContext(ctx).Create(room).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateRoom
	}
	return err
}

func (r *repository) UpdateRoom(ctx context.Context, room *models.Room) error {
	err := r.db.WithContext(ctx).Save(room).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrDuplicateRoom
	}
	return err
}
