package hotel

import (
	"context"

	"github.com/google/uuid"

	"github.com/roosthq/roost/models"
)

// Repository defines data access for hotels and their rooms.
type Repository interface {
	ListHotels(ctx context.Context, filters *HotelFilters) ([]models.Hotel, int64, error)
	GetHotelByID(ctx context.Context, id uuid.UUID) (*models.Hotel, error)
	CreateHotel(ctx context.Context, hotel *models.Hotel) error
	UpdateHotel(ctx context.Context, hotel *models.Hotel) error
	DeleteHotel(ctx context.Context, id uuid.UUID) error

	ListRooms(ctx context.Context, hotelID uuid.UUID) ([]models.Room, error)
	GetRoom(ctx context.Context, hotelID, roomID uuid.UUID) (*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
}

// Service defines the hotel and room catalog operations.
type Service interface {
	ListHotels(ctx context.Context, filters *HotelFilters) (*HotelListResponse, error)
	GetHotel(ctx context.Context, id uuid.UUID) (*HotelResponse, error)
	CreateHotel(ctx context.Context, req *CreateHotelRequest) (*HotelResponse, error)
	UpdateHotel(ctx context.Context, id uuid.UUID, req *UpdateHotelRequest) (*HotelResponse, error)
	DeleteHotel(ctx context.Context, id uuid.UUID) error

	ListRooms(ctx context.Context, hotelID uuid.UUID) (*RoomListResponse, error)
	CreateRoom(ctx context.Context, hotelID uuid.UUID, req *CreateRoomRequest) (*RoomResponse, error)
	UpdateRoom(ctx context.Context, hotelID, roomID uuid.UUID, req *UpdateRoomRequest) (*RoomResponse, error)
}
