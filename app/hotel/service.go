package hotel

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/roosthq/roost/app/api"
	"github.com/roosthq/roost/internal/logger"
	"github.com/roosthq/roost/models"
)

type service struct {
	repo   Repository
	logger logger.Logger
}

// NewService creates a hotel service backed by the given repository.
func NewService(repo Repository, log logger.Logger) Service {
	return &service{
		repo:   repo,
		logger: log,
	}
}

// ListHotels returns a page of hotels matching the filters.
func (s *service) ListHotels(ctx context.Context, filters *HotelFilters) (*HotelListResponse, error) {
	records, total, err := s.repo.ListHotels(ctx, filters)
	if err != nil {
		return nil, err
	}

	hotels := make([]HotelResponse, 0, len(records))
	for i := range records {
		hotels = append(hotels, *ToHotelResponse(&records[i]))
	}

	return &HotelListResponse{
		Hotels:     hotels,
		Total:      total,
		Page:       filters.Page,
		TotalPages: api.CalcTotalPages(total, filters.Limit),
	}, nil
}

func (s *service) GetHotel(ctx context.Context, id uuid.UUID) (*HotelResponse, error) {
	record, err := s.repo.GetHotelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToHotelResponse(record), nil
}

func (s *service) CreateHotel(ctx context.Context, req *CreateHotelRequest) (*HotelResponse, error) {
	record := &models.Hotel{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Amenities:   pq.StringArray(req.Amenities),
		IsActive:    true,
	}

	if err := s.repo.CreateHotel(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("hotel created", logger.Fields{"hotel_id": record.ID, "slug": record.Slug})
	return ToHotelResponse(record), nil
}

func (s *service) UpdateHotel(ctx context.Context, id uuid.UUID, req *UpdateHotelRequest) (*HotelResponse, error) {
	record, err := s.repo.GetHotelByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		record.Name = *req.Name
	}
	if req.Slug != nil {
		record.Slug = *req.Slug
	}
	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Address != nil {
		record.Address = *req.Address
	}
	if req.City != nil {
		record.City = *req.City
	}
	if req.Amenities != nil {
		record.Amenities = pq.StringArray(*req.Amenities)
	}
	if req.IsActive != nil {
		record.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateHotel(ctx, record); err != nil {
		return nil, err
	}

	return ToHotelResponse(record), nil
}

// DeleteHotel removes a hotel. Rooms go with it through the foreign key
// cascade.
func (s *service) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.GetHotelByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteHotel(ctx, record.ID); err != nil {
		return err
	}

	s.logger.Info("hotel deleted", logger.Fields{"hotel_id": record.ID, "slug": record.Slug})
	return nil
}

// ListRooms returns every room of an existing hotel.
func (s *service) ListRooms(ctx context.Context, hotelID uuid.UUID) (*RoomListResponse, error) {
	if _, err := s.repo.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}

	records, err := s.repo.ListRooms(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	rooms := make([]RoomResponse, 0, len(records))
	for i := range records {
		rooms = append(rooms, *ToRoomResponse(&records[i]))
	}

	return &RoomListResponse{HotelID: hotelID, Rooms: rooms}, nil
}

func (s *service) CreateRoom(ctx context.Context, hotelID uuid.UUID, req *CreateRoomRequest) (*RoomResponse, error) {
	if _, err := s.repo.GetHotelByID(ctx, hotelID); err != nil {
		return nil, err
	}

	record := &models.Room{
		HotelID:       hotelID,
		Number:        req.Number,
		Type:          models.RoomType(req.Type),
		Capacity:      req.Capacity,
		PricePerNight: req.PricePerNight,
		IsAvailable:   true,
	}

	if err := s.repo.CreateRoom(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("room created", logger.Fields{"hotel_id": hotelID, "room_id": record.ID, "number": record.Number})
	return ToRoomResponse(record), nil
}

func (s *service) UpdateRoom(ctx context.Context, hotelID, roomID uuid.UUID, req *UpdateRoomRequest) (*RoomResponse, error) {
	record, err := s.repo.GetRoom(ctx, hotelID, roomID)
	if err != nil {
		return nil, err
	}

	if req.Number != nil {
		record.Number = *req.Number
	}
	if req.Type != nil {
		record.Type = models.RoomType(*req.Type)
	}
	if req.Capacity != nil {
		record.Capacity = *req.Capacity
	}
	if req.PricePerNight != nil {
		record.PricePerNight = *req.PricePerNight
	}
	if req.IsAvailable != nil {
		record.IsAvailable = *req.IsAvailable
	}

	if err := s.repo.UpdateRoom(ctx, record); err != nil {
		return nil, err
	}

	return ToRoomResponse(record), nil
}
