package hotel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/roosthq/roost/models"
	"github.com/roosthq/roost/tests/suites"
)

type HotelRepositoryTestSuite struct {
	suites.RepositoryTestSuite
	repo Repository
}

func (suite *HotelRepositoryTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("Skipping database integration test")
	}

	suite.AutoMigrate = true

	suite.RepositoryTestSuite.SetupSuite()

	suite.repo = NewRepository(suite.DB)
}

func TestHotelRepository(t *testing.T) {
	suite.Run(t, new(HotelRepositoryTestSuite))
}

func (suite *HotelRepositoryTestSuite) createHotelRecord(name, slug, city string) *models.Hotel {
	hotel := &models.Hotel{
		Name:      name,
		Slug:      slug,
		City:      city,
		Amenities: []string{"wifi"},
		IsActive:  true,
	}
	err := suite.repo.CreateHotel(context.Background(), hotel)
	suite.Require().NoError(err)
	return hotel
}

func (suite *HotelRepositoryTestSuite) createRoomRecord(hotelID uuid.UUID, number string, roomType models.RoomType) *models.Room {
	room := &models.Room{
		HotelID:       hotelID,
		Number:        number,
		Type:          roomType,
		Capacity:      2,
		PricePerNight: decimal.NewFromInt(45),
		IsAvailable:   true,
	}
	err := suite.repo.CreateRoom(context.Background(), room)
	suite.Require().NoError(err)
	return room
}

func (suite *HotelRepositoryTestSuite) TestCreateHotel() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")

	suite.Assert().NotEqual(uuid.Nil, hotel.ID)
	suite.Assert().Equal(int64(1), suite.CountRecords("hotels"))
}

func (suite *HotelRepositoryTestSuite) TestCreateHotel_DuplicateSlug() {
	suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")

	err := suite.repo.CreateHotel(context.Background(), &models.Hotel{
		Name: "Another Sunrise",
		Slug: "sunrise-lodge",
		City: "Abuja",
	})

	suite.Assert().ErrorIs(err, models.ErrDuplicateHotelSlug)
	suite.Assert().Equal(int64(1), suite.CountRecords("hotels"))
}

func (suite *HotelRepositoryTestSuite) TestGetHotelByID() {
	created := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")

	found, err := suite.repo.GetHotelByID(context.Background(), created.ID)

	suite.AssertNoDBError(err)
	suite.Assert().Equal(created.ID, found.ID)
	suite.Assert().Equal("sunrise-lodge", found.Slug)
	suite.Assert().Equal([]string{"wifi"}, []string(found.Amenities))
}

func (suite *HotelRepositoryTestSuite) TestGetHotelByID_NotFound() {
	_, err := suite.repo.GetHotelByID(context.Background(), uuid.New())

	suite.Assert().ErrorIs(err, models.ErrHotelNotFound)
}

func (suite *HotelRepositoryTestSuite) TestListHotels() {
	suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")
	suite.createHotelRecord("Harbour View", "harbour-view", "Lagos")

	filters := &HotelFilters{Page: 1, Limit: 20}
	hotels, total, err := suite.repo.ListHotels(context.Background(), filters)

	suite.AssertNoDBError(err)
	suite.Assert().Equal(int64(3), total)
	suite.Assert().Len(hotels, 3)
}

func (suite *HotelRepositoryTestSuite) TestListHotels_NewestFirst() {
	old := &models.Hotel{Name: "Old Place", Slug: "old-place", City: "Lagos", CreatedAt: time.Now().Add(-2 * time.Hour)}
	suite.Require().NoError(suite.repo.CreateHotel(context.Background(), old))
	recent := &models.Hotel{Name: "New Place", Slug: "new-place", City: "Lagos", CreatedAt: time.Now().Add(-time.Minute)}
	suite.Require().NoError(suite.repo.CreateHotel(context.Background(), recent))

	hotels, _, err := suite.repo.ListHotels(context.Background(), &HotelFilters{Page: 1, Limit: 20})

	suite.AssertNoDBError(err)
	suite.Require().Len(hotels, 2)
	suite.Assert().Equal("new-place", hotels[0].Slug)
	suite.Assert().Equal("old-place", hotels[1].Slug)
}

func (suite *HotelRepositoryTestSuite) TestListHotels_Pagination() {
	suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")
	suite.createHotelRecord("Harbour View", "harbour-view", "Lagos")

	filters := &HotelFilters{Page: 2, Limit: 2}
	hotels, total, err := suite.repo.ListHotels(context.Background(), filters)

	suite.AssertNoDBError(err)
	suite.Assert().Equal(int64(3), total)
	suite.Assert().Len(hotels, 1)
}

func (suite *HotelRepositoryTestSuite) TestListHotels_FilterByCity() {
	suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")

	filters := &HotelFilters{Page: 1, Limit: 20, City: "lagos"}
	hotels, total, err := suite.repo.ListHotels(context.Background(), filters)

	suite.AssertNoDBError(err)
	suite.Assert().Equal(int64(1), total)
	suite.Require().Len(hotels, 1)
	suite.Assert().Equal("sunrise-lodge", hotels[0].Slug)
}

func (suite *HotelRepositoryTestSuite) TestListHotels_Search() {
	suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")
	withDescription := &models.Hotel{
		Name:        "Harbour View",
		Slug:        "harbour-view",
		Description: "A quiet lodge by the water",
		City:        "Lagos",
	}
	suite.Require().NoError(suite.repo.CreateHotel(context.Background(), withDescription))

	hotels, total, err := suite.repo.ListHotels(context.Background(), &HotelFilters{Page: 1, Limit: 20, Search: "LODGE"})

	suite.AssertNoDBError(err)
	suite.Assert().Equal(int64(2), total)
	suite.Assert().Len(hotels, 2)
}

func (suite *HotelRepositoryTestSuite) TestUpdateHotel() {
	created := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")

	created.Name = "Sunset Lodge"
	created.IsActive = false
	err := suite.repo.UpdateHotel(context.Background(), created)
	suite.AssertNoDBError(err)

	found, err := suite.repo.GetHotelByID(context.Background(), created.ID)
	suite.AssertNoDBError(err)
	suite.Assert().Equal("Sunset Lodge", found.Name)
	suite.Assert().False(found.IsActive)
}

func (suite *HotelRepositoryTestSuite) TestUpdateHotel_DuplicateSlug() {
	suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	other := suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")

	other.Slug = "sunrise-lodge"
	err := suite.repo.UpdateHotel(context.Background(), other)

	suite.Assert().ErrorIs(err, models.ErrDuplicateHotelSlug)
}

func (suite *HotelRepositoryTestSuite) TestDeleteHotel_CascadesRooms() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createRoomRecord(hotel.ID, "101", models.RoomTypeSingle)
	suite.createRoomRecord(hotel.ID, "102", models.RoomTypeDouble)
	suite.Require().Equal(int64(2), suite.CountRecords("rooms"))

	err := suite.repo.DeleteHotel(context.Background(), hotel.ID)

	suite.AssertNoDBError(err)
	suite.Assert().Equal(int64(0), suite.CountRecords("hotels"))
	suite.Assert().Equal(int64(0), suite.CountRecords("rooms"))
}

func (suite *HotelRepositoryTestSuite) TestListRooms_OrderedByNumber() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createRoomRecord(hotel.ID, "203", models.RoomTypeDouble)
	suite.createRoomRecord(hotel.ID, "101", models.RoomTypeSingle)
	suite.createRoomRecord(hotel.ID, "102", models.RoomTypeSuite)

	rooms, err := suite.repo.ListRooms(context.Background(), hotel.ID)

	suite.AssertNoDBError(err)
	suite.Require().Len(rooms, 3)
	suite.Assert().Equal("101", rooms[0].Number)
	suite.Assert().Equal("102", rooms[1].Number)
	suite.Assert().Equal("203", rooms[2].Number)
}

func (suite *HotelRepositoryTestSuite) TestListRooms_ScopedToHotel() {
	first := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	second := suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")
	suite.createRoomRecord(first.ID, "101", models.RoomTypeSingle)
	suite.createRoomRecord(second.ID, "201", models.RoomTypeDouble)

	rooms, err := suite.repo.ListRooms(context.Background(), first.ID)

	suite.AssertNoDBError(err)
	suite.Require().Len(rooms, 1)
	suite.Assert().Equal("101", rooms[0].Number)
}

func (suite *HotelRepositoryTestSuite) TestCreateRoom() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")

	room := suite.createRoomRecord(hotel.ID, "101", models.RoomTypeDouble)

	suite.Assert().NotEqual(uuid.Nil, room.ID)
	suite.Assert().Equal(int64(1), suite.CountRecords("rooms"))
}

func (suite *HotelRepositoryTestSuite) TestCreateRoom_DuplicateNumberInHotel() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	suite.createRoomRecord(hotel.ID, "101", models.RoomTypeSingle)

	err := suite.repo.CreateRoom(context.Background(), &models.Room{
		HotelID:       hotel.ID,
		Number:        "101",
		Type:          models.RoomTypeDouble,
		Capacity:      2,
		PricePerNight: decimal.NewFromInt(45),
	})

	suite.Assert().ErrorIs(err, models.ErrDuplicateRoom)
	suite.Assert().Equal(int64(1), suite.CountRecords("rooms"))
}

func (suite *HotelRepositoryTestSuite) TestCreateRoom_SameNumberAcrossHotels() {
	first := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	second := suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")

	suite.createRoomRecord(first.ID, "101", models.RoomTypeSingle)
	suite.createRoomRecord(second.ID, "101", models.RoomTypeSingle)

	suite.Assert().Equal(int64(2), suite.CountRecords("rooms"))
}

func (suite *HotelRepositoryTestSuite) TestGetRoom() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	created := suite.createRoomRecord(hotel.ID, "101", models.RoomTypeDouble)

	found, err := suite.repo.GetRoom(context.Background(), hotel.ID, created.ID)

	suite.AssertNoDBError(err)
	suite.Assert().Equal(created.ID, found.ID)
	suite.Assert().True(found.PricePerNight.Equal(decimal.NewFromInt(45)))
}

func (suite *HotelRepositoryTestSuite) TestGetRoom_WrongHotel() {
	first := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	second := suite.createHotelRecord("Sunset Inn", "sunset-inn", "Abuja")
	room := suite.createRoomRecord(first.ID, "101", models.RoomTypeSingle)

	_, err := suite.repo.GetRoom(context.Background(), second.ID, room.ID)

	suite.Assert().ErrorIs(err, models.ErrRoomNotFound)
}

func (suite *HotelRepositoryTestSuite) TestGetRoom_NotFound() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")

	_, err := suite.repo.GetRoom(context.Background(), hotel.ID, uuid.New())

	suite.Assert().ErrorIs(err, models.ErrRoomNotFound)
}

func (suite *HotelRepositoryTestSuite) TestUpdateRoom() {
	hotel := suite.createHotelRecord("Sunrise Lodge", "sunrise-lodge", "Lagos")
	room := suite.createRoomRecord(hotel.ID, "101", models.RoomTypeSingle)

	room.PricePerNight = decimal.NewFromFloat(52.50)
	room.IsAvailable = false
	err := suite.repo.UpdateRoom(context.Background(), room)
	suite.AssertNoDBError(err)

	found, err := suite.repo.GetRoom(context.Background(), hotel.ID, room.ID)
	suite.AssertNoDBError(err)
	suite.Assert().True(found.PricePerNight.Equal(decimal.NewFromFloat(52.50)))
	suite.Assert().False(found.IsAvailable)
}
