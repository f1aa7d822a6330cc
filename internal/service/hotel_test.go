package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/db/dbtest"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/pkg/hotelapi"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

var parisDestinations = []hotelapi.Destination{
	{ID: "-1", Label: "Paris, Texas, United States", City: "Paris", Country: "United States", Latitude: 33.66, Longitude: -95.55},
	{ID: "-2", Label: "Paris, Ile de France, France", City: "Paris", Country: "France", Latitude: 48.85, Longitude: 2.35},
}

func TestMatchDestination(t *testing.T) {
	got, ok := MatchDestination(parisDestinations, "Paris", "France")
	require.True(t, ok)
	assert.Equal(t, "-2", got.ID)

	got, ok = MatchDestination(parisDestinations, "paris", "united states")
	require.True(t, ok)
	assert.Equal(t, "-1", got.ID)

	_, ok = MatchDestination(parisDestinations, "Paris", "Italy")
	assert.False(t, ok)
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "new york|united states", SearchKey("  New   York", "United States "))
}

type fakeHotelSearcher struct {
	destinations []hotelapi.Destination
	hotels       []domain.Hotel
	rooms        []domain.HotelRoom
	err          error

	hotelCalls int
}

func (f *fakeHotelSearcher) SearchDestinations(_ context.Context, _ string) ([]hotelapi.Destination, error) {
	return f.destinations, f.err
}

func (f *fakeHotelSearcher) SearchHotels(_ context.Context, _, _ float64, _, _ time.Time) ([]domain.Hotel, error) {
	f.hotelCalls++
	return f.hotels, f.err
}

func (f *fakeHotelSearcher) RoomList(_ context.Context, _ string, _, _ time.Time) ([]domain.HotelRoom, error) {
	return f.rooms, f.err
}

func newHotelService(t *testing.T, api HotelSearcher, ttl time.Duration) (*HotelService, *repository.PackageRepository) {
	t.Helper()

	db := dbtest.NewSQLite(t)
	packages := repository.NewPackageRepository(dao.NewPackageDAO(db))
	hotels := repository.NewHotelRepository(dao.NewHotelDAO(db))

	return NewHotelService(api, hotels, packages, ttl), packages
}

func stay() (time.Time, time.Time) {
	arrival := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return arrival, arrival.AddDate(0, 0, 3)
}

func TestHotelService_SearchHotels_NoMatchingDestination(t *testing.T) {
	api := &fakeHotelSearcher{destinations: parisDestinations, hotels: []domain.Hotel{{ExternalID: "1", Name: "Colosseo"}}}
	svc, _ := newHotelService(t, api, 0)
	arrival, departure := stay()

	hotels, err := svc.SearchHotels(context.Background(), domain.HotelQuery{City: "Paris", Country: "Italy", Arrival: arrival, Departure: departure})
	require.NoError(t, err)
	assert.Empty(t, hotels)
	assert.Zero(t, api.hotelCalls)
}

func TestHotelService_SearchHotels_CachesResults(t *testing.T) {
	ctx := context.Background()
	api := &fakeHotelSearcher{
		destinations: parisDestinations,
		hotels: []domain.Hotel{
			{ExternalID: "11", Name: "Lutece", Price: 180, Currency: "EUR"},
			{ExternalID: "12", Name: "Opera", Address: "2 Rue Scribe", Price: 250, Currency: "EUR"},
		},
	}
	svc, _ := newHotelService(t, api, time.Hour)
	arrival, departure := stay()
	q := domain.HotelQuery{City: "Paris", Country: "France", Arrival: arrival, Departure: departure}

	first, err := svc.SearchHotels(ctx, q)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Paris", first[0].City)
	assert.Equal(t, "France", first[0].Country)
	assert.Equal(t, "Lutece, Paris, France", first[0].Address)
	assert.Equal(t, "2 Rue Scribe", first[1].Address)

	second, err := svc.SearchHotels(ctx, domain.HotelQuery{City: "paris", Country: "france", Arrival: arrival, Departure: departure})
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, api.hotelCalls)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.SearchHotels(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, api.hotelCalls)
}

func TestHotelService_SearchHotels_OverlappingQueriesKeepTheirHotels(t *testing.T) {
	ctx := context.Background()
	api := &fakeHotelSearcher{
		destinations: []hotelapi.Destination{
			{Label: "New York, United States", City: "New York", Country: "United States"},
			{Label: "Manhattan, New York, United States", City: "Manhattan", Country: "United States"},
		},
	}
	svc, _ := newHotelService(t, api, 0)
	arrival, departure := stay()
	newYork := domain.HotelQuery{City: "New York", Country: "United States", Arrival: arrival, Departure: departure}
	manhattan := domain.HotelQuery{City: "Manhattan", Country: "United States", Arrival: arrival, Departure: departure}

	api.hotels = []domain.Hotel{{ExternalID: "1", Name: "Plaza"}, {ExternalID: "2", Name: "Carlyle"}}
	_, err := svc.SearchHotels(ctx, newYork)
	require.NoError(t, err)

	api.hotels = []domain.Hotel{{ExternalID: "2", Name: "Carlyle"}, {ExternalID: "3", Name: "Standard"}}
	_, err = svc.SearchHotels(ctx, manhattan)
	require.NoError(t, err)

	hotels, err := svc.SearchHotels(ctx, newYork)
	require.NoError(t, err)
	assert.Equal(t, 2, api.hotelCalls)
	require.Len(t, hotels, 2)
	assert.Equal(t, "Plaza", hotels[0].Name)
	assert.Equal(t, "Carlyle", hotels[1].Name)
}

func TestHotelService_SearchHotels_UpstreamDown(t *testing.T) {
	api := &fakeHotelSearcher{err: errors.New("429")}
	svc, _ := newHotelService(t, api, 0)
	arrival, departure := stay()

	hotels, err := svc.SearchHotels(context.Background(), domain.HotelQuery{City: "Paris", Country: "France", Arrival: arrival, Departure: departure})
	require.NoError(t, err)
	assert.Empty(t, hotels)
}

func TestHotelService_RoomsAndBookings(t *testing.T) {
	ctx := context.Background()
	api := &fakeHotelSearcher{
		destinations: parisDestinations,
		hotels:       []domain.Hotel{{ExternalID: "11", Name: "Lutece"}},
		rooms:        []domain.HotelRoom{{ExternalID: "r1", Name: "Double", MaxOccupancy: 2, Price: 540}},
	}
	svc, packages := newHotelService(t, api, 0)
	arrival, departure := stay()

	_, err := svc.GetRooms(ctx, "11", arrival, departure)
	assert.ErrorIs(t, err, ErrHotelNotFound)

	_, err = svc.SearchHotels(ctx, domain.HotelQuery{City: "Paris", Country: "France", Arrival: arrival, Departure: departure})
	require.NoError(t, err)

	_, err = svc.GetRooms(ctx, "11", departure, arrival)
	assert.ErrorIs(t, err, ErrInvalidStay)

	rooms, err := svc.GetRooms(ctx, "11", arrival, departure)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.NotZero(t, rooms[0].ID)

	p := domain.HolidayPackage{Title: "Paris Weekend", Description: "Three nights", MaxCapacity: 2, CostPrice: 600}
	p.Derive()
	pkg, err := packages.Create(ctx, p)
	require.NoError(t, err)

	booking, err := svc.CreateHotelBooking(ctx, pkg.Slug, rooms[0].ID, arrival, departure)
	require.NoError(t, err)
	assert.Equal(t, pkg.ID, booking.PackageID)

	_, err = svc.CreateHotelBooking(ctx, pkg.Slug, 999, arrival, departure)
	assert.ErrorIs(t, err, ErrHotelRoomNotFound)

	_, err = svc.CreateHotelBooking(ctx, "nowhere", rooms[0].ID, arrival, departure)
	assert.ErrorIs(t, err, ErrPackageNotFound)

	require.NoError(t, svc.DeleteHotelBooking(ctx, booking.ID))
	assert.ErrorIs(t, svc.DeleteHotelBooking(ctx, booking.ID), ErrHotelBookingNotFound)
}
