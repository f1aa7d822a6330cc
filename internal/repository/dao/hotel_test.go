package dao_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/db/dbtest"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

func TestHotelDAO_UpsertAndSearchKey(t *testing.T) {
	ctx := context.Background()
	d := dao.NewHotelDAO(dbtest.NewSQLite(t))

	saved, err := d.UpsertHotels(ctx, "paris|france", []dao.Hotel{
		{ExternalID: "11", Name: "Lutece", City: "Paris", Price: 100},
		{ExternalID: "12", Name: "Opera", City: "Paris", Price: 200},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	firstID := saved[0].ID

	cached, err := d.FindBySearchKey(ctx, "paris|france", time.Time{})
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	again, err := d.UpsertHotels(ctx, "paris|france", []dao.Hotel{
		{ExternalID: "11", Name: "Lutece Renovated", City: "Paris", Price: 120},
	})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, firstID, again[0].ID)
	assert.Equal(t, "Lutece Renovated", again[0].Name)

	cached, err = d.FindBySearchKey(ctx, "paris|france", time.Time{})
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, firstID, cached[0].ID)

	stale, err := d.FindBySearchKey(ctx, "paris|france", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)

	_, err = d.FindByExternalID(ctx, "nope")
	assert.ErrorIs(t, err, dao.ErrHotelNotFound)
}

func TestHotelDAO_OverlappingSearches(t *testing.T) {
	ctx := context.Background()
	d := dao.NewHotelDAO(dbtest.NewSQLite(t))

	_, err := d.UpsertHotels(ctx, "new york|united states", []dao.Hotel{
		{ExternalID: "1", Name: "Plaza"},
		{ExternalID: "2", Name: "Carlyle"},
	})
	require.NoError(t, err)

	_, err = d.UpsertHotels(ctx, "manhattan|united states", []dao.Hotel{
		{ExternalID: "2", Name: "Carlyle"},
		{ExternalID: "3", Name: "Standard"},
	})
	require.NoError(t, err)

	newYork, err := d.FindBySearchKey(ctx, "new york|united states", time.Time{})
	require.NoError(t, err)
	require.Len(t, newYork, 2)
	assert.Equal(t, "1", newYork[0].ExternalID)
	assert.Equal(t, "2", newYork[1].ExternalID)

	manhattan, err := d.FindBySearchKey(ctx, "manhattan|united states", time.Time{})
	require.NoError(t, err)
	require.Len(t, manhattan, 2)
	assert.Equal(t, "2", manhattan[0].ExternalID)
	assert.Equal(t, "3", manhattan[1].ExternalID)
}

func TestHotelDAO_RoomsAndBookings(t *testing.T) {
	ctx := context.Background()
	d := dao.NewHotelDAO(dbtest.NewSQLite(t))

	hotels, err := d.UpsertHotels(ctx, "paris|france", []dao.Hotel{{ExternalID: "11", Name: "Lutece"}})
	require.NoError(t, err)

	rooms, err := d.UpsertRooms(ctx, []dao.HotelRoom{
		{ExternalID: "a", HotelID: hotels[0].ID, Name: "Single", MaxOccupancy: 1},
		{ExternalID: "b", HotelID: hotels[0].ID, Name: "Double", MaxOccupancy: 2},
	})
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	room, err := d.FindRoomByID(ctx, rooms[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Double", room.Name)

	checkIn := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	booking, err := d.InsertBooking(ctx, dao.HotelBooking{
		HotelRoomID: room.ID,
		PackageID:   3,
		CheckIn:     checkIn,
		CheckOut:    checkIn.AddDate(0, 0, 3),
	})
	require.NoError(t, err)

	bookings, err := d.FindBookingsByPackageID(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	require.NoError(t, d.DeleteBooking(ctx, booking.ID))
	assert.ErrorIs(t, d.DeleteBooking(ctx, booking.ID), dao.ErrHotelBookingNotFound)
	_, err = d.FindRoomByID(ctx, 999)
	assert.ErrorIs(t, err, dao.ErrHotelRoomNotFound)
}
