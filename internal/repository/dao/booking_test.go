package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/db/dbtest"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

func TestBookingDAO_InsertDuplicateReference(t *testing.T) {
	ctx := context.Background()
	d := dao.NewBookingDAO(dbtest.NewSQLite(t))

	first, err := d.Insert(ctx, dao.HolidayBooking{BookingReference: "G0001", CustomerID: 1, PackageID: 1, Status: "Pending"})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = d.Insert(ctx, dao.HolidayBooking{BookingReference: "G0001", CustomerID: 2, PackageID: 1, Status: "Pending"})
	assert.ErrorIs(t, err, dao.ErrBookingReferenceExists)

	all, err := d.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookingDAO_Travellers(t *testing.T) {
	ctx := context.Background()
	d := dao.NewBookingDAO(dbtest.NewSQLite(t))

	active, err := d.Insert(ctx, dao.HolidayBooking{BookingReference: "G0001", CustomerID: 1, PackageID: 7, Status: "Confirmed"})
	require.NoError(t, err)
	cancelled, err := d.Insert(ctx, dao.HolidayBooking{BookingReference: "G0002", CustomerID: 1, PackageID: 7, Status: "Cancelled"})
	require.NoError(t, err)

	_, err = d.InsertTravellers(ctx, []dao.Traveller{
		{Name: "Ada", Age: 36, PassportNumber: "P1", BookingID: active.ID},
		{Name: "Alan", Age: 41, PassportNumber: "P2", BookingID: active.ID},
		{Name: "Grace", Age: 50, PassportNumber: "P3", BookingID: cancelled.ID},
	})
	require.NoError(t, err)

	count, err := d.CountTravellersForPackage(ctx, 7, "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	found, err := d.FindByReference(ctx, "G0001")
	require.NoError(t, err)
	assert.Len(t, found.Travellers, 2)

	refs, err := d.ListReferences(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"G0001", "G0002"}, refs)
}

func TestBookingDAO_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	d := dao.NewBookingDAO(dbtest.NewSQLite(t))

	b, err := d.Insert(ctx, dao.HolidayBooking{BookingReference: "G0005", CustomerID: 1, PackageID: 1, Status: "Pending"})
	require.NoError(t, err)
	_, err = d.InsertTravellers(ctx, []dao.Traveller{{Name: "Ada", Age: 36, PassportNumber: "P1", BookingID: b.ID}})
	require.NoError(t, err)

	updated, err := d.UpdateStatus(ctx, "G0005", "Confirmed")
	require.NoError(t, err)
	assert.Equal(t, "Confirmed", updated.Status)

	_, err = d.UpdateStatus(ctx, "G9999", "Confirmed")
	assert.ErrorIs(t, err, dao.ErrBookingNotFound)

	require.NoError(t, d.Delete(ctx, "G0005"))
	_, err = d.FindByReference(ctx, "G0005")
	assert.ErrorIs(t, err, dao.ErrBookingNotFound)

	travellers, err := d.FindTravellersByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, travellers)

	assert.ErrorIs(t, d.Delete(ctx, "G0005"), dao.ErrBookingNotFound)
}
