package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/db/dbtest"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

func TestPackageDAO(t *testing.T) {
	ctx := context.Background()
	d := dao.NewPackageDAO(dbtest.NewSQLite(t))

	crete, err := d.Insert(ctx, dao.HolidayPackage{Title: "Crete", Slug: "crete", Description: "Beach week", MaxCapacity: 10, CostPrice: 500})
	require.NoError(t, err)

	_, err = d.Insert(ctx, dao.HolidayPackage{Title: "crete", Slug: "crete", Description: "Other", MaxCapacity: 1, CostPrice: 1})
	assert.ErrorIs(t, err, dao.ErrPackageSlugExists)

	matches, err := d.FindByTitleAndDescription(ctx, "Crete", "Beach week")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, crete.ID, matches[0].ID)

	none, err := d.FindByTitleAndDescription(ctx, "Crete", "beach week")
	require.NoError(t, err)
	assert.Empty(t, none)

	crete.MaxCapacity = 12
	updated, err := d.Update(ctx, crete)
	require.NoError(t, err)
	assert.Equal(t, 12, updated.MaxCapacity)

	_, err = d.Update(ctx, dao.HolidayPackage{ID: 999, Title: "x", Slug: "x", Description: "x"})
	assert.ErrorIs(t, err, dao.ErrPackageNotFound)

	require.NoError(t, d.Delete(ctx, crete.ID))
	_, err = d.FindBySlug(ctx, "crete")
	assert.ErrorIs(t, err, dao.ErrPackageNotFound)
	assert.ErrorIs(t, d.Delete(ctx, crete.ID), dao.ErrPackageNotFound)
}
