package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

var (
	ErrHotelNotFound        = dao.ErrHotelNotFound
	ErrHotelRoomNotFound    = dao.ErrHotelRoomNotFound
	ErrHotelBookingNotFound = dao.ErrHotelBookingNotFound
)

type HotelDAO interface {
	UpsertHotels(ctx context.Context, searchKey string, hotels []dao.Hotel) ([]dao.Hotel, error)
	FindBySearchKey(ctx context.Context, key string, freshSince time.Time) ([]dao.Hotel, error)
	FindByExternalID(ctx context.Context, externalID string) (dao.Hotel, error)
	UpsertRooms(ctx context.Context, rooms []dao.HotelRoom) ([]dao.HotelRoom, error)
	FindRoomByID(ctx context.Context, id uint) (dao.HotelRoom, error)
	InsertBooking(ctx context.Context, booking dao.HotelBooking) (dao.HotelBooking, error)
	FindBookingsByPackageID(ctx context.Context, packageID uint) ([]dao.HotelBooking, error)
	DeleteBooking(ctx context.Context, id uint) error
}

type HotelRepository struct {
	dao HotelDAO
}

func NewHotelRepository(dao HotelDAO) *HotelRepository {
	return &HotelRepository{
		dao: dao,
	}
}

// SaveHotels records the hotels as the cached result of searchKey.
func (r *HotelRepository) SaveHotels(ctx context.Context, searchKey string, hotels []domain.Hotel) ([]domain.Hotel, error) {
	rows := make([]dao.Hotel, 0, len(hotels))
	for _, h := range hotels {
		missing, err := marshalMissingFields(h.MissingFields)
		if err != nil {
			return nil, err
		}

		rows = append(rows, dao.Hotel{
			ExternalID:    h.ExternalID,
			Name:          h.Name,
			Address:       h.Address,
			City:          h.City,
			Country:       h.Country,
			Latitude:      h.Latitude,
			Longitude:     h.Longitude,
			ReviewScore:   h.ReviewScore,
			Price:         h.Price,
			Currency:      h.Currency,
			MissingFields: missing,
		})
	}

	saved, err := r.dao.UpsertHotels(ctx, searchKey, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.UpsertHotels -> %w", err)
	}

	return r.hotelsDaoToDomain(saved), nil
}

func (r *HotelRepository) FindBySearchKey(ctx context.Context, searchKey string, freshSince time.Time) ([]domain.Hotel, error) {
	found, err := r.dao.FindBySearchKey(ctx, searchKey, freshSince)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBySearchKey -> %w", err)
	}

	return r.hotelsDaoToDomain(found), nil
}

func (r *HotelRepository) FindByExternalID(ctx context.Context, externalID string) (domain.Hotel, error) {
	found, err := r.dao.FindByExternalID(ctx, externalID)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("r.dao.FindByExternalID -> %w", err)
	}

	return r.hotelDaoToDomain(found), nil
}

func (r *HotelRepository) SaveRooms(ctx context.Context, hotelID uint, rooms []domain.HotelRoom) ([]domain.HotelRoom, error) {
	rows := make([]dao.HotelRoom, 0, len(rooms))
	for _, room := range rooms {
		missing, err := marshalMissingFields(room.MissingFields)
		if err != nil {
			return nil, err
		}

		rows = append(rows, dao.HotelRoom{
			ExternalID:    room.ExternalID,
			HotelID:       hotelID,
			Name:          room.Name,
			MaxOccupancy:  room.MaxOccupancy,
			MealPlan:      room.MealPlan,
			Refundable:    room.Refundable,
			Price:         room.Price,
			Currency:      room.Currency,
			MissingFields: missing,
		})
	}

	saved, err := r.dao.UpsertRooms(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.UpsertRooms -> %w", err)
	}

	result := make([]domain.HotelRoom, 0, len(saved))
	for _, room := range saved {
		result = append(result, r.roomDaoToDomain(room))
	}

	return result, nil
}

func (r *HotelRepository) FindRoomByID(ctx context.Context, id uint) (domain.HotelRoom, error) {
	found, err := r.dao.FindRoomByID(ctx, id)
	if err != nil {
		return domain.HotelRoom{}, fmt.Errorf("r.dao.FindRoomByID -> %w", err)
	}

	return r.roomDaoToDomain(found), nil
}

func (r *HotelRepository) CreateBooking(ctx context.Context, booking domain.HotelBooking) (domain.HotelBooking, error) {
	created, err := r.dao.InsertBooking(ctx, dao.HotelBooking{
		HotelRoomID: booking.HotelRoomID,
		PackageID:   booking.PackageID,
		CheckIn:     booking.CheckIn,
		CheckOut:    booking.CheckOut,
	})
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("r.dao.InsertBooking -> %w", err)
	}

	return r.bookingDaoToDomain(created), nil
}

func (r *HotelRepository) FindBookingsByPackageID(ctx context.Context, packageID uint) ([]domain.HotelBooking, error) {
	found, err := r.dao.FindBookingsByPackageID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBookingsByPackageID -> %w", err)
	}

	result := make([]domain.HotelBooking, 0, len(found))
	for _, b := range found {
		result = append(result, r.bookingDaoToDomain(b))
	}

	return result, nil
}

func (r *HotelRepository) DeleteBooking(ctx context.Context, id uint) error {
	if err := r.dao.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteBooking -> %w", err)
	}

	return nil
}

func (r *HotelRepository) hotelDaoToDomain(h dao.Hotel) domain.Hotel {
	return domain.Hotel{
		ID:            h.ID,
		ExternalID:    h.ExternalID,
		Name:          h.Name,
		Address:       h.Address,
		City:          h.City,
		Country:       h.Country,
		Latitude:      h.Latitude,
		Longitude:     h.Longitude,
		ReviewScore:   h.ReviewScore,
		Price:         h.Price,
		Currency:      h.Currency,
		MissingFields: unmarshalMissingFields(h.MissingFields),
		UpdatedAt:     h.UpdatedAt,
	}
}

func (r *HotelRepository) hotelsDaoToDomain(hotels []dao.Hotel) []domain.Hotel {
	result := make([]domain.Hotel, 0, len(hotels))
	for _, h := range hotels {
		result = append(result, r.hotelDaoToDomain(h))
	}

	return result
}

func (r *HotelRepository) roomDaoToDomain(room dao.HotelRoom) domain.HotelRoom {
	return domain.HotelRoom{
		ID:            room.ID,
		ExternalID:    room.ExternalID,
		HotelID:       room.HotelID,
		Name:          room.Name,
		MaxOccupancy:  room.MaxOccupancy,
		MealPlan:      room.MealPlan,
		Refundable:    room.Refundable,
		Price:         room.Price,
		Currency:      room.Currency,
		MissingFields: unmarshalMissingFields(room.MissingFields),
	}
}

func (r *HotelRepository) bookingDaoToDomain(b dao.HotelBooking) domain.HotelBooking {
	return domain.HotelBooking{
		ID:          b.ID,
		HotelRoomID: b.HotelRoomID,
		PackageID:   b.PackageID,
		CheckIn:     b.CheckIn,
		CheckOut:    b.CheckOut,
	}
}
