package repository

import (
	"context"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

var (
	ErrBookingNotFound        = dao.ErrBookingNotFound
	ErrBookingReferenceExists = dao.ErrBookingReferenceExists
)

type BookingDAO interface {
	Insert(ctx context.Context, booking dao.HolidayBooking) (dao.HolidayBooking, error)
	FindAll(ctx context.Context) ([]dao.HolidayBooking, error)
	FindByReference(ctx context.Context, ref string) (dao.HolidayBooking, error)
	FindByCustomerID(ctx context.Context, customerID uint) ([]dao.HolidayBooking, error)
	FindByPackageID(ctx context.Context, packageID uint) ([]dao.HolidayBooking, error)
	ListReferences(ctx context.Context) ([]string, error)
	UpdateStatus(ctx context.Context, ref string, status string) (dao.HolidayBooking, error)
	Delete(ctx context.Context, ref string) error
	InsertTravellers(ctx context.Context, travellers []dao.Traveller) ([]dao.Traveller, error)
	FindTravellersByBookingID(ctx context.Context, bookingID uint) ([]dao.Traveller, error)
	CountTravellersForPackage(ctx context.Context, packageID uint, cancelledStatus string) (int64, error)
}

type BookingRepository struct {
	dao BookingDAO
}

func NewBookingRepository(dao BookingDAO) *BookingRepository {
	return &BookingRepository{
		dao: dao,
	}
}

func (r *BookingRepository) Create(ctx context.Context, booking domain.HolidayBooking) (domain.HolidayBooking, error) {
	created, err := r.dao.Insert(ctx, dao.HolidayBooking{
		BookingReference: booking.BookingReference,
		CustomerID:       booking.CustomerID,
		PackageID:        booking.PackageID,
		Status:           string(booking.Status),
	})
	if err != nil {
		return domain.HolidayBooking{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BookingRepository) FindAll(ctx context.Context) ([]domain.HolidayBooking, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *BookingRepository) FindByReference(ctx context.Context, ref string) (domain.HolidayBooking, error) {
	found, err := r.dao.FindByReference(ctx, ref)
	if err != nil {
		return domain.HolidayBooking{}, fmt.Errorf("r.dao.FindByReference -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BookingRepository) FindByCustomerID(ctx context.Context, customerID uint) ([]domain.HolidayBooking, error) {
	found, err := r.dao.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCustomerID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *BookingRepository) FindByPackageID(ctx context.Context, packageID uint) ([]domain.HolidayBooking, error) {
	found, err := r.dao.FindByPackageID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByPackageID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *BookingRepository) ListReferences(ctx context.Context) ([]string, error) {
	refs, err := r.dao.ListReferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListReferences -> %w", err)
	}

	return refs, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (domain.HolidayBooking, error) {
	updated, err := r.dao.UpdateStatus(ctx, ref, string(status))
	if err != nil {
		return domain.HolidayBooking{}, fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *BookingRepository) Delete(ctx context.Context, ref string) error {
	if err := r.dao.Delete(ctx, ref); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BookingRepository) CreateTravellers(ctx context.Context, travellers []domain.Traveller) ([]domain.Traveller, error) {
	rows := make([]dao.Traveller, 0, len(travellers))
	for _, t := range travellers {
		rows = append(rows, dao.Traveller{
			Name:           t.Name,
			Age:            t.Age,
			PassportNumber: t.PassportNumber,
			BookingID:      t.BookingID,
		})
	}

	created, err := r.dao.InsertTravellers(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.InsertTravellers -> %w", err)
	}

	result := make([]domain.Traveller, 0, len(created))
	for i, t := range created {
		traveller := r.travellerDaoToDomain(t)
		traveller.BookingReference = travellers[i].BookingReference
		result = append(result, traveller)
	}

	return result, nil
}

func (r *BookingRepository) FindTravellersByBookingID(ctx context.Context, bookingID uint) ([]domain.Traveller, error) {
	found, err := r.dao.FindTravellersByBookingID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTravellersByBookingID -> %w", err)
	}

	result := make([]domain.Traveller, 0, len(found))
	for _, t := range found {
		result = append(result, r.travellerDaoToDomain(t))
	}

	return result, nil
}

func (r *BookingRepository) CountActiveTravellers(ctx context.Context, packageID uint) (int, error) {
	count, err := r.dao.CountTravellersForPackage(ctx, packageID, string(domain.BookingStatusCancelled))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountTravellersForPackage -> %w", err)
	}

	return int(count), nil
}

func (r *BookingRepository) daoToDomain(b dao.HolidayBooking) domain.HolidayBooking {
	travellers := make([]domain.Traveller, 0, len(b.Travellers))
	for _, t := range b.Travellers {
		traveller := r.travellerDaoToDomain(t)
		traveller.BookingReference = b.BookingReference
		travellers = append(travellers, traveller)
	}

	return domain.HolidayBooking{
		ID:               b.ID,
		BookingReference: b.BookingReference,
		CustomerID:       b.CustomerID,
		PackageID:        b.PackageID,
		Status:           domain.BookingStatus(b.Status),
		Travellers:       travellers,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (r *BookingRepository) daosToDomain(bookings []dao.HolidayBooking) []domain.HolidayBooking {
	result := make([]domain.HolidayBooking, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, r.daoToDomain(b))
	}

	return result
}

func (r *BookingRepository) travellerDaoToDomain(t dao.Traveller) domain.Traveller {
	return domain.Traveller{
		ID:             t.ID,
		Name:           t.Name,
		Age:            t.Age,
		PassportNumber: t.PassportNumber,
		BookingID:      t.BookingID,
	}
}
