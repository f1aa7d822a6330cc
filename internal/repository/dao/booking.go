package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound        = errors.New("booking does not exist")
	ErrBookingReferenceExists = errors.New("booking reference already exists")
)

type HolidayBooking struct {
	ID               uint        `gorm:"primaryKey"`
	BookingReference string      `gorm:"uniqueIndex;not null;size:16"`
	CustomerID       uint        `gorm:"not null;index"`
	PackageID        uint        `gorm:"not null;index"`
	Status           string      `gorm:"not null;default:Pending;size:16"`
	Travellers       []Traveller `gorm:"foreignKey:BookingID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Traveller struct {
	ID             uint   `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Age            int    `gorm:"not null"`
	PassportNumber string `gorm:"not null"`
	BookingID      uint   `gorm:"not null;index"`
}

type BookingDAO struct {
	db *gorm.DB
}

func NewBookingDAO(db *gorm.DB) *BookingDAO {
	return &BookingDAO{
		db: db,
	}
}

func (d *BookingDAO) Insert(ctx context.Context, booking HolidayBooking) (HolidayBooking, error) {
	result := d.db.WithContext(ctx).Omit("Travellers").Create(&booking)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return HolidayBooking{}, ErrBookingReferenceExists
		}

		return HolidayBooking{}, result.Error
	}

	return booking, nil
}

func (d *BookingDAO) FindAll(ctx context.Context) ([]HolidayBooking, error) {
	var bookings []HolidayBooking

	result := d.db.WithContext(ctx).Preload("Travellers").Order("id").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *BookingDAO) FindByReference(ctx context.Context, ref string) (HolidayBooking, error) {
	var booking HolidayBooking

	result := d.db.WithContext(ctx).Preload("Travellers").First(&booking, "booking_reference = ?", ref)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return HolidayBooking{}, ErrBookingNotFound
		}

		return HolidayBooking{}, result.Error
	}

	return booking, nil
}

func (d *BookingDAO) FindByCustomerID(ctx context.Context, customerID uint) ([]HolidayBooking, error) {
	var bookings []HolidayBooking

	result := d.db.WithContext(ctx).Preload("Travellers").Where("customer_id = ?", customerID).Order("id").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *BookingDAO) FindByPackageID(ctx context.Context, packageID uint) ([]HolidayBooking, error) {
	var bookings []HolidayBooking

	result := d.db.WithContext(ctx).Preload("Travellers").Where("package_id = ?", packageID).Order("id").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *BookingDAO) ListReferences(ctx context.Context) ([]string, error) {
	var refs []string

	result := d.db.WithContext(ctx).Model(&HolidayBooking{}).Pluck("booking_reference", &refs)
	if result.Error != nil {
		return nil, result.Error
	}

	return refs, nil
}

func (d *BookingDAO) UpdateStatus(ctx context.Context, ref string, status string) (HolidayBooking, error) {
	result := d.db.WithContext(ctx).Model(&HolidayBooking{}).
		Where("booking_reference = ?", ref).
		Update("status", status)
	if result.Error != nil {
		return HolidayBooking{}, result.Error
	}
	if result.RowsAffected == 0 {
		return HolidayBooking{}, ErrBookingNotFound
	}

	return d.FindByReference(ctx, ref)
}

func (d *BookingDAO) Delete(ctx context.Context, ref string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking HolidayBooking
		if err := tx.First(&booking, "booking_reference = ?", ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		if err := tx.Where("booking_id = ?", booking.ID).Delete(&Traveller{}).Error; err != nil {
			return err
		}

		return tx.Delete(&booking).Error
	})
}

// InsertTravellers stores the whole list or nothing.
func (d *BookingDAO) InsertTravellers(ctx context.Context, travellers []Traveller) ([]Traveller, error) {
	if len(travellers) == 0 {
		return []Traveller{}, nil
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&travellers).Error
	})
	if err != nil {
		return nil, err
	}

	return travellers, nil
}

func (d *BookingDAO) FindTravellersByBookingID(ctx context.Context, bookingID uint) ([]Traveller, error) {
	var travellers []Traveller

	result := d.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("id").Find(&travellers)
	if result.Error != nil {
		return nil, result.Error
	}

	return travellers, nil
}

// CountTravellersForPackage ignores cancelled bookings.
func (d *BookingDAO) CountTravellersForPackage(ctx context.Context, packageID uint, cancelledStatus string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Traveller{}).
		Joins("JOIN holiday_bookings ON holiday_bookings.id = travellers.booking_id").
		Where("holiday_bookings.package_id = ? AND holiday_bookings.status <> ?", packageID, cancelledStatus).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}
