package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHotelNotFound        = errors.New("hotel does not exist")
	ErrHotelRoomNotFound    = errors.New("hotel room does not exist")
	ErrHotelBookingNotFound = errors.New("hotel booking does not exist")
)

// Hotel is cached from the upstream.
type Hotel struct {
	ID            uint   `gorm:"primaryKey"`
	ExternalID    string `gorm:"uniqueIndex;not null"`
	Name          string `gorm:"not null"`
	Address       string
	City          string
	Country       string
	Latitude      float64
	Longitude     float64
	ReviewScore   float64
	Price         float64
	Currency      string
	MissingFields datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HotelSearch links a normalized city query to each hotel it returned. A hotel
// can belong to several queries.
type HotelSearch struct {
	SearchKey string `gorm:"primaryKey"`
	HotelID   uint   `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

type HotelRoom struct {
	ID            uint   `gorm:"primaryKey"`
	ExternalID    string `gorm:"not null;uniqueIndex:idx_hotel_room_external"`
	HotelID       uint   `gorm:"not null;uniqueIndex:idx_hotel_room_external"`
	Name          string `gorm:"not null"`
	MaxOccupancy  int
	MealPlan      string
	Refundable    bool
	Price         float64
	Currency      string
	MissingFields datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type HotelBooking struct {
	ID          uint      `gorm:"primaryKey"`
	HotelRoomID uint      `gorm:"not null;index"`
	HotelRoom   HotelRoom `gorm:"foreignKey:HotelRoomID"`
	PackageID   uint      `gorm:"not null;index"`
	CheckIn     time.Time `gorm:"not null"`
	CheckOut    time.Time `gorm:"not null"`
}

type HotelDAO struct {
	db *gorm.DB
}

func NewHotelDAO(db *gorm.DB) *HotelDAO {
	return &HotelDAO{
		db: db,
	}
}

// UpsertHotels stores the hotels and makes them the cached result of searchKey,
// replacing whatever that query returned before.
func (d *HotelDAO) UpsertHotels(ctx context.Context, searchKey string, hotels []Hotel) ([]Hotel, error) {
	if len(hotels) == 0 {
		return []Hotel{}, nil
	}

	var stored []Hotel
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "address", "city", "country", "latitude", "longitude",
				"review_score", "price", "currency", "missing_fields", "updated_at",
			}),
		}).Create(&hotels).Error
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(hotels))
		for _, h := range hotels {
			ids = append(ids, h.ExternalID)
		}

		if err = tx.Where("external_id IN ?", ids).Order("id").Find(&stored).Error; err != nil {
			return err
		}

		if err = tx.Where("search_key = ?", searchKey).Delete(&HotelSearch{}).Error; err != nil {
			return err
		}

		links := make([]HotelSearch, 0, len(stored))
		for _, h := range stored {
			links = append(links, HotelSearch{SearchKey: searchKey, HotelID: h.ID})
		}

		return tx.Create(&links).Error
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// FindBySearchKey returns hotels cached for a query; a zero freshSince disables the age check.
func (d *HotelDAO) FindBySearchKey(ctx context.Context, key string, freshSince time.Time) ([]Hotel, error) {
	var hotels []Hotel

	links := d.db.WithContext(ctx).Model(&HotelSearch{}).Select("hotel_id").Where("search_key = ?", key)
	if !freshSince.IsZero() {
		links = links.Where("created_at >= ?", freshSince)
	}

	result := d.db.WithContext(ctx).Where("id IN (?)", links).Order("id").Find(&hotels)
	if result.Error != nil {
		return nil, result.Error
	}

	return hotels, nil
}

func (d *HotelDAO) FindByExternalID(ctx context.Context, externalID string) (Hotel, error) {
	var hotel Hotel

	result := d.db.WithContext(ctx).First(&hotel, "external_id = ?", externalID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Hotel{}, ErrHotelNotFound
		}

		return Hotel{}, result.Error
	}

	return hotel, nil
}

func (d *HotelDAO) UpsertRooms(ctx context.Context, rooms []HotelRoom) ([]HotelRoom, error) {
	if len(rooms) == 0 {
		return []HotelRoom{}, nil
	}

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}, {Name: "hotel_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "max_occupancy", "meal_plan", "refundable", "price", "currency", "missing_fields", "updated_at",
		}),
	}).Create(&rooms)
	if result.Error != nil {
		return nil, result.Error
	}

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ExternalID)
	}

	var stored []HotelRoom
	err := d.db.WithContext(ctx).
		Where("hotel_id = ? AND external_id IN ?", rooms[0].HotelID, ids).
		Order("id").
		Find(&stored).Error
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (d *HotelDAO) FindRoomByID(ctx context.Context, id uint) (HotelRoom, error) {
	var room HotelRoom

	result := d.db.WithContext(ctx).First(&room, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return HotelRoom{}, ErrHotelRoomNotFound
		}

		return HotelRoom{}, result.Error
	}

	return room, nil
}

func (d *HotelDAO) InsertBooking(ctx context.Context, booking HotelBooking) (HotelBooking, error) {
	result := d.db.WithContext(ctx).Omit("HotelRoom").Create(&booking)
	if result.Error != nil {
		return HotelBooking{}, result.Error
	}

	return booking, nil
}

func (d *HotelDAO) FindBookingsByPackageID(ctx context.Context, packageID uint) ([]HotelBooking, error) {
	var bookings []HotelBooking

	result := d.db.WithContext(ctx).Where("package_id = ?", packageID).Order("check_in").Find(&bookings)
	if result.Error != nil {
		return nil, result.Error
	}

	return bookings, nil
}

func (d *HotelDAO) DeleteBooking(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&HotelBooking{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHotelBookingNotFound
	}

	return nil
}
