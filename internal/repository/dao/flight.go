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
	ErrFlightNotFound       = errors.New("flight does not exist")
	ErrFlightTicketNotFound = errors.New("flight ticket does not exist")
)

type Airport struct {
	ID       uint   `gorm:"primaryKey"`
	SkyID    string `gorm:"uniqueIndex;not null"`
	EntityID string `gorm:"not null"`
	Name     string `gorm:"not null"`
	Country  string
}

type Flight struct {
	ID                  uint   `gorm:"primaryKey"`
	ExternalID          string `gorm:"uniqueIndex;not null"`
	OriginSkyID         string `gorm:"not null;index"`
	DestinationSkyID    string `gorm:"not null;index"`
	OriginEntityID      string
	DestinationEntityID string
	FlightNumber        string
	Carriers            datatypes.JSON
	Departure           time.Time
	Arrival             time.Time
	DurationMinutes     int
	Stops               int
	Price               float64
	MissingFields       datatypes.JSON
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type FlightTicket struct {
	ID        uint    `gorm:"primaryKey"`
	PackageID uint    `gorm:"not null;index"`
	FlightID  uint    `gorm:"not null;index"`
	Flight    Flight  `gorm:"foreignKey:FlightID"`
	Price     float64 `gorm:"not null"`
}

type FlightDAO struct {
	db *gorm.DB
}

func NewFlightDAO(db *gorm.DB) *FlightDAO {
	return &FlightDAO{
		db: db,
	}
}

func (d *FlightDAO) UpsertAirport(ctx context.Context, airport Airport) (Airport, error) {
	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sky_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"entity_id", "name", "country"}),
	}).Create(&airport)
	if result.Error != nil {
		return Airport{}, result.Error
	}

	var stored Airport
	if err := d.db.WithContext(ctx).First(&stored, "sky_id = ?", airport.SkyID).Error; err != nil {
		return Airport{}, err
	}

	return stored, nil
}

// UpsertFlights refreshes cached flights keyed by external id and returns them with their row ids.
func (d *FlightDAO) UpsertFlights(ctx context.Context, flights []Flight) ([]Flight, error) {
	if len(flights) == 0 {
		return []Flight{}, nil
	}

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"origin_sky_id", "destination_sky_id", "origin_entity_id", "destination_entity_id",
			"flight_number", "carriers", "departure", "arrival", "duration_minutes", "stops", "price", "missing_fields", "updated_at",
		}),
	}).Create(&flights)
	if result.Error != nil {
		return nil, result.Error
	}

	ids := make([]string, 0, len(flights))
	for _, f := range flights {
		ids = append(ids, f.ExternalID)
	}

	var stored []Flight
	if err := d.db.WithContext(ctx).Where("external_id IN ?", ids).Order("departure").Find(&stored).Error; err != nil {
		return nil, err
	}

	return stored, nil
}

func (d *FlightDAO) FindByID(ctx context.Context, id uint) (Flight, error) {
	var flight Flight

	result := d.db.WithContext(ctx).First(&flight, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Flight{}, ErrFlightNotFound
		}

		return Flight{}, result.Error
	}

	return flight, nil
}

func (d *FlightDAO) InsertTicket(ctx context.Context, ticket FlightTicket) (FlightTicket, error) {
	result := d.db.WithContext(ctx).Omit("Flight").Create(&ticket)
	if result.Error != nil {
		return FlightTicket{}, result.Error
	}

	if err := d.db.WithContext(ctx).Preload("Flight").First(&ticket, ticket.ID).Error; err != nil {
		return FlightTicket{}, err
	}

	return ticket, nil
}

func (d *FlightDAO) FindTicketsByPackageID(ctx context.Context, packageID uint) ([]FlightTicket, error) {
	var tickets []FlightTicket

	result := d.db.WithContext(ctx).Preload("Flight").Where("package_id = ?", packageID).Order("id").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *FlightDAO) DeleteTicket(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&FlightTicket{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFlightTicketNotFound
	}

	return nil
}
