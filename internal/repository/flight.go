package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

var (
	ErrFlightNotFound       = dao.ErrFlightNotFound
	ErrFlightTicketNotFound = dao.ErrFlightTicketNotFound
)

type FlightDAO interface {
	UpsertAirport(ctx context.Context, airport dao.Airport) (dao.Airport, error)
	UpsertFlights(ctx context.Context, flights []dao.Flight) ([]dao.Flight, error)
	FindByID(ctx context.Context, id uint) (dao.Flight, error)
	InsertTicket(ctx context.Context, ticket dao.FlightTicket) (dao.FlightTicket, error)
	FindTicketsByPackageID(ctx context.Context, packageID uint) ([]dao.FlightTicket, error)
	DeleteTicket(ctx context.Context, id uint) error
}

type FlightRepository struct {
	dao FlightDAO
}

func NewFlightRepository(dao FlightDAO) *FlightRepository {
	return &FlightRepository{
		dao: dao,
	}
}

func (r *FlightRepository) SaveAirport(ctx context.Context, airport domain.Airport) (domain.Airport, error) {
	saved, err := r.dao.UpsertAirport(ctx, dao.Airport{
		SkyID:    airport.SkyID,
		EntityID: airport.EntityID,
		Name:     airport.Name,
		Country:  airport.Country,
	})
	if err != nil {
		return domain.Airport{}, fmt.Errorf("r.dao.UpsertAirport -> %w", err)
	}

	return domain.Airport{
		ID:       saved.ID,
		SkyID:    saved.SkyID,
		EntityID: saved.EntityID,
		Name:     saved.Name,
		Country:  saved.Country,
	}, nil
}

func (r *FlightRepository) SaveFlights(ctx context.Context, flights []domain.Flight) ([]domain.Flight, error) {
	rows := make([]dao.Flight, 0, len(flights))
	for _, f := range flights {
		row, err := r.domainToDao(f)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	saved, err := r.dao.UpsertFlights(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("r.dao.UpsertFlights -> %w", err)
	}

	result := make([]domain.Flight, 0, len(saved))
	for _, f := range saved {
		result = append(result, r.daoToDomain(f))
	}

	return result, nil
}

func (r *FlightRepository) FindByID(ctx context.Context, id uint) (domain.Flight, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *FlightRepository) CreateTicket(ctx context.Context, ticket domain.FlightTicket) (domain.FlightTicket, error) {
	created, err := r.dao.InsertTicket(ctx, dao.FlightTicket{
		PackageID: ticket.PackageID,
		FlightID:  ticket.FlightID,
		Price:     ticket.Price,
	})
	if err != nil {
		return domain.FlightTicket{}, fmt.Errorf("r.dao.InsertTicket -> %w", err)
	}

	return r.ticketDaoToDomain(created), nil
}

func (r *FlightRepository) FindTicketsByPackageID(ctx context.Context, packageID uint) ([]domain.FlightTicket, error) {
	found, err := r.dao.FindTicketsByPackageID(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTicketsByPackageID -> %w", err)
	}

	result := make([]domain.FlightTicket, 0, len(found))
	for _, t := range found {
		result = append(result, r.ticketDaoToDomain(t))
	}

	return result, nil
}

func (r *FlightRepository) DeleteTicket(ctx context.Context, id uint) error {
	if err := r.dao.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteTicket -> %w", err)
	}

	return nil
}

func (r *FlightRepository) domainToDao(f domain.Flight) (dao.Flight, error) {
	carriers, err := json.Marshal(f.Carriers)
	if err != nil {
		return dao.Flight{}, fmt.Errorf("json.Marshal carriers -> %w", err)
	}

	missing, err := marshalMissingFields(f.MissingFields)
	if err != nil {
		return dao.Flight{}, err
	}

	return dao.Flight{
		ExternalID:          f.ExternalID,
		OriginSkyID:         f.OriginSkyID,
		DestinationSkyID:    f.DestinationSkyID,
		OriginEntityID:      f.OriginEntityID,
		DestinationEntityID: f.DestinationEntityID,
		FlightNumber:        f.FlightNumber,
		Carriers:            carriers,
		Departure:           f.Departure,
		Arrival:             f.Arrival,
		DurationMinutes:     f.DurationMinutes,
		Stops:               f.Stops,
		Price:               f.Price,
		MissingFields:       missing,
	}, nil
}

func (r *FlightRepository) daoToDomain(f dao.Flight) domain.Flight {
	var carriers []string
	if len(f.Carriers) > 0 {
		_ = json.Unmarshal(f.Carriers, &carriers)
	}

	return domain.Flight{
		ID:                  f.ID,
		ExternalID:          f.ExternalID,
		OriginSkyID:         f.OriginSkyID,
		DestinationSkyID:    f.DestinationSkyID,
		OriginEntityID:      f.OriginEntityID,
		DestinationEntityID: f.DestinationEntityID,
		FlightNumber:        f.FlightNumber,
		Carriers:            carriers,
		Departure:           f.Departure,
		Arrival:             f.Arrival,
		DurationMinutes:     f.DurationMinutes,
		Stops:               f.Stops,
		Price:               f.Price,
		MissingFields:       unmarshalMissingFields(f.MissingFields),
	}
}

func (r *FlightRepository) ticketDaoToDomain(t dao.FlightTicket) domain.FlightTicket {
	ticket := domain.FlightTicket{
		ID:        t.ID,
		PackageID: t.PackageID,
		FlightID:  t.FlightID,
		Price:     t.Price,
	}
	if t.Flight.ID != 0 {
		flight := r.daoToDomain(t.Flight)
		ticket.Flight = &flight
	}

	return ticket
}

func marshalMissingFields(fields []string) (datatypes.JSON, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	b, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal missing fields -> %w", err)
	}

	return b, nil
}

func unmarshalMissingFields(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}

	var fields []string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	return fields
}
