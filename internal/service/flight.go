package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/pkg/flightapi"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
)

var (
	ErrAirportNotFound      = errors.New("no airport matches this name")
	ErrAirportAmbiguous     = errors.New("more than one airport matches this name")
	ErrFlightNotFound       = repository.ErrFlightNotFound
	ErrFlightTicketNotFound = repository.ErrFlightTicketNotFound
)

type FlightSearcher interface {
	SearchAirports(ctx context.Context, query string) ([]domain.Airport, error)
	SearchFlights(ctx context.Context, origin, destination domain.Airport, date *time.Time) ([]flightapi.Itinerary, error)
}

type FlightRepository interface {
	SaveAirport(ctx context.Context, airport domain.Airport) (domain.Airport, error)
	SaveFlights(ctx context.Context, flights []domain.Flight) ([]domain.Flight, error)
	FindByID(ctx context.Context, id uint) (domain.Flight, error)
	CreateTicket(ctx context.Context, ticket domain.FlightTicket) (domain.FlightTicket, error)
	DeleteTicket(ctx context.Context, id uint) error
}

type FlightPackageRepository interface {
	FindBySlug(ctx context.Context, slug string) (domain.HolidayPackage, error)
}

type FlightService struct {
	api      FlightSearcher
	repo     FlightRepository
	packages FlightPackageRepository
}

func NewFlightService(api FlightSearcher, repo FlightRepository, packages FlightPackageRepository) *FlightService {
	return &FlightService{
		api:      api,
		repo:     repo,
		packages: packages,
	}
}

// SearchFlights returns direct flights between two named airports. Upstream
// failures yield an empty list; unknown or ambiguous airport names are errors.
func (s *FlightService) SearchFlights(ctx context.Context, q domain.FlightQuery) ([]domain.Flight, error) {
	origin, err := s.resolveAirport(ctx, q.From)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return []domain.Flight{}, nil
	}

	destination, err := s.resolveAirport(ctx, q.To)
	if err != nil {
		return nil, err
	}
	if destination == nil {
		return []domain.Flight{}, nil
	}

	itineraries, err := s.api.SearchFlights(ctx, *origin, *destination, q.Date)
	if err != nil {
		zap.L().Warn("flight search failed, returning no flights", zap.Error(err))
		return []domain.Flight{}, nil
	}

	flights := FilterFlights(itineraries, *origin, *destination, q.Date)
	if len(flights) == 0 {
		return flights, nil
	}

	saved, err := s.repo.SaveFlights(ctx, flights)
	if err != nil {
		zap.L().Warn("caching flights failed", zap.Error(err))
		return flights, nil
	}

	return saved, nil
}

// FilterFlights keeps direct flights that really connect origin and destination
// and, when date is set, depart on that calendar day.
func FilterFlights(itineraries []flightapi.Itinerary, origin, destination domain.Airport, date *time.Time) []domain.Flight {
	flights := make([]domain.Flight, 0, len(itineraries))
	for _, it := range itineraries {
		f := it.Flight

		if it.Legs != 1 || f.Stops != 0 {
			continue
		}
		if f.OriginSkyID != origin.SkyID || f.DestinationSkyID != destination.SkyID {
			continue
		}
		if f.OriginEntityID != "" && f.OriginEntityID != origin.EntityID {
			continue
		}
		if f.DestinationEntityID != "" && f.DestinationEntityID != destination.EntityID {
			continue
		}
		if date != nil && !sameDay(f.Departure, *date) {
			continue
		}

		flights = append(flights, f)
	}

	return flights
}

// resolveAirport returns nil without error when the upstream could not be reached.
func (s *FlightService) resolveAirport(ctx context.Context, name string) (*domain.Airport, error) {
	candidates, err := s.api.SearchAirports(ctx, name)
	if err != nil {
		zap.L().Warn("airport search failed", zap.String("query", name), zap.Error(err))
		return nil, nil
	}

	airport, err := pickAirport(name, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, name)
	}

	saved, err := s.repo.SaveAirport(ctx, airport)
	if err != nil {
		zap.L().Warn("caching airport failed", zap.String("sky_id", airport.SkyID), zap.Error(err))
		return &airport, nil
	}

	return &saved, nil
}

// pickAirport accepts a single candidate, or a single exact match on name or sky id among several.
func pickAirport(name string, candidates []domain.Airport) (domain.Airport, error) {
	switch len(candidates) {
	case 0:
		return domain.Airport{}, ErrAirportNotFound
	case 1:
		return candidates[0], nil
	}

	var exact []domain.Airport
	for _, c := range candidates {
		if strings.EqualFold(c.Name, name) || strings.EqualFold(c.SkyID, name) {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	return domain.Airport{}, ErrAirportAmbiguous
}

func (s *FlightService) CreateTicket(ctx context.Context, packageSlug string, flightID uint) (domain.FlightTicket, error) {
	p, err := s.packages.FindBySlug(ctx, packageSlug)
	if err != nil {
		return domain.FlightTicket{}, fmt.Errorf("s.packages.FindBySlug -> %w", err)
	}

	flight, err := s.repo.FindByID(ctx, flightID)
	if err != nil {
		return domain.FlightTicket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	ticket, err := s.repo.CreateTicket(ctx, domain.FlightTicket{
		PackageID: p.ID,
		FlightID:  flight.ID,
		Price:     flight.Price,
	})
	if err != nil {
		return domain.FlightTicket{}, fmt.Errorf("s.repo.CreateTicket -> %w", err)
	}

	return ticket, nil
}

func (s *FlightService) DeleteTicket(ctx context.Context, id uint) error {
	if err := s.repo.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteTicket -> %w", err)
	}

	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
