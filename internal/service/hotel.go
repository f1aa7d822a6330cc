package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/pkg/hotelapi"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
)

var (
	ErrHotelNotFound        = repository.ErrHotelNotFound
	ErrHotelRoomNotFound    = repository.ErrHotelRoomNotFound
	ErrHotelBookingNotFound = repository.ErrHotelBookingNotFound
	ErrInvalidStay          = errors.New("check-out must be after check-in")
)

type HotelSearcher interface {
	SearchDestinations(ctx context.Context, query string) ([]hotelapi.Destination, error)
	SearchHotels(ctx context.Context, latitude, longitude float64, arrival, departure time.Time) ([]domain.Hotel, error)
	RoomList(ctx context.Context, hotelID string, arrival, departure time.Time) ([]domain.HotelRoom, error)
}

type HotelRepository interface {
	SaveHotels(ctx context.Context, searchKey string, hotels []domain.Hotel) ([]domain.Hotel, error)
	FindBySearchKey(ctx context.Context, searchKey string, freshSince time.Time) ([]domain.Hotel, error)
	FindByExternalID(ctx context.Context, externalID string) (domain.Hotel, error)
	SaveRooms(ctx context.Context, hotelID uint, rooms []domain.HotelRoom) ([]domain.HotelRoom, error)
	FindRoomByID(ctx context.Context, id uint) (domain.HotelRoom, error)
	CreateBooking(ctx context.Context, booking domain.HotelBooking) (domain.HotelBooking, error)
	DeleteBooking(ctx context.Context, id uint) error
}

type HotelPackageRepository interface {
	FindBySlug(ctx context.Context, slug string) (domain.HolidayPackage, error)
}

type HotelService struct {
	api      HotelSearcher
	repo     HotelRepository
	packages HotelPackageRepository
	cacheTTL time.Duration
	now      func() time.Time
}

// NewHotelService keeps cached searches forever when cacheTTL is zero.
func NewHotelService(api HotelSearcher, repo HotelRepository, packages HotelPackageRepository, cacheTTL time.Duration) *HotelService {
	return &HotelService{
		api:      api,
		repo:     repo,
		packages: packages,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

func (s *HotelService) SearchHotels(ctx context.Context, q domain.HotelQuery) ([]domain.Hotel, error) {
	key := SearchKey(q.City, q.Country)

	var freshSince time.Time
	if s.cacheTTL > 0 {
		freshSince = s.now().Add(-s.cacheTTL)
	}

	cached, err := s.repo.FindBySearchKey(ctx, key, freshSince)
	if err != nil {
		zap.L().Warn("reading hotel cache failed", zap.String("key", key), zap.Error(err))
	} else if len(cached) > 0 {
		return cached, nil
	}

	destinations, err := s.api.SearchDestinations(ctx, q.City)
	if err != nil {
		zap.L().Warn("destination search failed, returning no hotels", zap.String("city", q.City), zap.Error(err))
		return []domain.Hotel{}, nil
	}

	destination, ok := MatchDestination(destinations, q.City, q.Country)
	if !ok {
		return []domain.Hotel{}, nil
	}

	hotels, err := s.api.SearchHotels(ctx, destination.Latitude, destination.Longitude, q.Arrival, q.Departure)
	if err != nil {
		zap.L().Warn("hotel search failed, returning no hotels", zap.String("city", q.City), zap.Error(err))
		return []domain.Hotel{}, nil
	}
	if len(hotels) == 0 {
		return hotels, nil
	}

	for i := range hotels {
		if hotels[i].City == "" {
			hotels[i].City = destination.City
		}
		if hotels[i].Country == "" {
			hotels[i].Country = destination.Country
		}
		if hotels[i].Address == "" {
			hotels[i].Address = synthesizeAddress(hotels[i])
		}
	}

	saved, err := s.repo.SaveHotels(ctx, key, hotels)
	if err != nil {
		zap.L().Warn("caching hotels failed", zap.String("key", key), zap.Error(err))
		return hotels, nil
	}

	return saved, nil
}

// MatchDestination picks the first candidate whose label, city or country text
// contains both the city and the country, ignoring case.
func MatchDestination(candidates []hotelapi.Destination, city, country string) (hotelapi.Destination, bool) {
	city = strings.ToLower(strings.TrimSpace(city))
	country = strings.ToLower(strings.TrimSpace(country))

	for _, c := range candidates {
		text := strings.ToLower(c.Label + " " + c.City + " " + c.Country)
		if strings.Contains(text, city) && strings.Contains(text, country) {
			return c, true
		}
	}

	return hotelapi.Destination{}, false
}

func SearchKey(city, country string) string {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return normalize(city) + "|" + normalize(country)
}

func synthesizeAddress(h domain.Hotel) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{h.Name, h.City, h.Country} {
		if p != "" && p != "Unknown" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unknown"
	}
	return strings.Join(parts, ", ")
}

func (s *HotelService) GetHotel(ctx context.Context, externalID string) (domain.Hotel, error) {
	hotel, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return domain.Hotel{}, fmt.Errorf("s.repo.FindByExternalID -> %w", err)
	}

	return hotel, nil
}

// GetRooms only serves hotels that a previous search cached.
func (s *HotelService) GetRooms(ctx context.Context, externalID string, arrival, departure time.Time) ([]domain.HotelRoom, error) {
	if !departure.After(arrival) {
		return nil, ErrInvalidStay
	}

	hotel, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByExternalID -> %w", err)
	}

	rooms, err := s.api.RoomList(ctx, hotel.ExternalID, arrival, departure)
	if err != nil {
		zap.L().Warn("room search failed, returning no rooms", zap.String("hotel", externalID), zap.Error(err))
		return []domain.HotelRoom{}, nil
	}
	if len(rooms) == 0 {
		return rooms, nil
	}

	saved, err := s.repo.SaveRooms(ctx, hotel.ID, rooms)
	if err != nil {
		zap.L().Warn("caching rooms failed", zap.String("hotel", externalID), zap.Error(err))
		for i := range rooms {
			rooms[i].HotelID = hotel.ID
		}
		return rooms, nil
	}

	return saved, nil
}

func (s *HotelService) CreateHotelBooking(ctx context.Context, packageSlug string, roomID uint, checkIn, checkOut time.Time) (domain.HotelBooking, error) {
	if !checkOut.After(checkIn) {
		return domain.HotelBooking{}, ErrInvalidStay
	}

	p, err := s.packages.FindBySlug(ctx, packageSlug)
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("s.packages.FindBySlug -> %w", err)
	}

	room, err := s.repo.FindRoomByID(ctx, roomID)
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("s.repo.FindRoomByID -> %w", err)
	}

	booking, err := s.repo.CreateBooking(ctx, domain.HotelBooking{
		HotelRoomID: room.ID,
		PackageID:   p.ID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
	})
	if err != nil {
		return domain.HotelBooking{}, fmt.Errorf("s.repo.CreateBooking -> %w", err)
	}

	return booking, nil
}

func (s *HotelService) DeleteHotelBooking(ctx context.Context, id uint) error {
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteBooking -> %w", err)
	}

	return nil
}
