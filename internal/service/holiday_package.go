package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
)

var (
	ErrPackageNotFound    = repository.ErrPackageNotFound
	ErrPackageTitleExists = repository.ErrPackageSlugExists
	ErrPackageInUse       = errors.New("package still has bookings, hotel bookings or flight tickets")
)

type PackageRepository interface {
	Create(ctx context.Context, p domain.HolidayPackage) (domain.HolidayPackage, error)
	FindAll(ctx context.Context) ([]domain.HolidayPackage, error)
	FindBySlug(ctx context.Context, slug string) (domain.HolidayPackage, error)
	Update(ctx context.Context, p domain.HolidayPackage) (domain.HolidayPackage, error)
	Delete(ctx context.Context, id uint) error
}

type PackageBookingRepository interface {
	FindByPackageID(ctx context.Context, packageID uint) ([]domain.HolidayBooking, error)
}

type PackageHotelBookingRepository interface {
	FindBookingsByPackageID(ctx context.Context, packageID uint) ([]domain.HotelBooking, error)
}

type PackageTicketRepository interface {
	FindTicketsByPackageID(ctx context.Context, packageID uint) ([]domain.FlightTicket, error)
}

type PackageService struct {
	repo     PackageRepository
	bookings PackageBookingRepository
	hotels   PackageHotelBookingRepository
	tickets  PackageTicketRepository
}

func NewPackageService(
	repo PackageRepository,
	bookings PackageBookingRepository,
	hotels PackageHotelBookingRepository,
	tickets PackageTicketRepository,
) *PackageService {
	return &PackageService{
		repo:     repo,
		bookings: bookings,
		hotels:   hotels,
		tickets:  tickets,
	}
}

func (s *PackageService) CreatePackage(ctx context.Context, p domain.HolidayPackage) (domain.HolidayPackage, error) {
	p.ID = 0
	p.Derive()

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PackageService) GetPackages(ctx context.Context) ([]domain.HolidayPackage, error) {
	packages, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return packages, nil
}

func (s *PackageService) GetPackage(ctx context.Context, slug string) (domain.HolidayPackage, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("s.repo.FindBySlug -> %w", err)
	}

	return p, nil
}

// UpdatePackage re-derives the slug, so renaming a package moves it to a new URL.
func (s *PackageService) UpdatePackage(ctx context.Context, slug string, p domain.HolidayPackage) (domain.HolidayPackage, error) {
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("s.repo.FindBySlug -> %w", err)
	}

	p.ID = existing.ID
	p.Derive()

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return domain.HolidayPackage{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *PackageService) DeletePackage(ctx context.Context, slug string) error {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("s.repo.FindBySlug -> %w", err)
	}

	bookings, err := s.bookings.FindByPackageID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("s.bookings.FindByPackageID -> %w", err)
	}
	hotelBookings, err := s.hotels.FindBookingsByPackageID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("s.hotels.FindBookingsByPackageID -> %w", err)
	}
	tickets, err := s.tickets.FindTicketsByPackageID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("s.tickets.FindTicketsByPackageID -> %w", err)
	}
	if len(bookings) > 0 || len(hotelBookings) > 0 || len(tickets) > 0 {
		return ErrPackageInUse
	}

	if err := s.repo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *PackageService) GetPackageBookings(ctx context.Context, slug string) ([]domain.HolidayBooking, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBySlug -> %w", err)
	}

	bookings, err := s.bookings.FindByPackageID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("s.bookings.FindByPackageID -> %w", err)
	}

	return bookings, nil
}

func (s *PackageService) GetPackageHotelBookings(ctx context.Context, slug string) ([]domain.HotelBooking, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBySlug -> %w", err)
	}

	bookings, err := s.hotels.FindBookingsByPackageID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("s.hotels.FindBookingsByPackageID -> %w", err)
	}

	return bookings, nil
}

func (s *PackageService) GetPackageFlightTickets(ctx context.Context, slug string) ([]domain.FlightTicket, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBySlug -> %w", err)
	}

	tickets, err := s.tickets.FindTicketsByPackageID(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("s.tickets.FindTicketsByPackageID -> %w", err)
	}

	return tickets, nil
}
