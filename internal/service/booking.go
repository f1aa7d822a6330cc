package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
)

const maxReferenceAttempts = 5

var (
	ErrBookingNotFound           = repository.ErrBookingNotFound
	ErrDuplicateBookingReference = repository.ErrBookingReferenceExists
	ErrMalformedBookingReference = domain.ErrMalformedBookingReference
	ErrPackageDoesNotExist       = errors.New("package does not exist")
	ErrCustomerDoesNotExist      = errors.New("customer does not exist")
	ErrAmbiguousPackage          = errors.New("more than one package matches this title and description")
	ErrInvalidBookingStatus      = errors.New("invalid booking status")
	ErrReferenceUnavailable      = errors.New("could not reserve a booking reference, try again")
	ErrPackageFull               = errors.New("package has no capacity left for these travellers")
	ErrBookingNotOwned           = errors.New("booking belongs to another customer")
)

type BookingRepository interface {
	Create(ctx context.Context, booking domain.HolidayBooking) (domain.HolidayBooking, error)
	FindAll(ctx context.Context) ([]domain.HolidayBooking, error)
	FindByReference(ctx context.Context, ref string) (domain.HolidayBooking, error)
	FindByCustomerID(ctx context.Context, customerID uint) ([]domain.HolidayBooking, error)
	ListReferences(ctx context.Context) ([]string, error)
	UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (domain.HolidayBooking, error)
	Delete(ctx context.Context, ref string) error
	CreateTravellers(ctx context.Context, travellers []domain.Traveller) ([]domain.Traveller, error)
	FindTravellersByBookingID(ctx context.Context, bookingID uint) ([]domain.Traveller, error)
	CountActiveTravellers(ctx context.Context, packageID uint) (int, error)
}

type BookingPackageRepository interface {
	FindByID(ctx context.Context, id uint) (domain.HolidayPackage, error)
	FindByKey(ctx context.Context, key domain.PackageKey) ([]domain.HolidayPackage, error)
}

type BookingCustomerRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type BookingService struct {
	repo      BookingRepository
	packages  BookingPackageRepository
	customers BookingCustomerRepository
}

func NewBookingService(repo BookingRepository, packages BookingPackageRepository, customers BookingCustomerRepository) *BookingService {
	return &BookingService{
		repo:      repo,
		packages:  packages,
		customers: customers,
	}
}

func (s *BookingService) NextReference(ctx context.Context) (string, error) {
	refs, err := s.repo.ListReferences(ctx)
	if err != nil {
		return "", fmt.Errorf("s.repo.ListReferences -> %w", err)
	}

	next, err := domain.NextBookingReference(refs)
	if err != nil {
		return "", fmt.Errorf("domain.NextBookingReference -> %w", err)
	}

	return next, nil
}

// CreateBooking resolves the draft's package and customer, then stores the booking
// with the resolved ids. Without a client reference the next free one is reserved,
// retrying when a concurrent create took it first.
func (s *BookingService) CreateBooking(ctx context.Context, draft domain.BookingDraft) (domain.HolidayBooking, error) {
	p, err := s.resolvePackage(ctx, draft)
	if err != nil {
		return domain.HolidayBooking{}, err
	}

	customer, err := s.resolveCustomer(ctx, draft)
	if err != nil {
		return domain.HolidayBooking{}, err
	}

	status := draft.Status
	if status == "" {
		status = domain.BookingStatusPending
	}
	if !status.IsValid() {
		return domain.HolidayBooking{}, fmt.Errorf("%w: %q", ErrInvalidBookingStatus, status)
	}

	booking := domain.HolidayBooking{
		CustomerID: customer.ID,
		PackageID:  p.ID,
		Status:     status,
	}

	if draft.BookingReference != "" {
		if !domain.IsBookingReference(draft.BookingReference) {
			return domain.HolidayBooking{}, fmt.Errorf("%w: %q", ErrMalformedBookingReference, draft.BookingReference)
		}

		booking.BookingReference = draft.BookingReference
		created, err := s.repo.Create(ctx, booking)
		if err != nil {
			return domain.HolidayBooking{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		return created, nil
	}

	for attempt := 1; attempt <= maxReferenceAttempts; attempt++ {
		ref, err := s.NextReference(ctx)
		if err != nil {
			return domain.HolidayBooking{}, err
		}

		booking.BookingReference = ref
		created, err := s.repo.Create(ctx, booking)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, repository.ErrBookingReferenceExists) {
			return domain.HolidayBooking{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		zap.L().Debug("booking reference taken, retrying",
			zap.String("reference", ref),
			zap.Int("attempt", attempt),
		)
	}

	return domain.HolidayBooking{}, ErrReferenceUnavailable
}

func (s *BookingService) resolvePackage(ctx context.Context, draft domain.BookingDraft) (domain.HolidayPackage, error) {
	if draft.Package != nil {
		matches, err := s.packages.FindByKey(ctx, *draft.Package)
		if err != nil {
			return domain.HolidayPackage{}, fmt.Errorf("s.packages.FindByKey -> %w", err)
		}

		switch len(matches) {
		case 0:
			return domain.HolidayPackage{}, ErrPackageDoesNotExist
		case 1:
			return matches[0], nil
		default:
			return domain.HolidayPackage{}, ErrAmbiguousPackage
		}
	}

	if draft.PackageID == 0 {
		return domain.HolidayPackage{}, ErrPackageDoesNotExist
	}

	p, err := s.packages.FindByID(ctx, draft.PackageID)
	if err != nil {
		if errors.Is(err, repository.ErrPackageNotFound) {
			return domain.HolidayPackage{}, ErrPackageDoesNotExist
		}

		return domain.HolidayPackage{}, fmt.Errorf("s.packages.FindByID -> %w", err)
	}

	return p, nil
}

func (s *BookingService) resolveCustomer(ctx context.Context, draft domain.BookingDraft) (domain.User, error) {
	var (
		customer domain.User
		err      error
	)

	switch {
	case draft.CustomerEmail != "":
		customer, err = s.customers.FindByEmail(ctx, draft.CustomerEmail)
	case draft.CustomerID != 0:
		customer, err = s.customers.FindByID(ctx, draft.CustomerID)
	default:
		return domain.User{}, ErrCustomerDoesNotExist
	}

	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrCustomerDoesNotExist
		}

		return domain.User{}, fmt.Errorf("s.customers.Find -> %w", err)
	}

	return customer, nil
}

func (s *BookingService) GetBookings(ctx context.Context) ([]domain.HolidayBooking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return bookings, nil
}

func (s *BookingService) GetBooking(ctx context.Context, ref string) (domain.HolidayBooking, error) {
	booking, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return domain.HolidayBooking{}, fmt.Errorf("s.repo.FindByReference -> %w", err)
	}

	return booking, nil
}

func (s *BookingService) GetCustomerBookings(ctx context.Context, customerID uint) ([]domain.HolidayBooking, error) {
	bookings, err := s.repo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCustomerID -> %w", err)
	}

	return bookings, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (domain.HolidayBooking, error) {
	if !status.IsValid() {
		return domain.HolidayBooking{}, fmt.Errorf("%w: %q", ErrInvalidBookingStatus, status)
	}

	booking, err := s.repo.UpdateStatus(ctx, ref, status)
	if err != nil {
		return domain.HolidayBooking{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return booking, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, ref string) error {
	if err := s.repo.Delete(ctx, ref); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *BookingService) GetTravellers(ctx context.Context, ref string) ([]domain.Traveller, error) {
	booking, err := s.repo.FindByReference(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByReference -> %w", err)
	}

	travellers, err := s.repo.FindTravellersByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTravellersByBookingID -> %w", err)
	}
	for i := range travellers {
		travellers[i].BookingReference = booking.BookingReference
	}

	return travellers, nil
}

// AddTravellers attaches travellers to bookings named by reference. Either every
// traveller is stored or none is. Non-admin actors may only use their own bookings.
func (s *BookingService) AddTravellers(ctx context.Context, actor domain.User, travellers []domain.Traveller) ([]domain.Traveller, error) {
	bookings := make(map[string]domain.HolidayBooking)
	perPackage := make(map[uint]int)

	for i, t := range travellers {
		booking, ok := bookings[t.BookingReference]
		if !ok {
			found, err := s.repo.FindByReference(ctx, t.BookingReference)
			if err != nil {
				if errors.Is(err, repository.ErrBookingNotFound) {
					return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, t.BookingReference)
				}

				return nil, fmt.Errorf("s.repo.FindByReference -> %w", err)
			}
			if !actor.IsAdmin() && found.CustomerID != actor.ID {
				return nil, ErrBookingNotOwned
			}

			booking = found
			bookings[t.BookingReference] = found
		}

		travellers[i].BookingID = booking.ID
		if booking.Status != domain.BookingStatusCancelled {
			perPackage[booking.PackageID]++
		}
	}

	for packageID, adding := range perPackage {
		p, err := s.packages.FindByID(ctx, packageID)
		if err != nil {
			return nil, fmt.Errorf("s.packages.FindByID -> %w", err)
		}

		current, err := s.repo.CountActiveTravellers(ctx, packageID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.CountActiveTravellers -> %w", err)
		}

		// TODO: count and insert run outside one transaction, two concurrent requests can overbook by a few seats.
		if current+adding > p.MaxCapacity {
			return nil, fmt.Errorf("%w: %s has %d of %d seats taken", ErrPackageFull, p.Slug, current, p.MaxCapacity)
		}
	}

	created, err := s.repo.CreateTravellers(ctx, travellers)
	if err != nil {
		return nil, fmt.Errorf("s.repo.CreateTravellers -> %w", err)
	}

	return created, nil
}
