package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/db/dbtest"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository"
	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/repository/dao"
)

type bookingFixture struct {
	svc      *BookingService
	bookings *repository.BookingRepository
	pkg      domain.HolidayPackage
	customer domain.User
	admin    domain.User
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.NewSQLite(t)
	bookings := repository.NewBookingRepository(dao.NewBookingDAO(db))
	packages := repository.NewPackageRepository(dao.NewPackageDAO(db))
	users := repository.NewUserRepository(dao.NewUserDAO(db))

	p := domain.HolidayPackage{Title: "Sunny Crete", Description: "Seven nights by the sea", MaxCapacity: 3, CostPrice: 700, MarkupPercentage: 10}
	p.Derive()
	pkg, err := packages.Create(ctx, p)
	require.NoError(t, err)

	admin, err := users.Create(ctx, domain.User{Email: "admin@example.com", Password: "x", Name: "Admin", Roles: []string{domain.RoleAdmin, domain.RoleCustomer}})
	require.NoError(t, err)
	customer, err := users.Create(ctx, domain.User{Email: "ada@example.com", Password: "x", Name: "Ada", Roles: []string{domain.RoleCustomer}})
	require.NoError(t, err)

	return bookingFixture{
		svc:      NewBookingService(bookings, packages, users),
		bookings: bookings,
		pkg:      pkg,
		customer: customer,
		admin:    admin,
	}
}

func (f bookingFixture) draft() domain.BookingDraft {
	return domain.BookingDraft{
		Package:       &domain.PackageKey{Title: f.pkg.Title, Description: f.pkg.Description},
		CustomerEmail: f.customer.Email,
	}
}

func TestBookingService_NextReference(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	next, err := f.svc.NextReference(ctx)
	require.NoError(t, err)
	assert.Equal(t, "G0001", next)

	draft := f.draft()
	draft.BookingReference = "G0042"
	_, err = f.svc.CreateBooking(ctx, draft)
	require.NoError(t, err)

	next, err = f.svc.NextReference(ctx)
	require.NoError(t, err)
	assert.Equal(t, "G0043", next)
}

func TestBookingService_CreateBooking_ResolvesNaturalKeys(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	draft := f.draft()
	draft.PackageID = 999
	draft.CustomerID = 999

	created, err := f.svc.CreateBooking(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "G0001", created.BookingReference)
	assert.Equal(t, domain.BookingStatusPending, created.Status)

	stored, err := f.bookings.FindByReference(ctx, created.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, f.pkg.ID, stored.PackageID)
	assert.Equal(t, f.customer.ID, stored.CustomerID)
}

func TestBookingService_CreateBooking_SurrogateIDs(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	created, err := f.svc.CreateBooking(ctx, domain.BookingDraft{PackageID: f.pkg.ID, CustomerID: f.customer.ID})
	require.NoError(t, err)
	assert.Equal(t, f.pkg.ID, created.PackageID)

	_, err = f.svc.CreateBooking(ctx, domain.BookingDraft{PackageID: 999, CustomerID: f.customer.ID})
	assert.ErrorIs(t, err, ErrPackageDoesNotExist)

	_, err = f.svc.CreateBooking(ctx, domain.BookingDraft{PackageID: f.pkg.ID, CustomerID: 999})
	assert.ErrorIs(t, err, ErrCustomerDoesNotExist)
}

func TestBookingService_CreateBooking_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	tests := []struct {
		name   string
		mutate func(d *domain.BookingDraft)
		want   error
	}{
		{
			name:   "unknown package",
			mutate: func(d *domain.BookingDraft) { d.Package.Description = "Different" },
			want:   ErrPackageDoesNotExist,
		},
		{
			name:   "unknown customer",
			mutate: func(d *domain.BookingDraft) { d.CustomerEmail = "nobody@example.com" },
			want:   ErrCustomerDoesNotExist,
		},
		{
			name:   "malformed reference",
			mutate: func(d *domain.BookingDraft) { d.BookingReference = "X1" },
			want:   ErrMalformedBookingReference,
		},
		{
			name:   "zero padded reference",
			mutate: func(d *domain.BookingDraft) { d.BookingReference = "G00001" },
			want:   ErrMalformedBookingReference,
		},
		{
			name:   "invalid status",
			mutate: func(d *domain.BookingDraft) { d.Status = "Lost" },
			want:   ErrInvalidBookingStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := f.draft()
			tt.mutate(&draft)

			_, err := f.svc.CreateBooking(ctx, draft)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := f.svc.GetBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBookingService_CreateBooking_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	draft := f.draft()
	draft.BookingReference = "G0007"

	_, err := f.svc.CreateBooking(ctx, draft)
	require.NoError(t, err)

	_, err = f.svc.CreateBooking(ctx, draft)
	assert.ErrorIs(t, err, ErrDuplicateBookingReference)

	all, err := f.svc.GetBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookingService_AddTravellers(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	_, err := f.svc.AddTravellers(ctx, f.admin, []domain.Traveller{
		{Name: "Ada", Age: 36, PassportNumber: "P1", BookingReference: "G0001"},
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	booking, err := f.svc.CreateBooking(ctx, f.draft())
	require.NoError(t, err)

	created, err := f.svc.AddTravellers(ctx, f.customer, []domain.Traveller{
		{Name: "Ada", Age: 36, PassportNumber: "P1", BookingReference: booking.BookingReference},
		{Name: "Byron", Age: 8, PassportNumber: "P2", BookingReference: booking.BookingReference},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, tr := range created {
		assert.Equal(t, booking.ID, tr.BookingID)
		assert.NotZero(t, tr.ID)
	}

	stored, err := f.svc.GetTravellers(ctx, booking.BookingReference)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestBookingService_AddTravellers_Capacity(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	booking, err := f.svc.CreateBooking(ctx, f.draft())
	require.NoError(t, err)

	travellers := func(n int) []domain.Traveller {
		list := make([]domain.Traveller, 0, n)
		for i := 0; i < n; i++ {
			list = append(list, domain.Traveller{Name: "T", Age: 30, PassportNumber: "P", BookingReference: booking.BookingReference})
		}
		return list
	}

	_, err = f.svc.AddTravellers(ctx, f.admin, travellers(2))
	require.NoError(t, err)

	_, err = f.svc.AddTravellers(ctx, f.admin, travellers(2))
	assert.ErrorIs(t, err, ErrPackageFull)

	stored, err := f.svc.GetTravellers(ctx, booking.BookingReference)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = f.svc.UpdateStatus(ctx, booking.BookingReference, domain.BookingStatusCancelled)
	require.NoError(t, err)

	second, err := f.svc.CreateBooking(ctx, f.draft())
	require.NoError(t, err)
	_, err = f.svc.AddTravellers(ctx, f.admin, []domain.Traveller{
		{Name: "A", Age: 1, PassportNumber: "P", BookingReference: second.BookingReference},
		{Name: "B", Age: 1, PassportNumber: "P", BookingReference: second.BookingReference},
		{Name: "C", Age: 1, PassportNumber: "P", BookingReference: second.BookingReference},
	})
	assert.NoError(t, err)
}

func TestBookingService_AddTravellers_NotOwned(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)

	draft := f.draft()
	draft.CustomerEmail = f.admin.Email
	booking, err := f.svc.CreateBooking(ctx, draft)
	require.NoError(t, err)

	_, err = f.svc.AddTravellers(ctx, f.customer, []domain.Traveller{
		{Name: "Ada", Age: 36, PassportNumber: "P1", BookingReference: booking.BookingReference},
	})
	assert.ErrorIs(t, err, ErrBookingNotOwned)
}

type fakeBookingRepo struct {
	BookingRepository
	refs    []string
	creates int
	taken   int
}

func (r *fakeBookingRepo) ListReferences(_ context.Context) ([]string, error) {
	return r.refs, nil
}

// Create simulates a concurrent writer claiming the first `taken` references.
func (r *fakeBookingRepo) Create(_ context.Context, b domain.HolidayBooking) (domain.HolidayBooking, error) {
	r.creates++
	r.refs = append(r.refs, b.BookingReference)
	if r.creates <= r.taken {
		return domain.HolidayBooking{}, repository.ErrBookingReferenceExists
	}
	b.ID = uint(r.creates)
	return b, nil
}

type fakePackageRepo struct {
	matches []domain.HolidayPackage
}

func (r fakePackageRepo) FindByID(_ context.Context, id uint) (domain.HolidayPackage, error) {
	for _, p := range r.matches {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.HolidayPackage{}, repository.ErrPackageNotFound
}

func (r fakePackageRepo) FindByKey(_ context.Context, _ domain.PackageKey) ([]domain.HolidayPackage, error) {
	return r.matches, nil
}

type fakeCustomerRepo struct{}

func (fakeCustomerRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	return domain.User{ID: id}, nil
}

func (fakeCustomerRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	return domain.User{ID: 1, Email: email}, nil
}

func TestBookingService_CreateBooking_RetriesTakenReference(t *testing.T) {
	repo := &fakeBookingRepo{taken: 2}
	svc := NewBookingService(repo, fakePackageRepo{matches: []domain.HolidayPackage{{ID: 1}}}, fakeCustomerRepo{})

	created, err := svc.CreateBooking(context.Background(), domain.BookingDraft{PackageID: 1, CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.creates)
	assert.Equal(t, "G0003", created.BookingReference)
}

func TestBookingService_CreateBooking_GivesUpAfterMaxAttempts(t *testing.T) {
	repo := &fakeBookingRepo{taken: maxReferenceAttempts}
	svc := NewBookingService(repo, fakePackageRepo{matches: []domain.HolidayPackage{{ID: 1}}}, fakeCustomerRepo{})

	_, err := svc.CreateBooking(context.Background(), domain.BookingDraft{PackageID: 1, CustomerID: 1})
	assert.ErrorIs(t, err, ErrReferenceUnavailable)
	assert.Equal(t, maxReferenceAttempts, repo.creates)
}

func TestBookingService_CreateBooking_AmbiguousPackage(t *testing.T) {
	svc := NewBookingService(&fakeBookingRepo{}, fakePackageRepo{matches: []domain.HolidayPackage{{ID: 1}, {ID: 2}}}, fakeCustomerRepo{})

	_, err := svc.CreateBooking(context.Background(), domain.BookingDraft{
		Package:       &domain.PackageKey{Title: "Twin", Description: "Twin"},
		CustomerEmail: "ada@example.com",
	})
	assert.ErrorIs(t, err, ErrAmbiguousPackage)
}
