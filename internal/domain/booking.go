package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusCompleted BookingStatus = "Completed"
)

var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

func (s BookingStatus) IsValid() bool {
	for _, status := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

const (
	bookingReferencePrefix = "G"
	firstBookingReference  = "G0001"
)

var (
	ErrMalformedBookingReference = errors.New("malformed booking reference")

	// Four digits, or more without a leading zero, so each number has exactly one spelling.
	bookingReferenceExp = regexp.MustCompile(`^G(\d{4}|[1-9]\d{4,})$`)
)

type HolidayBooking struct {
	ID               uint          `json:"id"`
	BookingReference string        `json:"booking_reference"`
	CustomerID       uint          `json:"customer_id"`
	PackageID        uint          `json:"package_id"`
	Status           BookingStatus `json:"status"`
	Travellers       []Traveller   `json:"travellers,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// BookingDraft is a booking submission before its package and customer are resolved.
// An embedded natural key takes precedence over the matching surrogate id.
type BookingDraft struct {
	BookingReference string
	Status           BookingStatus
	PackageID        uint
	Package          *PackageKey
	CustomerID       uint
	CustomerEmail    string
}

func IsBookingReference(ref string) bool {
	return bookingReferenceExp.MatchString(ref)
}

func ParseBookingReference(ref string) (int, error) {
	if !IsBookingReference(ref) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedBookingReference, ref)
	}

	n, err := strconv.Atoi(strings.TrimPrefix(ref, bookingReferencePrefix))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedBookingReference, ref)
	}

	return n, nil
}

func FormatBookingReference(n int) string {
	return fmt.Sprintf("%s%04d", bookingReferencePrefix, n)
}

// NextBookingReference returns one past the numerically largest reference.
// Past G9999 the number simply widens (G10000).
func NextBookingReference(existing []string) (string, error) {
	if len(existing) == 0 {
		return firstBookingReference, nil
	}

	highest := 0
	for _, ref := range existing {
		n, err := ParseBookingReference(ref)
		if err != nil {
			return "", err
		}
		if n > highest {
			highest = n
		}
	}

	return FormatBookingReference(highest + 1), nil
}
