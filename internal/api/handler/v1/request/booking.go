package request

import (
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"
)

const DateLayout = "2006-01-02"

var (
	errMissingPackage   = errors.New("either package or package_id is required")
	errMissingCustomer  = errors.New("either customer_email or customer_id is required")
	errNoTravellers     = errors.New("at least one traveller is required")
	errCheckOutTooEarly = errors.New("check_out must be after check_in")
)

func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

func bookingStatuses() []interface{} {
	statuses := make([]interface{}, 0, len(domain.BookingStatuses))
	for _, s := range domain.BookingStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

type PackageRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	MaxCapacity      int     `json:"max_capacity"`
	CostPrice        float64 `json:"cost_price"`
	MarkupPercentage float64 `json:"markup_percentage"`
}

func (req *PackageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.MaxCapacity, validation.Required, validation.Min(1)),
		validation.Field(&req.CostPrice, validation.Min(0.0)),
		validation.Field(&req.MarkupPercentage, validation.Min(0.0)),
	)
}

func (req *PackageRequest) ToDomain() domain.HolidayPackage {
	return domain.HolidayPackage{
		Title:            req.Title,
		Description:      req.Description,
		MaxCapacity:      req.MaxCapacity,
		CostPrice:        req.CostPrice,
		MarkupPercentage: req.MarkupPercentage,
	}
}

type PackageKeyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (req PackageKeyRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Description, validation.Required),
	)
}

// CreateBookingRequest names its package and customer either by natural key or by id.
type CreateBookingRequest struct {
	BookingReference string             `json:"booking_reference"`
	Status           string             `json:"status"`
	PackageID        uint               `json:"package_id"`
	Package          *PackageKeyRequest `json:"package"`
	CustomerID       uint               `json:"customer_id"`
	CustomerEmail    string             `json:"customer_email"`
}

func (req *CreateBookingRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.In(bookingStatuses()...)),
		validation.Field(&req.Package),
		validation.Field(&req.CustomerEmail, is.Email),
	)
	if err != nil {
		return err
	}

	if req.Package == nil && req.PackageID == 0 {
		return errMissingPackage
	}
	if req.CustomerEmail == "" && req.CustomerID == 0 {
		return errMissingCustomer
	}

	return nil
}

func (req *CreateBookingRequest) ToDomain() domain.BookingDraft {
	draft := domain.BookingDraft{
		BookingReference: req.BookingReference,
		Status:           domain.BookingStatus(req.Status),
		PackageID:        req.PackageID,
		CustomerID:       req.CustomerID,
		CustomerEmail:    req.CustomerEmail,
	}
	if req.Package != nil {
		draft.Package = &domain.PackageKey{
			Title:       req.Package.Title,
			Description: req.Package.Description,
		}
	}

	return draft
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateBookingStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(bookingStatuses()...)),
	)
}

type TravellerRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	PassportNumber   string `json:"passport_number"`
	BookingReference string `json:"booking_reference"`
}

func (req *TravellerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Age, validation.Min(0), validation.Max(130)),
		validation.Field(&req.PassportNumber, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.BookingReference, validation.Required),
	)
}

type AddTravellersRequest []TravellerRequest

func (req AddTravellersRequest) Validate() error {
	if len(req) == 0 {
		return errNoTravellers
	}

	for i := range req {
		if err := req[i].Validate(); err != nil {
			return fmt.Errorf("traveller %d: %w", i, err)
		}
	}

	return nil
}

func (req AddTravellersRequest) ToDomain() []domain.Traveller {
	travellers := make([]domain.Traveller, 0, len(req))
	for _, t := range req {
		travellers = append(travellers, domain.Traveller{
			Name:             t.Name,
			Age:              t.Age,
			PassportNumber:   t.PassportNumber,
			BookingReference: t.BookingReference,
		})
	}
	return travellers
}
