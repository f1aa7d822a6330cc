package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type HotelSearchRequest struct {
	City      string `form:"city"`
	Country   string `form:"country"`
	Arrival   string `form:"arrival"`
	Departure string `form:"departure"`
}

func (req *HotelSearchRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.City, validation.Required),
		validation.Field(&req.Country, validation.Required),
		validation.Field(&req.Arrival, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.Departure, validation.Required, validation.Date(DateLayout)),
	)
	if err != nil {
		return err
	}

	return checkStay(req.Arrival, req.Departure)
}

type RoomListRequest struct {
	Arrival   string `form:"arrival"`
	Departure string `form:"departure"`
}

func (req *RoomListRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Arrival, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.Departure, validation.Required, validation.Date(DateLayout)),
	)
	if err != nil {
		return err
	}

	return checkStay(req.Arrival, req.Departure)
}

type FlightSearchRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
	Date string `form:"date"`
}

func (req *FlightSearchRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.From, validation.Required),
		validation.Field(&req.To, validation.Required),
		validation.Field(&req.Date, validation.Date(DateLayout)),
	)
}

// DateOrNil expects a validated request.
func (req *FlightSearchRequest) DateOrNil() *time.Time {
	if req.Date == "" {
		return nil
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil
	}
	return &date
}

type HotelBookingRequest struct {
	PackageSlug string `json:"package_slug"`
	HotelRoomID uint   `json:"hotel_room_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
}

func (req *HotelBookingRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.PackageSlug, validation.Required),
		validation.Field(&req.HotelRoomID, validation.Required),
		validation.Field(&req.CheckIn, validation.Required, validation.Date(DateLayout)),
		validation.Field(&req.CheckOut, validation.Required, validation.Date(DateLayout)),
	)
	if err != nil {
		return err
	}

	return checkStay(req.CheckIn, req.CheckOut)
}

type FlightTicketRequest struct {
	PackageSlug string `json:"package_slug"`
	FlightID    uint   `json:"flight_id"`
}

func (req *FlightTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PackageSlug, validation.Required),
		validation.Field(&req.FlightID, validation.Required),
	)
}

func checkStay(from, to string) error {
	start, err := ParseDate(from)
	if err != nil {
		return err
	}
	end, err := ParseDate(to)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return errCheckOutTooEarly
	}
	return nil
}
