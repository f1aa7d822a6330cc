package domain

import "time"

type Hotel struct {
	ID            uint      `json:"id"`
	ExternalID    string    `json:"external_id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	ReviewScore   float64   `json:"review_score"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
	MissingFields []string  `json:"missing_fields,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type HotelRoom struct {
	ID            uint     `json:"id"`
	ExternalID    string   `json:"external_id"`
	HotelID       uint     `json:"hotel_id"`
	Name          string   `json:"name"`
	MaxOccupancy  int      `json:"max_occupancy"`
	MealPlan      string   `json:"meal_plan"`
	Refundable    bool     `json:"refundable"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

type HotelBooking struct {
	ID          uint      `json:"id"`
	HotelRoomID uint      `json:"hotel_room_id"`
	PackageID   uint      `json:"package_id"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
}

// HotelQuery is a city search for a stay.
type HotelQuery struct {
	City      string
	Country   string
	Arrival   time.Time
	Departure time.Time
}
