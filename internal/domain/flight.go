package domain

import "time"

// Airport carries both identifier systems the flight upstream uses.
type Airport struct {
	ID       uint   `json:"id"`
	SkyID    string `json:"sky_id"`
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
	Country  string `json:"country"`
}

type Flight struct {
	ID                  uint      `json:"id"`
	ExternalID          string    `json:"external_id"`
	OriginSkyID         string    `json:"origin_sky_id"`
	DestinationSkyID    string    `json:"destination_sky_id"`
	OriginEntityID      string    `json:"-"`
	DestinationEntityID string    `json:"-"`
	FlightNumber        string    `json:"flight_number"`
	Carriers            []string  `json:"carriers"`
	Departure           time.Time `json:"departure"`
	Arrival             time.Time `json:"arrival"`
	DurationMinutes     int       `json:"duration_minutes"`
	Stops               int       `json:"stops"`
	Price               float64   `json:"price"`
	MissingFields       []string  `json:"missing_fields,omitempty"`
}

type FlightTicket struct {
	ID        uint    `json:"id"`
	PackageID uint    `json:"package_id"`
	FlightID  uint    `json:"flight_id"`
	Flight    *Flight `json:"flight,omitempty"`
	Price     float64 `json:"price"`
}

type FlightQuery struct {
	From string
	To   string
	Date *time.Time
}
