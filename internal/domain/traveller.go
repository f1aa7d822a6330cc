package domain

type Traveller struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Age              int    `json:"age"`
	PassportNumber   string `json:"passport_number"`
	BookingID        uint   `json:"booking_id"`
	BookingReference string `json:"booking_reference,omitempty"`
}
