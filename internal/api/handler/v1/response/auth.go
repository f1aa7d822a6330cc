package response

import "github.com/yizeng/gab/gin/gorm/holiday-booking/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type RolesResponse struct {
	UserID uint     `json:"user_id"`
	Roles  []string `json:"roles"`
}

type NextReferenceResponse struct {
	BookingReference string `json:"booking_reference"`
}

type HealthcheckResponse struct {
	Status string `json:"status"`
}
