package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserRole{},
		&HolidayPackage{},
		&HolidayBooking{},
		&Traveller{},
		&Airport{},
		&Flight{},
		&FlightTicket{},
		&Hotel{},
		&HotelSearch{},
		&HotelRoom{},
		&HotelBooking{},
	)
}

// isUniqueViolation covers raw postgres errors and dialects opened with TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
