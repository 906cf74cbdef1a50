package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "wakacjecypr/internal/config"
	intdb "wakacjecypr/internal/db"
	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		reference VARCHAR(64) NOT NULL,
		trip_type VARCHAR(16) NOT NULL,
		offer VARCHAR(16) NOT NULL,
		vehicle_id VARCHAR(64) NOT NULL,
		contact_name VARCHAR(191) NOT NULL,
		contact_phone VARCHAR(64) NOT NULL,
		contact_email VARCHAR(191) NULL,
		day_count INT NOT NULL,
		base_price BIGINT NOT NULL,
		surcharge_total BIGINT NOT NULL,
		total BIGINT NOT NULL,
		full_insurance TINYINT(1) NOT NULL DEFAULT 0,
		young_driver TINYINT(1) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL,
		payment_url VARCHAR(512) NULL,
		created_at DATETIME NOT NULL,
		UNIQUE KEY uq_bookings_reference (reference)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS booking_legs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		booking_id BIGINT NOT NULL,
		direction VARCHAR(16) NOT NULL,
		origin VARCHAR(64) NOT NULL,
		destination VARCHAR(64) NOT NULL,
		trip_date VARCHAR(10) NOT NULL,
		trip_time VARCHAR(5) NOT NULL,
		flight_number VARCHAR(32) NULL,
		pickup_address VARCHAR(255) NULL,
		dropoff_address VARCHAR(255) NULL,
		adults INT NOT NULL,
		bags INT NOT NULL DEFAULT 0,
		oversize_bags INT NOT NULL DEFAULT 0,
		child_seats INT NOT NULL DEFAULT 0,
		booster_seats INT NOT NULL DEFAULT 0,
		waiting_minutes INT NOT NULL DEFAULT 0,
		KEY idx_booking_legs_booking (booking_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS car_offers (
		id VARCHAR(64) NOT NULL,
		offer VARCHAR(16) NOT NULL,
		model VARCHAR(128) NOT NULL,
		capacity INT NOT NULL DEFAULT 0,
		max_passengers INT NOT NULL DEFAULT 0,
		price_3days DECIMAL(10,2) NULL,
		price_per_day DECIMAL(10,2) NULL,
		price_4_6days DECIMAL(10,2) NULL,
		price_7_10days DECIMAL(10,2) NULL,
		price_10plus_days DECIMAL(10,2) NULL,
		active TINYINT(1) NOT NULL DEFAULT 1,
		PRIMARY KEY (offer, id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'admin',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_admin_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the tables the service writes to.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create stores a booking and its legs in one transaction and sets b.ID.
func (r BookingRepository) Create(ctx context.Context, b *models.Booking) error {
	db := r.db()
	if db == nil {
		return domain.InternalError{Msg: "database not connected"}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings
			(reference, trip_type, offer, vehicle_id, contact_name, contact_phone, contact_email,
			 day_count, base_price, surcharge_total, total, full_insurance, young_driver,
			 status, payment_url, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Reference, string(b.TripType), string(b.Offer), b.VehicleID,
		b.ContactName, b.ContactPhone, intdb.NullIfEmpty(b.ContactEmail),
		b.DayCount, b.BasePrice, b.SurchargeTotal, b.Total, b.FullInsurance, b.YoungDriver,
		b.Status, intdb.NullIfEmpty(b.PaymentURL), b.CreatedAt,
	)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return domain.ConflictError{Resource: "booking", Msg: "reference already exists", Err: err}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, leg := range b.Legs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO booking_legs
				(booking_id, direction, origin, destination, trip_date, trip_time,
				 flight_number, pickup_address, dropoff_address,
				 adults, bags, oversize_bags, child_seats, booster_seats, waiting_minutes)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, leg.Direction, leg.Origin, leg.Destination, leg.Date, leg.Time,
			intdb.NullIfEmpty(leg.FlightNumber), intdb.NullIfEmpty(leg.PickupAddress), intdb.NullIfEmpty(leg.DropoffAddress),
			leg.Extras.Adults, leg.Extras.Bags, leg.Extras.OversizeBags,
			leg.Extras.ChildSeats, leg.Extras.BoosterSeats, leg.Extras.WaitingMinutes,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	b.ID = id
	return nil
}

// GetByReference fetches a booking with its legs.
func (r BookingRepository) GetByReference(ctx context.Context, ref string) (models.Booking, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Booking{}, domain.ValidationError{Field: "reference", Msg: "reference is required"}
	}
	db := r.db()
	if db == nil {
		return models.Booking{}, domain.InternalError{Msg: "database not connected"}
	}

	var (
		b             models.Booking
		tripType      string
		offerID       string
		email, payURL sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT id, reference, trip_type, offer, vehicle_id, contact_name, contact_phone, contact_email,
			day_count, base_price, surcharge_total, total, full_insurance, young_driver,
			status, payment_url, created_at
		FROM bookings
		WHERE reference=? LIMIT 1`, ref).Scan(
		&b.ID, &b.Reference, &tripType, &offerID, &b.VehicleID,
		&b.ContactName, &b.ContactPhone, &email,
		&b.DayCount, &b.BasePrice, &b.SurchargeTotal, &b.Total, &b.FullInsurance, &b.YoungDriver,
		&b.Status, &payURL, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
		}
		return models.Booking{}, err
	}
	b.TripType = models.TripType(tripType)
	b.Offer = models.Offer(offerID)
	b.ContactEmail = email.String
	b.PaymentURL = payURL.String

	rows, err := db.QueryContext(ctx, `
		SELECT direction, origin, destination, trip_date, trip_time,
			COALESCE(flight_number, ''), COALESCE(pickup_address, ''), COALESCE(dropoff_address, ''),
			adults, bags, oversize_bags, child_seats, booster_seats, waiting_minutes
		FROM booking_legs
		WHERE booking_id=?
		ORDER BY id`, b.ID)
	if err != nil {
		return models.Booking{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var leg models.BookingLeg
		if err := rows.Scan(
			&leg.Direction, &leg.Origin, &leg.Destination, &leg.Date, &leg.Time,
			&leg.FlightNumber, &leg.PickupAddress, &leg.DropoffAddress,
			&leg.Extras.Adults, &leg.Extras.Bags, &leg.Extras.OversizeBags,
			&leg.Extras.ChildSeats, &leg.Extras.BoosterSeats, &leg.Extras.WaitingMinutes,
		); err != nil {
			return models.Booking{}, err
		}
		b.Legs = append(b.Legs, leg)
	}
	return b, rows.Err()
}
