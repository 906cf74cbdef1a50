package models

import "time"

// BookingRequest is what the wizard sends to the booking endpoint.
type BookingRequest struct {
	Draft     BookingDraft `json:"draft"`
	Offer     Offer        `json:"offer" validate:"required,oneof=default regional"`
	Total     int64        `json:"total" validate:"gte=0"`
	SessionID string       `json:"sessionId,omitempty" validate:"omitempty,max=64"`
}

// BookingConfirmation is returned by the booking endpoint on success.
type BookingConfirmation struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// Booking is the stored booking row.
type Booking struct {
	ID             int64        `json:"id"`
	Reference      string       `json:"reference"`
	TripType       TripType     `json:"tripType"`
	Offer          Offer        `json:"offer"`
	VehicleID      string       `json:"vehicleId"`
	ContactName    string       `json:"contactName"`
	ContactPhone   string       `json:"contactPhone"`
	ContactEmail   string       `json:"contactEmail,omitempty"`
	DayCount       int          `json:"dayCount"`
	BasePrice      int64        `json:"basePrice"`
	SurchargeTotal int64        `json:"surchargeTotal"`
	Total          int64        `json:"total"`
	FullInsurance  bool         `json:"fullInsurance"`
	YoungDriver    bool         `json:"youngDriver"`
	Status         string       `json:"status"`
	PaymentURL     string       `json:"paymentUrl,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
	Legs           []BookingLeg `json:"legs"`
}

// BookingLeg is one stored leg of a booking.
type BookingLeg struct {
	Direction      string `json:"direction"` // outbound / return
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	FlightNumber   string `json:"flightNumber,omitempty"`
	PickupAddress  string `json:"pickupAddress,omitempty"`
	DropoffAddress string `json:"dropoffAddress,omitempty"`
	Extras         Extras `json:"extras"`
}
