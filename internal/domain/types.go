package domain

// Status represents a lightweight state value.
type Status string

const (
	BookingStatusPending   Status = "pending"
	BookingStatusConfirmed Status = "confirmed"
)
