package models

// TripType is one_way or round_trip.
type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

// Leg is one direction of the trip. Date is YYYY-MM-DD, Time is HH:MM.
type Leg struct {
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	FlightNumber   string `json:"flightNumber,omitempty"`
	PickupAddress  string `json:"pickupAddress,omitempty"`
	DropoffAddress string `json:"dropoffAddress,omitempty"`
}

// Extras are the passenger and luggage counts of a leg.
type Extras struct {
	Adults         int `json:"adults"`
	Bags           int `json:"bags"`
	OversizeBags   int `json:"oversizeBags"`
	ChildSeats     int `json:"childSeats"`
	BoosterSeats   int `json:"boosterSeats"`
	WaitingMinutes int `json:"waitingMinutes"`
}

// ExtrasKind tags ExtrasMode.
type ExtrasKind string

const (
	ExtrasShared      ExtrasKind = "shared"
	ExtrasIndependent ExtrasKind = "independent"
)

// ExtrasMode says whether the return leg reuses the outbound extras or
// carries its own. Return is only meaningful for ExtrasIndependent.
type ExtrasMode struct {
	Kind   ExtrasKind `json:"kind"`
	Return Extras     `json:"return"`
}

func SharedExtras() ExtrasMode { return ExtrasMode{Kind: ExtrasShared} }

func IndependentExtras(ret Extras) ExtrasMode {
	return ExtrasMode{Kind: ExtrasIndependent, Return: ret}
}

func (m ExtrasMode) IsIndependent() bool { return m.Kind == ExtrasIndependent }

// ReturnExtras resolves the extras that apply to the return leg.
func (m ExtrasMode) ReturnExtras(outbound Extras) Extras {
	if m.IsIndependent() {
		return m.Return
	}
	return outbound
}

// Contact is the person the booking is made for.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// RentalOptions carries the vehicle choice and rental extras. DropoffDate and
// DropoffTime end the rental period of a one-way trip.
type RentalOptions struct {
	VehicleID     string `json:"vehicleId"`
	FullInsurance bool   `json:"fullInsurance"`
	YoungDriver   bool   `json:"youngDriver"`
	DropoffDate   string `json:"dropoffDate,omitempty"`
	DropoffTime   string `json:"dropoffTime,omitempty"`
}

// BookingDraft is what the wizard accumulates across its steps.
type BookingDraft struct {
	TripType     TripType      `json:"tripType" validate:"oneof=one_way round_trip"`
	Outbound     Leg           `json:"outbound"`
	Return       Leg           `json:"return"`
	Extras       Extras        `json:"extras"`
	ReturnExtras ExtrasMode    `json:"returnExtras"`
	Contact      Contact       `json:"contact"`
	Rental       RentalOptions `json:"rental"`
}

// NewDraft returns the empty draft a wizard mounts with.
func NewDraft() BookingDraft {
	return BookingDraft{
		TripType:     TripOneWay,
		Extras:       Extras{Adults: 1},
		ReturnExtras: SharedExtras(),
	}
}

// Valid reports whether t is one of the known trip types.
func (t TripType) Valid() bool { return t == TripOneWay || t == TripRoundTrip }

func (d BookingDraft) IsRoundTrip() bool { return d.TripType == TripRoundTrip }

// PickupLocation is where the rental starts.
func (d BookingDraft) PickupLocation() string { return d.Outbound.Origin }

// ReturnLocation is where the vehicle is handed back.
func (d BookingDraft) ReturnLocation() string {
	if d.IsRoundTrip() {
		return d.Return.Destination
	}
	return d.Outbound.Destination
}
