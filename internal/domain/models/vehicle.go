package models

// RoutePricingTier is one pricing bracket of a vehicle. MaxDays nil means open-ended.
// Amounts are euro cents.
type RoutePricingTier struct {
	MinDays   int    `json:"minDays"`
	MaxDays   *int   `json:"maxDays,omitempty"`
	BasePrice int64  `json:"basePrice"`
	DailyRate *int64 `json:"dailyRate,omitempty"`
}

// Contains reports whether days falls inside [MinDays, MaxDays].
func (t RoutePricingTier) Contains(days int) bool {
	if days < t.MinDays {
		return false
	}
	return t.MaxDays == nil || days <= *t.MaxDays
}

// Vehicle is one fleet entry of a catalog together with its tiers.
type Vehicle struct {
	ID            string             `json:"id"`
	Model         string             `json:"model"`
	Capacity      int                `json:"capacity"`
	MaxPassengers int                `json:"maxPassengers"`
	Tiers         []RoutePricingTier `json:"tiers"`
}

// LocationKind classifies pickup/return points.
type LocationKind string

const (
	LocationCity    LocationKind = "city"
	LocationAirport LocationKind = "airport"
	LocationHotel   LocationKind = "hotel"
)

// Location is a known pickup/return point.
type Location struct {
	Code            string       `json:"code"`
	Name            string       `json:"name"`
	Kind            LocationKind `json:"kind"`
	Regional        bool         `json:"regional"`
	RequiresAddress bool         `json:"requiresAddress"`
}

func (l Location) IsAirport() bool { return l.Kind == LocationAirport }

// LocationSurcharge is the fee for picking up or returning at a location.
type LocationSurcharge struct {
	LocationCode string `json:"locationCode"`
	Fee          int64  `json:"fee"`
}
