package models

// Surcharges are the add-ons of a quote, in euro cents.
type Surcharges struct {
	Pickup      int64 `json:"pickup"`
	Return      int64 `json:"return"`
	Insurance   int64 `json:"insurance"`
	YoungDriver int64 `json:"youngDriver"`
}

func (s Surcharges) Total() int64 {
	return s.Pickup + s.Return + s.Insurance + s.YoungDriver
}

// QuoteResult is derived from a draft and never persisted. Amounts are euro cents.
type QuoteResult struct {
	Offer                  Offer      `json:"offer"`
	VehicleID              string     `json:"vehicleId,omitempty"`
	DayCount               int        `json:"dayCount"`
	TierFound              bool       `json:"tierFound"`
	BasePrice              int64      `json:"basePrice"`
	DailyRate              *int64     `json:"dailyRate,omitempty"`
	Surcharges             Surcharges `json:"surcharges"`
	TotalPrice             int64      `json:"totalPrice"`
	IsBookable             bool       `json:"isBookable"`
	HasBlockingCapacity    bool       `json:"hasBlockingCapacity"`
	HasRoute               bool       `json:"hasRoute"`
	HasReturnRoute         bool       `json:"hasReturnRoute"`
	YoungDriverUnavailable bool       `json:"youngDriverUnavailable,omitempty"`
	Reason                 string     `json:"reason,omitempty"`
}
