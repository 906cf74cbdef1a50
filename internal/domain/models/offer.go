package models

// Offer identifies a regional pricing catalog.
type Offer string

const (
	// OfferDefault is the Larnaca catalog, valid island-wide.
	OfferDefault Offer = "default"

	// OfferRegional is the Paphos catalog, only for pickups and returns inside the Paphos zone.
	OfferRegional Offer = "regional"
)

func (o Offer) Valid() bool {
	return o == OfferDefault || o == OfferRegional
}

// OfferContext is the resolved catalog selection for a widget state.
type OfferContext struct {
	AutoOffer      Offer  `json:"autoOffer"`
	ManualOffer    *Offer `json:"manualOffer,omitempty"`
	EffectiveOffer Offer  `json:"effectiveOffer"`
	Eligible       bool   `json:"eligible"`
}
