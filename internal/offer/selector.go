package offer

import (
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
)

// WidgetState is the input the offer selector looks at.
type WidgetState struct {
	PickupCode  string
	ReturnCode  string
	YoungDriver bool
	ManualOffer *models.Offer
}

// FromDraft builds the widget state of a draft plus the user's manual choice.
func FromDraft(d models.BookingDraft, manual *models.Offer) WidgetState {
	return WidgetState{
		PickupCode:  d.PickupLocation(),
		ReturnCode:  d.ReturnLocation(),
		YoungDriver: d.Rental.YoungDriver,
		ManualOffer: manual,
	}
}

// Evaluate resolves which catalog applies. The regional catalog is only
// eligible when pickup and return are both in the Paphos zone and no young
// driver is selected; a manual override is dropped when not eligible.
func Evaluate(w WidgetState) models.OfferContext {
	eligible := pricing.IsRegionalLocation(w.PickupCode) &&
		pricing.IsRegionalLocation(w.ReturnCode) &&
		!w.YoungDriver

	ctx := models.OfferContext{AutoOffer: models.OfferDefault, Eligible: eligible}
	if eligible {
		ctx.AutoOffer = models.OfferRegional
		if w.ManualOffer != nil && w.ManualOffer.Valid() {
			m := *w.ManualOffer
			ctx.ManualOffer = &m
		}
	}

	ctx.EffectiveOffer = ctx.AutoOffer
	if eligible && ctx.ManualOffer != nil && *ctx.ManualOffer == models.OfferDefault {
		ctx.EffectiveOffer = models.OfferDefault
	}
	return ctx
}
