package pricing

import (
	"wakacjecypr/internal/domain/models"
)

const (
	// MinRentalDays is the shortest bookable rental.
	MinRentalDays = 3

	// PackageDays is the day count priced with the flat tier price.
	PackageDays = 3

	// AirportWaiverDays is the duration from which the regional catalog drops airport fees.
	AirportWaiverDays = 7

	InsurancePerDay   int64 = 1700
	YoungDriverPerDay int64 = 1000
)

// FeePolicy decides how a catalog applies location fees.
type FeePolicy string

const (
	// FeeFlatPerLeg charges the location fee regardless of duration.
	FeeFlatPerLeg FeePolicy = "flat_per_leg"

	// FeeAirportWaived drops airport fees from AirportWaiverDays on.
	FeeAirportWaived FeePolicy = "airport_waived"
)

// Catalog is the fee table and rules of one offer. Fees are keyed by location code, in cents.
type Catalog struct {
	Offer              models.Offer
	Fees               map[string]int64
	Policy             FeePolicy
	YoungDriverAllowed bool
}

var defaultCatalog = Catalog{
	Offer: models.OfferDefault,
	Fees: map[string]int64{
		"larnaca":         0,
		"larnaca-airport": 1000,
		"nicosia":         1500,
		"limassol":        2000,
		"ayia-napa":       1500,
		"protaras":        2000,
		"paphos":          4000,
		"paphos-airport":  4000,
		"coral-bay":       4500,
		"polis":           5000,
	},
	Policy:             FeeFlatPerLeg,
	YoungDriverAllowed: true,
}

var regionalCatalog = Catalog{
	Offer: models.OfferRegional,
	Fees: map[string]int64{
		"paphos":         0,
		"paphos-airport": 1000,
		"coral-bay":      1000,
		"polis":          2000,
	},
	Policy: FeeAirportWaived,
}

// CatalogFor returns the catalog of an offer; unknown offers get the default catalog.
func CatalogFor(offer models.Offer) Catalog {
	if offer == models.OfferRegional {
		return regionalCatalog
	}
	return defaultCatalog
}

// Surcharges lists the fee table as LocationSurcharge rows.
func (c Catalog) Surcharges() []models.LocationSurcharge {
	out := make([]models.LocationSurcharge, 0, len(c.Fees))
	for _, l := range locations {
		if fee, ok := c.Fees[l.Code]; ok {
			out = append(out, models.LocationSurcharge{LocationCode: l.Code, Fee: fee})
		}
	}
	return out
}

// LegFee is the fee for picking up or returning at location for a rental of days.
func (c Catalog) LegFee(location string, days int) int64 {
	l, ok := LookupLocation(location)
	if !ok {
		return 0
	}
	if c.Policy == FeeAirportWaived && l.IsAirport() && days >= AirportWaiverDays {
		return 0
	}
	return c.Fees[l.Code]
}
