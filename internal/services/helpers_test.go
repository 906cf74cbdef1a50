package services

import (
	"context"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
)

type staticFleet struct {
	err error
}

func (f staticFleet) LoadFleet(_ context.Context, o models.Offer) ([]models.Vehicle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return pricing.StaticFleet(o), nil
}

// bookableDraft is a 4 day one-way rental from Larnaca Airport to Nicosia
// in the lca-yaris: 4 x 38 EUR + 10 EUR airport + 15 EUR Nicosia.
func bookableDraft() models.BookingDraft {
	d := models.NewDraft()
	d.Outbound = models.Leg{
		Origin:         "larnaca-airport",
		Destination:    "nicosia",
		Date:           "2025-06-01",
		Time:           "10:00",
		FlightNumber:   "w6 4301",
		DropoffAddress: "Makariou Ave  12",
	}
	d.Extras = models.Extras{Adults: 2, Bags: 2}
	d.Contact = models.Contact{Name: "Anna  Nowak", Phone: "+48 600 100 200"}
	d.Rental = models.RentalOptions{VehicleID: "lca-yaris", DropoffDate: "2025-06-05", DropoffTime: "10:00"}
	return d
}

const bookableTotal = int64(4*3800 + 1000 + 1500)
