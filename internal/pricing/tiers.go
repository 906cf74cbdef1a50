package pricing

import (
	"errors"
	"fmt"
	"strings"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/utils"
)

// FleetRow is one vehicle as the fleet source delivers it. Prices are euros.
type FleetRow struct {
	ID              string
	Model           string
	Capacity        int
	MaxPassengers   int
	Price3Days      *float64
	PricePerDay     *float64
	Price4To6Days   *float64
	Price7To10Days  *float64
	Price10PlusDays *float64
}

func intPtr(v int) *int { return &v }

func centsPtr(v int64) *int64 { return &v }

// VehicleFromRow builds the tier table of a fleet row.
//
// Package rows become [3,3] flat, [4,6], [7,10] and [11,∞) daily tiers; a
// missing bracket inherits the previous daily rate. Rows with only
// price_per_day become one [3,∞) tier.
func VehicleFromRow(row FleetRow) (models.Vehicle, error) {
	v := models.Vehicle{
		ID:            strings.TrimSpace(row.ID),
		Model:         strings.TrimSpace(row.Model),
		Capacity:      row.Capacity,
		MaxPassengers: row.MaxPassengers,
	}
	if v.ID == "" {
		return models.Vehicle{}, errors.New("vehicle id is empty")
	}

	if row.Price3Days == nil {
		if row.PricePerDay == nil || *row.PricePerDay <= 0 {
			return models.Vehicle{}, fmt.Errorf("vehicle %s has no price", v.ID)
		}
		daily := utils.CentsFromEuros(*row.PricePerDay)
		v.Tiers = []models.RoutePricingTier{{
			MinDays:   MinRentalDays,
			BasePrice: daily * PackageDays,
			DailyRate: centsPtr(daily),
		}}
		return checked(v)
	}

	daily := int64(0)
	if row.PricePerDay != nil {
		daily = utils.CentsFromEuros(*row.PricePerDay)
	}
	pick := func(p *float64) (int64, error) {
		if p != nil && *p > 0 {
			daily = utils.CentsFromEuros(*p)
		}
		if daily <= 0 {
			return 0, fmt.Errorf("vehicle %s has no daily rate", v.ID)
		}
		return daily, nil
	}

	r46, err := pick(row.Price4To6Days)
	if err != nil {
		return models.Vehicle{}, err
	}
	r710, err := pick(row.Price7To10Days)
	if err != nil {
		return models.Vehicle{}, err
	}
	r10, err := pick(row.Price10PlusDays)
	if err != nil {
		return models.Vehicle{}, err
	}

	v.Tiers = []models.RoutePricingTier{
		{MinDays: 3, MaxDays: intPtr(3), BasePrice: utils.CentsFromEuros(*row.Price3Days)},
		{MinDays: 4, MaxDays: intPtr(6), DailyRate: centsPtr(r46)},
		{MinDays: 7, MaxDays: intPtr(10), DailyRate: centsPtr(r710)},
		{MinDays: 11, DailyRate: centsPtr(r10)},
	}
	return checked(v)
}

func checked(v models.Vehicle) (models.Vehicle, error) {
	if err := ValidateTiers(v.Tiers); err != nil {
		return models.Vehicle{}, fmt.Errorf("vehicle %s: %w", v.ID, err)
	}
	return v, nil
}

// ValidateTiers checks that tiers start at the minimum stay and cover the day
// range contiguously with no overlap. Only the last tier may be open-ended and
// every tier needs a positive price.
func ValidateTiers(tiers []models.RoutePricingTier) error {
	if len(tiers) == 0 {
		return errors.New("no pricing tiers")
	}
	if tiers[0].MinDays != MinRentalDays {
		return fmt.Errorf("first tier starts at %d, expected %d", tiers[0].MinDays, MinRentalDays)
	}
	for i, t := range tiers {
		if t.BasePrice <= 0 && (t.DailyRate == nil || *t.DailyRate <= 0) {
			return fmt.Errorf("tier %d has no price", i)
		}
		if t.MaxDays == nil {
			if i != len(tiers)-1 {
				return fmt.Errorf("tier %d is open-ended but not last", i)
			}
			continue
		}
		if *t.MaxDays < t.MinDays {
			return fmt.Errorf("tier %d has max %d below min %d", i, *t.MaxDays, t.MinDays)
		}
		if i+1 < len(tiers) && tiers[i+1].MinDays != *t.MaxDays+1 {
			return fmt.Errorf("tier %d ends at %d but tier %d starts at %d", i, *t.MaxDays, i+1, tiers[i+1].MinDays)
		}
	}
	return nil
}

// FindTier returns the tier containing days.
func FindTier(tiers []models.RoutePricingTier, days int) (models.RoutePricingTier, bool) {
	for _, t := range tiers {
		if t.Contains(days) {
			return t, true
		}
	}
	return models.RoutePricingTier{}, false
}

func euros(v float64) *float64 { return &v }

var staticRows = map[models.Offer][]FleetRow{
	models.OfferDefault: {
		{ID: "lca-yaris", Model: "Toyota Yaris", Capacity: 7, MaxPassengers: 5, Price3Days: euros(120), Price4To6Days: euros(38), Price7To10Days: euros(34), Price10PlusDays: euros(30)},
		{ID: "lca-corolla-sw", Model: "Toyota Corolla Touring", Capacity: 9, MaxPassengers: 5, Price3Days: euros(150), Price4To6Days: euros(46), Price7To10Days: euros(42), Price10PlusDays: euros(38)},
		{ID: "lca-transporter", Model: "VW Transporter", Capacity: 14, MaxPassengers: 8, Price3Days: euros(240), Price4To6Days: euros(75), Price7To10Days: euros(68), Price10PlusDays: euros(60)},
	},
	models.OfferRegional: {
		{ID: "pfo-yaris", Model: "Toyota Yaris", Capacity: 7, MaxPassengers: 5, Price3Days: euros(110), Price4To6Days: euros(35), Price7To10Days: euros(32), Price10PlusDays: euros(28)},
		{ID: "pfo-duster", Model: "Dacia Duster", Capacity: 9, MaxPassengers: 5, PricePerDay: euros(44)},
	},
}

// StaticFleet is the fleet shipped with the binary, used when no fleet table exists.
func StaticFleet(offer models.Offer) []models.Vehicle {
	rows := staticRows[CatalogFor(offer).Offer]
	out := make([]models.Vehicle, 0, len(rows))
	for _, r := range rows {
		v, err := VehicleFromRow(r)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FindVehicle returns the vehicle with id from fleet.
func FindVehicle(fleet []models.Vehicle, id string) (models.Vehicle, bool) {
	id = strings.TrimSpace(id)
	for _, v := range fleet {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}
