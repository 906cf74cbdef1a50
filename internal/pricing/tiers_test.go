package pricing

import (
	"testing"

	"wakacjecypr/internal/domain/models"
)

func TestVehicleFromRow_PackageTiersAreContiguous(t *testing.T) {
	v, err := VehicleFromRow(FleetRow{ID: "a", Price3Days: euros(99.99), Price4To6Days: euros(33.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateTiers(v.Tiers); err != nil {
		t.Fatalf("tiers invalid: %v", err)
	}
	if v.Tiers[0].BasePrice != 9999 {
		t.Fatalf("package price = %d", v.Tiers[0].BasePrice)
	}
	// missing brackets inherit the last known daily rate
	if *v.Tiers[2].DailyRate != 3350 || *v.Tiers[3].DailyRate != 3350 {
		t.Fatalf("inherited rates wrong: %d %d", *v.Tiers[2].DailyRate, *v.Tiers[3].DailyRate)
	}
}

func TestVehicleFromRow_PerDayOnly(t *testing.T) {
	v, err := VehicleFromRow(FleetRow{ID: "b", PricePerDay: euros(40)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Tiers) != 1 || v.Tiers[0].MaxDays != nil {
		t.Fatalf("expected one open tier, got %+v", v.Tiers)
	}
	if v.Tiers[0].BasePrice != 12000 {
		t.Fatalf("3 day price = %d", v.Tiers[0].BasePrice)
	}
}

func TestVehicleFromRow_NoPrice(t *testing.T) {
	if _, err := VehicleFromRow(FleetRow{ID: "c"}); err == nil {
		t.Fatalf("expected error for row without prices")
	}
	if _, err := VehicleFromRow(FleetRow{ID: "d", Price3Days: euros(100)}); err == nil {
		t.Fatalf("expected error for package row without daily rates")
	}
}

func TestValidateTiers(t *testing.T) {
	gap := []models.RoutePricingTier{
		{MinDays: 3, MaxDays: intPtr(3), BasePrice: 100},
		{MinDays: 5, BasePrice: 100},
	}
	if err := ValidateTiers(gap); err == nil {
		t.Fatalf("gap between tiers must fail")
	}
	openMiddle := []models.RoutePricingTier{
		{MinDays: 3, BasePrice: 100},
		{MinDays: 4, MaxDays: intPtr(6), BasePrice: 100},
	}
	if err := ValidateTiers(openMiddle); err == nil {
		t.Fatalf("open tier before the last must fail")
	}
	if err := ValidateTiers(nil); err == nil {
		t.Fatalf("empty tiers must fail")
	}
	unpriced := []models.RoutePricingTier{{MinDays: 3, DailyRate: centsPtr(0)}}
	if err := ValidateTiers(unpriced); err == nil {
		t.Fatalf("tier without a price must fail")
	}
}

func TestVehicleFromRow_RejectsInvalidTiers(t *testing.T) {
	cases := []struct {
		name string
		row  FleetRow
	}{
		{"zero package price", FleetRow{ID: "z", Price3Days: euros(0), PricePerDay: euros(30)}},
		{"negative package price", FleetRow{ID: "n", Price3Days: euros(-10), PricePerDay: euros(30)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VehicleFromRow(tc.row); err == nil {
				t.Fatalf("expected invalid tier table to be rejected")
			}
		})
	}
}

func TestFindTier_ExactlyOneMatch(t *testing.T) {
	v, _ := VehicleFromRow(FleetRow{ID: "a", Price3Days: euros(100), Price4To6Days: euros(30), Price7To10Days: euros(28), Price10PlusDays: euros(25)})
	for days := 3; days <= 40; days++ {
		n := 0
		for _, tier := range v.Tiers {
			if tier.Contains(days) {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("days=%d matched %d tiers", days, n)
		}
	}
	if _, ok := FindTier(v.Tiers, 2); ok {
		t.Fatalf("2 days must not match a tier")
	}
}

func TestStaticFleet(t *testing.T) {
	for _, offer := range []models.Offer{models.OfferDefault, models.OfferRegional} {
		fleet := StaticFleet(offer)
		if len(fleet) == 0 {
			t.Fatalf("offer %s has no static fleet", offer)
		}
		for _, v := range fleet {
			if err := ValidateTiers(v.Tiers); err != nil {
				t.Fatalf("vehicle %s: %v", v.ID, err)
			}
		}
	}
}

func TestLookupLocation(t *testing.T) {
	l, ok := LookupLocation("  larnaca AIRPORT ")
	if !ok || l.Code != "larnaca-airport" || !l.IsAirport() {
		t.Fatalf("lookup failed: %+v %v", l, ok)
	}
	if !IsRegionalLocation("pfo") {
		t.Fatalf("pfo alias should be regional")
	}
	if IsRegionalLocation("Nicosia") {
		t.Fatalf("Nicosia is not regional")
	}
	if _, ok := LookupLocation(""); ok {
		t.Fatalf("empty input should not resolve")
	}
}
