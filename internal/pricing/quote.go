package pricing

import (
	"time"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/utils"
)

// Reasons a quote is not bookable, first failing check wins.
const (
	ReasonRouteUnavailable       = "route_unavailable"
	ReasonReturnRouteUnavailable = "return_route_unavailable"
	ReasonMissingDates           = "missing_dates"
	ReasonMinimumStay            = "minimum_stay"
	ReasonVehicleUnavailable     = "vehicle_unavailable"
	ReasonNoTier                 = "no_tier"
	ReasonCapacityExceeded       = "capacity_exceeded"
)

const day = 24 * time.Hour

// RentalPeriod returns the start and end of the rental. The end is the return
// leg for round trips and the drop-off date/time for one-way trips.
func RentalPeriod(d models.BookingDraft) (time.Time, time.Time, bool) {
	start, err := utils.ParseDateTime(d.Outbound.Date, d.Outbound.Time)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endDate, endTime := d.Rental.DropoffDate, d.Rental.DropoffTime
	if d.IsRoundTrip() {
		endDate, endTime = d.Return.Date, d.Return.Time
	}
	end, err := utils.ParseDateTime(endDate, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// RentalDays is ceil((end - start) / 1 day). Periods that do not move forward count 0 days.
func RentalDays(d models.BookingDraft) (int, bool) {
	start, end, ok := RentalPeriod(d)
	if !ok {
		return 0, false
	}
	span := end.Sub(start)
	if span <= 0 {
		return 0, true
	}
	days := int(span / day)
	if span%day != 0 {
		days++
	}
	return days, true
}

// KnownRoute reports whether both ends are known locations and distinct.
func KnownRoute(origin, destination string) bool {
	if _, ok := LookupLocation(origin); !ok {
		return false
	}
	if _, ok := LookupLocation(destination); !ok {
		return false
	}
	return !SameLocation(origin, destination)
}

// LegBlocked reports whether extras do not fit the vehicle. Zero limits are not enforced.
func LegBlocked(v models.Vehicle, e models.Extras) bool {
	if v.MaxPassengers > 0 && e.Adults > v.MaxPassengers {
		return true
	}
	if v.Capacity > 0 && e.Adults+e.Bags+e.OversizeBags > v.Capacity {
		return true
	}
	return false
}

// ComputeQuote prices a draft for a vehicle under a catalog. It is pure: the
// result depends only on its arguments and is recomputed in full every call.
func ComputeQuote(d models.BookingDraft, v models.Vehicle, cat Catalog) models.QuoteResult {
	q := models.QuoteResult{Offer: cat.Offer, VehicleID: v.ID}

	q.HasRoute = KnownRoute(d.Outbound.Origin, d.Outbound.Destination)
	if d.IsRoundTrip() {
		q.HasReturnRoute = KnownRoute(d.Return.Origin, d.Return.Destination)
	}

	hasVehicle := v.ID != "" && len(v.Tiers) > 0
	if hasVehicle {
		q.HasBlockingCapacity = LegBlocked(v, d.Extras)
		if d.IsRoundTrip() && LegBlocked(v, d.ReturnExtras.ReturnExtras(d.Extras)) {
			q.HasBlockingCapacity = true
		}
	}

	days, datesOK := RentalDays(d)
	q.DayCount = days

	var tier models.RoutePricingTier
	if hasVehicle && days >= MinRentalDays {
		tier, q.TierFound = FindTier(v.Tiers, days)
		if q.TierFound && days != PackageDays && tier.DailyRate == nil {
			q.TierFound = false
		}
	}

	if q.TierFound {
		if days == PackageDays {
			q.BasePrice = tier.BasePrice
		} else {
			rate := *tier.DailyRate
			q.DailyRate = &rate
			q.BasePrice = rate * int64(days)
		}
		q.Surcharges.Pickup = cat.LegFee(d.PickupLocation(), days)
		q.Surcharges.Return = cat.LegFee(d.ReturnLocation(), days)
		if d.Rental.FullInsurance {
			q.Surcharges.Insurance = InsurancePerDay * int64(days)
		}
		if d.Rental.YoungDriver {
			if cat.YoungDriverAllowed {
				q.Surcharges.YoungDriver = YoungDriverPerDay * int64(days)
			} else {
				q.YoungDriverUnavailable = true
			}
		}
		q.TotalPrice = q.BasePrice + q.Surcharges.Total()
	}

	switch {
	case !q.HasRoute:
		q.Reason = ReasonRouteUnavailable
	case d.IsRoundTrip() && !q.HasReturnRoute:
		q.Reason = ReasonReturnRouteUnavailable
	case !datesOK:
		q.Reason = ReasonMissingDates
	case days < MinRentalDays:
		q.Reason = ReasonMinimumStay
	case !hasVehicle:
		q.Reason = ReasonVehicleUnavailable
	case !q.TierFound:
		q.Reason = ReasonNoTier
	case q.HasBlockingCapacity:
		q.Reason = ReasonCapacityExceeded
	}
	q.IsBookable = q.Reason == ""
	return q
}
