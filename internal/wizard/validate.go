package wizard

import (
	"regexp"
	"strings"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
	"wakacjecypr/internal/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func fieldErr(field, code string) error {
	return domain.ValidationError{Field: field, Code: code, Msg: Message(code)}
}

func legFieldErr(prefix, field, code string) error {
	return domain.ValidationError{Field: field, Code: code, Msg: legMessage(prefix, code)}
}

func quoteErr(code string) error {
	return domain.QuoteUnavailableError{Code: code, Msg: Message(code)}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// ValidateStep runs the validator of step against the draft and a quote
// computed from that same draft. Only the first failure is returned.
func ValidateStep(step Step, d models.BookingDraft, q models.QuoteResult) error {
	switch step {
	case StepRoute:
		return ValidateRoute(d, q)
	case StepPassengers:
		return ValidatePassengers(d, q)
	case StepContact:
		return ValidateContact(d, q)
	case StepSummary:
		return nil
	default:
		return fieldErr("step", CodeInvalidStep)
	}
}

// ValidateAll validates every step before the summary and reports the first
// step that fails.
func ValidateAll(d models.BookingDraft, q models.QuoteResult) (Step, error) {
	for _, s := range []Step{StepRoute, StepPassengers, StepContact} {
		if err := ValidateStep(s, d, q); err != nil {
			return s, err
		}
	}
	return 0, nil
}

// ValidateRoute checks locations, dates and that the route can be priced.
// Capacity is left to the passengers step.
func ValidateRoute(d models.BookingDraft, q models.QuoteResult) error {
	if !d.TripType.Valid() {
		return fieldErr("tripType", CodeTripTypeInvalid)
	}
	out := d.Outbound
	if blank(out.Origin) {
		return fieldErr("outbound.origin", CodeOriginRequired)
	}
	if blank(out.Destination) {
		return fieldErr("outbound.destination", CodeDestinationRequired)
	}
	if pricing.SameLocation(out.Origin, out.Destination) {
		return fieldErr("outbound.destination", CodeSameLocation)
	}
	outDate, err := utils.ParseDate(out.Date)
	if err != nil {
		return fieldErr("outbound.date", CodeDateRequired)
	}
	if _, err := utils.NormalizeTime(out.Time); err != nil {
		return fieldErr("outbound.time", CodeTimeRequired)
	}

	if d.IsRoundTrip() {
		ret := d.Return
		if blank(ret.Origin) {
			return fieldErr("return.origin", CodeReturnOriginRequired)
		}
		if blank(ret.Destination) {
			return fieldErr("return.destination", CodeReturnDestRequired)
		}
		if pricing.SameLocation(ret.Origin, ret.Destination) {
			return fieldErr("return.destination", CodeReturnSameLocation)
		}
		retDate, err := utils.ParseDate(ret.Date)
		if err != nil {
			return fieldErr("return.date", CodeReturnDateRequired)
		}
		if _, err := utils.NormalizeTime(ret.Time); err != nil {
			return fieldErr("return.time", CodeReturnTimeRequired)
		}
		if retDate.Before(outDate) {
			return fieldErr("return.date", CodeReturnBeforeOutbound)
		}
	} else {
		dropDate, err := utils.ParseDate(d.Rental.DropoffDate)
		if err != nil {
			return fieldErr("rental.dropoffDate", CodeDropoffDateRequired)
		}
		if _, err := utils.NormalizeTime(d.Rental.DropoffTime); err != nil {
			return fieldErr("rental.dropoffTime", CodeDropoffTimeRequired)
		}
		if dropDate.Before(outDate) {
			return fieldErr("rental.dropoffDate", CodeDropoffBeforePickup)
		}
	}

	if !q.HasRoute || (d.IsRoundTrip() && !q.HasReturnRoute) {
		return quoteErr(CodeRouteUnavailable)
	}
	if !q.IsBookable && q.Reason != pricing.ReasonCapacityExceeded {
		return quoteErr(CodeQuoteFailed)
	}
	return nil
}

func validateExtras(prefix string, e models.Extras) error {
	if e.Adults < 1 {
		return fieldErr(prefix+".adults", CodePassengersMin)
	}
	counts := []struct {
		field string
		value int
	}{
		{"bags", e.Bags},
		{"oversizeBags", e.OversizeBags},
		{"childSeats", e.ChildSeats},
		{"boosterSeats", e.BoosterSeats},
		{"waitingMinutes", e.WaitingMinutes},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fieldErr(prefix+"."+c.field, CodeCountNegative)
		}
	}
	return nil
}

// ValidatePassengers checks the passenger and luggage counts of each leg and
// that they fit the vehicle.
func ValidatePassengers(d models.BookingDraft, q models.QuoteResult) error {
	if err := validateExtras("extras", d.Extras); err != nil {
		return err
	}
	if d.IsRoundTrip() && d.ReturnExtras.IsIndependent() {
		if err := validateExtras("returnExtras", d.ReturnExtras.Return); err != nil {
			return err
		}
	}
	return bookableErr(q)
}

func bookableErr(q models.QuoteResult) error {
	if q.HasBlockingCapacity {
		return quoteErr(CodeCapacityExceeded)
	}
	if !q.IsBookable {
		return quoteErr(CodeQuoteFailed)
	}
	return nil
}

func validateLegDetails(prefixCode, field string, leg models.Leg) error {
	if pricing.IsAirport(leg.Origin) || pricing.IsAirport(leg.Destination) {
		if blank(leg.FlightNumber) {
			return legFieldErr(prefixCode, field+".flightNumber", CodeFlightNumberRequired)
		}
	}
	if l, ok := pricing.LookupLocation(leg.Origin); ok && l.RequiresAddress && blank(leg.PickupAddress) {
		return legFieldErr(prefixCode, field+".pickupAddress", CodePickupAddressRequired)
	}
	if l, ok := pricing.LookupLocation(leg.Destination); ok && l.RequiresAddress && blank(leg.DropoffAddress) {
		return legFieldErr(prefixCode, field+".dropoffAddress", CodeDropoffAddressRequired)
	}
	return nil
}

// ValidateContact checks the contact details and the per-leg flight number
// and address fields, then re-checks the quote.
func ValidateContact(d models.BookingDraft, q models.QuoteResult) error {
	if blank(d.Contact.Name) {
		return fieldErr("contact.name", CodeNameRequired)
	}
	if blank(d.Contact.Phone) {
		return fieldErr("contact.phone", CodePhoneRequired)
	}
	if email := strings.TrimSpace(d.Contact.Email); email != "" && !emailPattern.MatchString(email) {
		return fieldErr("contact.email", CodeEmailInvalid)
	}
	if err := validateLegDetails(CodeOutboundLegPrefix, "outbound", d.Outbound); err != nil {
		return err
	}
	if d.IsRoundTrip() {
		if err := validateLegDetails(CodeReturnLegPrefix, "return", d.Return); err != nil {
			return err
		}
	}
	return bookableErr(q)
}
