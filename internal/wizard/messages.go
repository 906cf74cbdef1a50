package wizard

// Message codes are stable identifiers; the frontend localizes them and
// Message gives the English default.
const (
	CodeTripTypeInvalid        = "trip_type_invalid"
	CodeOriginRequired         = "origin_required"
	CodeDestinationRequired    = "destination_required"
	CodeSameLocation           = "same_location"
	CodeDateRequired           = "date_required"
	CodeTimeRequired           = "time_required"
	CodeReturnOriginRequired   = "return_origin_required"
	CodeReturnDestRequired     = "return_destination_required"
	CodeReturnSameLocation     = "return_same_location"
	CodeReturnDateRequired     = "return_date_required"
	CodeReturnTimeRequired     = "return_time_required"
	CodeReturnBeforeOutbound   = "return_before_outbound"
	CodeDropoffDateRequired    = "dropoff_date_required"
	CodeDropoffTimeRequired    = "dropoff_time_required"
	CodeDropoffBeforePickup    = "dropoff_before_pickup"
	CodeRouteUnavailable       = "route_unavailable"
	CodeQuoteFailed            = "quote_failed"
	CodePassengersMin          = "passengers_min"
	CodeCountNegative          = "count_negative"
	CodeCapacityExceeded       = "capacity_exceeded"
	CodeNameRequired           = "name_required"
	CodePhoneRequired          = "phone_required"
	CodeEmailInvalid           = "email_invalid"
	CodeFlightNumberRequired   = "flight_number_required"
	CodePickupAddressRequired  = "pickup_address_required"
	CodeDropoffAddressRequired = "dropoff_address_required"
	CodeCompletePreviousSteps  = "complete_previous_steps"
	CodeInvalidStep            = "invalid_step"
	CodeSubmitNotOnSummary     = "submit_not_on_summary"
	CodeSubmitInFlight         = "submit_in_flight"
	CodeSubmissionFailed       = "submission_failed"
	CodeSubmitTimedOut         = "submit_timed_out"
	CodeStatusRoute            = "status_route"
	CodeStatusPassengers       = "status_passengers"
	CodeStatusContact          = "status_contact"
	CodeStatusSummary          = "status_summary"
	CodeStatusBookingSubmitted = "status_booking_submitted"
	CodeStatusSubmitting       = "status_submitting"
	CodeReturnLegPrefix        = "return_leg"
	CodeOutboundLegPrefix      = "outbound_leg"
)

var messages = map[string]string{
	CodeTripTypeInvalid:        "Choose one-way or round trip.",
	CodeOriginRequired:         "Choose a pickup location.",
	CodeDestinationRequired:    "Choose a destination.",
	CodeSameLocation:           "Pickup and destination must be different.",
	CodeDateRequired:           "Choose a travel date.",
	CodeTimeRequired:           "Choose a pickup time.",
	CodeReturnOriginRequired:   "Choose the return pickup location.",
	CodeReturnDestRequired:     "Choose the return destination.",
	CodeReturnSameLocation:     "Return pickup and destination must be different.",
	CodeReturnDateRequired:     "Choose a return date.",
	CodeReturnTimeRequired:     "Choose a return time.",
	CodeReturnBeforeOutbound:   "The return date cannot be before the outbound date.",
	CodeDropoffDateRequired:    "Choose the drop-off date.",
	CodeDropoffTimeRequired:    "Choose the drop-off time.",
	CodeDropoffBeforePickup:    "The drop-off date cannot be before the pickup date.",
	CodeRouteUnavailable:       "This route is not available. Choose other locations.",
	CodeQuoteFailed:            "We could not price this booking. Check the dates (minimum 3 days) and try again.",
	CodePassengersMin:          "At least one passenger is required.",
	CodeCountNegative:          "Counts cannot be negative.",
	CodeCapacityExceeded:       "Passengers and luggage do not fit the selected vehicle.",
	CodeNameRequired:           "Enter your full name.",
	CodePhoneRequired:          "Enter a phone number.",
	CodeEmailInvalid:           "Enter a valid e-mail address.",
	CodeFlightNumberRequired:   "A flight number is required for airport transfers.",
	CodePickupAddressRequired:  "Enter the pickup address.",
	CodeDropoffAddressRequired: "Enter the drop-off address.",
	CodeCompletePreviousSteps:  "Complete the previous steps first.",
	CodeInvalidStep:            "Unknown step.",
	CodeSubmitNotOnSummary:     "Review the summary before submitting.",
	CodeSubmitInFlight:         "Your booking is being submitted.",
	CodeSubmitTimedOut:         "The previous attempt did not finish.",
	CodeSubmissionFailed:       "We could not submit your booking. Please try again.",
	CodeStatusRoute:            "Step 1 of 4: choose your route and dates.",
	CodeStatusPassengers:       "Step 2 of 4: passengers and luggage.",
	CodeStatusContact:          "Step 3 of 4: contact details.",
	CodeStatusSummary:          "Step 4 of 4: review and submit.",
	CodeStatusBookingSubmitted: "Thank you! Your booking has been submitted.",
	CodeStatusSubmitting:       "Submitting your booking...",
	CodeReturnLegPrefix:        "Return trip",
	CodeOutboundLegPrefix:      "Outbound trip",
}

// Message returns the English text of code, or code itself when unknown.
func Message(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}

// legMessage prefixes a message with the leg it belongs to.
func legMessage(prefixCode, code string) string {
	return Message(prefixCode) + ": " + Message(code)
}
