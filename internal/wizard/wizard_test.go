package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
)

var staticQuoter = FleetQuoter(pricing.StaticFleet)

func validDraft() models.BookingDraft {
	d := models.NewDraft()
	d.Outbound = models.Leg{
		Origin:         "Larnaca Airport",
		Destination:    "Nicosia",
		Date:           "2025-06-01",
		Time:           "10:00",
		FlightNumber:   "W6 4301",
		DropoffAddress: "Makariou Ave 12",
	}
	d.Extras = models.Extras{Adults: 2, Bags: 2}
	d.Contact = models.Contact{Name: "Anna Nowak", Phone: "+48 600 100 200", Email: "anna@example.com"}
	d.Rental = models.RentalOptions{VehicleID: "lca-yaris", DropoffDate: "2025-06-05", DropoffTime: "10:00"}
	return d
}

func stateWith(d models.BookingDraft) State {
	s, _ := Reduce(NewState(), UpdateDraft{Edit: func(dst *models.BookingDraft) { *dst = d }}, models.QuoteResult{})
	return s
}

func quoteOf(s State) models.QuoteResult {
	return staticQuoter(s.Draft, s.Offer.EffectiveOffer)
}

func next(s State) (State, Effect) {
	return Reduce(s, Next{}, quoteOf(s))
}

func TestReduce_NextWalksToSummary(t *testing.T) {
	s := stateWith(validDraft())
	for want := StepPassengers; want <= StepSummary; want++ {
		var eff Effect
		s, eff = next(s)
		if s.Error != nil {
			t.Fatalf("step %d: unexpected error %+v", want-1, s.Error)
		}
		if s.CurrentStep != want || s.MaxUnlockedStep != want {
			t.Fatalf("current=%d max=%d, want %d", s.CurrentStep, s.MaxUnlockedStep, want)
		}
		if eff.FocusField != "" {
			t.Fatalf("no focus expected on success")
		}
	}

	s, _ = next(s)
	if s.CurrentStep != StepSummary {
		t.Fatalf("next must not advance past summary, got %d", s.CurrentStep)
	}
}

func TestReduce_ReturnBeforeOutboundBlocksRoute(t *testing.T) {
	d := validDraft()
	d.TripType = models.TripRoundTrip
	d.Return = models.Leg{Origin: "Nicosia", Destination: "Larnaca Airport", Date: "2025-05-30", Time: "10:00"}
	s := stateWith(d)

	s, eff := next(s)
	if s.CurrentStep != StepRoute {
		t.Fatalf("wizard advanced to %d", s.CurrentStep)
	}
	if s.Error == nil || s.Error.Code != CodeReturnBeforeOutbound {
		t.Fatalf("error = %+v, want %s", s.Error, CodeReturnBeforeOutbound)
	}
	if eff.FocusField != "return.date" {
		t.Fatalf("focus = %q", eff.FocusField)
	}
}

func TestValidateRoute_SameLocationAlwaysFails(t *testing.T) {
	cases := []struct {
		name string
		edit func(*models.BookingDraft)
	}{
		{"outbound", func(d *models.BookingDraft) { d.Outbound.Destination = "larnaca airport" }},
		{"outbound alias", func(d *models.BookingDraft) { d.Outbound.Destination = "LCA" }},
		{"outbound no dates", func(d *models.BookingDraft) {
			d.Outbound.Destination = d.Outbound.Origin
			d.Outbound.Date = ""
		}},
		{"return", func(d *models.BookingDraft) {
			d.TripType = models.TripRoundTrip
			d.Return = models.Leg{Origin: "Nicosia", Destination: "Nicosia", Date: "2025-06-05", Time: "10:00"}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.edit(&d)
			err := ValidateRoute(d, staticQuoter(d, models.OfferDefault))
			var ve domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Code != CodeSameLocation && ve.Code != CodeReturnSameLocation {
				t.Fatalf("code = %q", ve.Code)
			}
		})
	}
}

func TestValidateRoute_UnknownLocationIsRouteUnavailable(t *testing.T) {
	d := validDraft()
	d.Outbound.Destination = "Kyrenia"
	err := ValidateRoute(d, staticQuoter(d, models.OfferDefault))
	var qe domain.QuoteUnavailableError
	if !errors.As(err, &qe) || qe.Code != CodeRouteUnavailable {
		t.Fatalf("expected route unavailable, got %v", err)
	}
}

func TestValidateRoute_RejectsUnknownTripType(t *testing.T) {
	for _, tt := range []models.TripType{"", "roundtrip", "ROUND_TRIP", "multi_city"} {
		d := validDraft()
		d.TripType = tt
		err := ValidateRoute(d, staticQuoter(d, models.OfferDefault))
		var ve domain.ValidationError
		if !errors.As(err, &ve) || ve.Field != "tripType" || ve.Code != CodeTripTypeInvalid {
			t.Errorf("trip type %q: expected tripType error, got %v", tt, err)
		}
	}
	for _, tt := range []models.TripType{models.TripOneWay, models.TripRoundTrip} {
		if !tt.Valid() {
			t.Errorf("%q must be valid", tt)
		}
	}
}

func TestValidateRoute_ShortRentalIsQuoteFailed(t *testing.T) {
	d := validDraft()
	d.Rental.DropoffDate = "2025-06-02"
	err := ValidateRoute(d, staticQuoter(d, models.OfferDefault))
	var qe domain.QuoteUnavailableError
	if !errors.As(err, &qe) || qe.Code != CodeQuoteFailed {
		t.Fatalf("expected quote failed, got %v", err)
	}
}

func TestReduce_CapacityBlocksPassengersStep(t *testing.T) {
	d := validDraft()
	d.Extras.Adults = 6
	s := stateWith(d)

	s, _ = next(s)
	if s.CurrentStep != StepPassengers {
		t.Fatalf("route step should pass, error %+v", s.Error)
	}
	s, _ = next(s)
	if s.CurrentStep != StepPassengers {
		t.Fatalf("wizard reached step %d with 6 passengers", s.CurrentStep)
	}
	if s.Error == nil || s.Error.Code != CodeCapacityExceeded {
		t.Fatalf("error = %+v", s.Error)
	}
	if !quoteOf(s).HasBlockingCapacity {
		t.Fatalf("quote must report blocking capacity")
	}
}

func TestValidatePassengers_FirstFailureWins(t *testing.T) {
	d := validDraft()
	d.Extras = models.Extras{Adults: 0, Bags: -1}
	err := ValidatePassengers(d, staticQuoter(d, models.OfferDefault))
	var ve domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "extras.adults" {
		t.Fatalf("expected adults error first, got %v", err)
	}

	d = validDraft()
	d.TripType = models.TripRoundTrip
	d.Return = models.Leg{Origin: "Nicosia", Destination: "Larnaca Airport", Date: "2025-06-05", Time: "10:00"}
	d.ReturnExtras = models.IndependentExtras(models.Extras{Adults: 1, WaitingMinutes: -5})
	err = ValidatePassengers(d, staticQuoter(d, models.OfferDefault))
	if !errors.As(err, &ve) || ve.Field != "returnExtras.waitingMinutes" {
		t.Fatalf("expected return waiting minutes error, got %v", err)
	}
}

func TestValidateContact(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*models.BookingDraft)
		field string
		msg   string
	}{
		{"name", func(d *models.BookingDraft) { d.Contact.Name = " " }, "contact.name", ""},
		{"phone", func(d *models.BookingDraft) { d.Contact.Phone = "" }, "contact.phone", ""},
		{"email", func(d *models.BookingDraft) { d.Contact.Email = "anna@example" }, "contact.email", ""},
		{"flight", func(d *models.BookingDraft) { d.Outbound.FlightNumber = "" }, "outbound.flightNumber", "Outbound trip: "},
		{"address", func(d *models.BookingDraft) { d.Outbound.DropoffAddress = "" }, "outbound.dropoffAddress", "Outbound trip: "},
		{"return flight", func(d *models.BookingDraft) {
			d.TripType = models.TripRoundTrip
			d.Return = models.Leg{Origin: "Nicosia", Destination: "Larnaca Airport", Date: "2025-06-05", Time: "10:00", PickupAddress: "Makariou Ave 12"}
		}, "return.flightNumber", "Return trip: "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.edit(&d)
			err := ValidateContact(d, staticQuoter(d, models.OfferDefault))
			var ve domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Fatalf("field = %q, want %q", ve.Field, tc.field)
			}
			if !strings.HasPrefix(ve.Msg, tc.msg) {
				t.Fatalf("message %q lacks leg prefix %q", ve.Msg, tc.msg)
			}
		})
	}

	d := validDraft()
	d.Contact.Email = ""
	if err := ValidateContact(d, staticQuoter(d, models.OfferDefault)); err != nil {
		t.Fatalf("email is optional: %v", err)
	}
}

func TestReduce_JumpToRequiresUnlockedStep(t *testing.T) {
	s := stateWith(validDraft())
	s, _ = Reduce(s, JumpTo{Step: StepContact}, quoteOf(s))
	if s.CurrentStep != StepRoute || s.Error == nil || s.Error.Code != CodeCompletePreviousSteps {
		t.Fatalf("jump to locked step must be refused: %+v", s)
	}

	s, _ = next(s)
	s, _ = next(s)
	s, _ = Reduce(s, JumpTo{Step: StepRoute}, quoteOf(s))
	if s.CurrentStep != StepRoute || s.Error != nil {
		t.Fatalf("jump back failed: %+v", s)
	}
	s, _ = Reduce(s, JumpTo{Step: StepContact}, quoteOf(s))
	if s.CurrentStep != StepContact {
		t.Fatalf("jump to unlocked step failed: %d", s.CurrentStep)
	}
}

func TestReduce_MaxUnlockedStepNeverDecreases(t *testing.T) {
	s := stateWith(validDraft())
	s, _ = next(s)
	s, _ = next(s)
	highest := s.MaxUnlockedStep

	actions := []Action{
		Back{}, Back{}, Back{},
		UpdateDraft{Edit: func(d *models.BookingDraft) { d.Outbound.Origin = "" }},
		Next{}, JumpTo{Step: StepSummary}, JumpTo{Step: 9},
		SetManualOffer{Offer: nil},
	}
	for _, a := range actions {
		s, _ = Reduce(s, a, quoteOf(s))
		if s.MaxUnlockedStep < highest {
			t.Fatalf("max unlocked decreased to %d after %T", s.MaxUnlockedStep, a)
		}
		highest = s.MaxUnlockedStep
	}
}

func TestReduce_BackClearsError(t *testing.T) {
	s := stateWith(validDraft())
	s, _ = next(s)
	s, _ = Reduce(s, UpdateDraft{Edit: func(d *models.BookingDraft) { d.Extras.Adults = 0 }}, quoteOf(s))
	s, _ = next(s)
	if s.Error == nil {
		t.Fatalf("expected passengers error")
	}
	s, _ = Reduce(s, Back{}, quoteOf(s))
	if s.CurrentStep != StepRoute || s.Error != nil {
		t.Fatalf("back must navigate and clear the error: %+v", s)
	}
}

func TestReduce_OfferChangesRequestReload(t *testing.T) {
	s := NewState()
	s, eff := Reduce(s, UpdateDraft{Edit: func(d *models.BookingDraft) {
		d.Outbound.Origin = "Paphos Airport"
		d.Outbound.Destination = "Coral Bay"
	}}, models.QuoteResult{})
	if eff.ReloadOffer == nil || *eff.ReloadOffer != models.OfferRegional {
		t.Fatalf("expected regional reload, got %+v", eff.ReloadOffer)
	}

	manual := models.OfferDefault
	s, eff = Reduce(s, SetManualOffer{Offer: &manual}, models.QuoteResult{})
	if eff.ReloadOffer == nil || *eff.ReloadOffer != models.OfferDefault || s.Offer.EffectiveOffer != models.OfferDefault {
		t.Fatalf("manual default must win when eligible: %+v", s.Offer)
	}

	s, eff = Reduce(s, UpdateDraft{Edit: func(d *models.BookingDraft) { d.Outbound.Destination = "Paphos" }}, models.QuoteResult{})
	if eff.ReloadOffer != nil {
		t.Fatalf("no reload expected when the effective offer is unchanged")
	}

	s, _ = Reduce(s, UpdateDraft{Edit: func(d *models.BookingDraft) { d.Rental.YoungDriver = true }}, models.QuoteResult{})
	if s.Offer.EffectiveOffer != models.OfferDefault || s.ManualOffer != nil {
		t.Fatalf("young driver drops the manual choice: %+v", s.Offer)
	}
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewState()
	if got := Status(s, now).Code; got != CodeStatusRoute {
		t.Fatalf("status = %q", got)
	}
	s.CurrentStep = StepContact
	if got := Status(s, now).Code; got != CodeStatusContact {
		t.Fatalf("status = %q", got)
	}
	s.Submitting = true
	if got := Status(s, now).Code; got != CodeStatusSubmitting {
		t.Fatalf("status = %q", got)
	}
}

type fakeSubmitter struct {
	reqs []models.BookingRequest
	conf models.BookingConfirmation
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, req models.BookingRequest) (models.BookingConfirmation, error) {
	f.reqs = append(f.reqs, req)
	return f.conf, f.err
}

func summaryWizard(t *testing.T, sub Submitter, opts ...Option) *Wizard {
	t.Helper()
	w := New(staticQuoter, sub, opts...)
	w.Dispatch(UpdateDraft{Edit: func(d *models.BookingDraft) { *d = validDraft() }})
	for i := 0; i < 3; i++ {
		s, _ := w.Dispatch(Next{})
		if s.Error != nil {
			t.Fatalf("setup step %d: %+v", s.CurrentStep, s.Error)
		}
	}
	return w
}

func TestWizard_SubmitSuccessResets(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sub := &fakeSubmitter{conf: models.BookingConfirmation{Reference: "WC-1", PaymentURL: "https://pay.example/WC-1"}}
	var signalled []string
	w := summaryWizard(t, sub,
		WithClock(func() time.Time { return now }),
		WithSessionID("sess-1"),
		OnSubmitted(func(c models.BookingConfirmation) { signalled = append(signalled, c.Reference) }),
	)
	want := w.Quote().TotalPrice

	conf, err := w.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if conf.Reference != "WC-1" || len(signalled) != 1 {
		t.Fatalf("confirmation not signalled: %+v %v", conf, signalled)
	}
	if len(sub.reqs) != 1 || sub.reqs[0].Total != want || sub.reqs[0].SessionID != "sess-1" {
		t.Fatalf("unexpected request %+v", sub.reqs)
	}
	if want != 15200+1000+1500 {
		t.Fatalf("quote total = %d", want)
	}

	s := w.State()
	if s.CurrentStep != StepRoute || s.MaxUnlockedStep != StepRoute || s.Submitting {
		t.Fatalf("wizard not reset: %+v", s)
	}
	if s.Draft.Outbound.Origin != "" || s.LastPaymentURL != conf.PaymentURL {
		t.Fatalf("draft not reset or payment url lost: %+v", s)
	}
	if got := Status(s, now.Add(time.Second)).Code; got != CodeStatusBookingSubmitted {
		t.Fatalf("status = %q", got)
	}
	if got := Status(s, now.Add(ConfirmationDuration)).Code; got != CodeStatusRoute {
		t.Fatalf("status after confirmation = %q", got)
	}
}

func TestWizard_SubmitFailurePreservesDraft(t *testing.T) {
	sub := &fakeSubmitter{err: domain.SubmissionError{Status: 502, Msg: "upstream down"}}
	w := summaryWizard(t, sub)

	_, err := w.Submit(context.Background())
	if !domain.IsSubmission(err) {
		t.Fatalf("expected submission error, got %v", err)
	}
	s := w.State()
	if s.CurrentStep != StepSummary || s.Submitting {
		t.Fatalf("wizard must stay on summary with submit re-enabled: %+v", s)
	}
	if s.Draft.Contact.Name != "Anna Nowak" {
		t.Fatalf("draft lost")
	}
	if s.Error == nil || s.Error.Code != CodeSubmissionFailed {
		t.Fatalf("error = %+v", s.Error)
	}

	sub.err = nil
	sub.conf = models.BookingConfirmation{Reference: "WC-2"}
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
}

func TestWizard_SubmitGuards(t *testing.T) {
	w := New(staticQuoter, &fakeSubmitter{})
	if _, err := w.BeginSubmit(); !domain.IsValidation(err) {
		t.Fatalf("submit outside summary must fail validation, got %v", err)
	}

	w = summaryWizard(t, &fakeSubmitter{})
	if _, err := w.BeginSubmit(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := w.BeginSubmit(); !domain.IsConflict(err) {
		t.Fatalf("second submit must conflict, got %v", err)
	}
}

func TestWizard_ExpireSubmit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := summaryWizard(t, &fakeSubmitter{}, WithClock(func() time.Time { return now }))
	if w.ExpireSubmit(time.Minute) {
		t.Fatalf("nothing in flight, nothing to expire")
	}
	if _, err := w.BeginSubmit(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if got := w.State().SubmittingSince; !got.Equal(now) {
		t.Fatalf("submitting since = %v", got)
	}

	now = now.Add(59 * time.Second)
	if w.ExpireSubmit(time.Minute) || !w.State().Submitting {
		t.Fatalf("a recent submission must not expire")
	}

	now = now.Add(2 * time.Second)
	if !w.ExpireSubmit(time.Minute) {
		t.Fatalf("an old submission must expire")
	}
	s := w.State()
	if s.Submitting || !s.SubmittingSince.IsZero() || s.CurrentStep != StepSummary {
		t.Fatalf("expired submission must re-enable submit on the summary: %+v", s)
	}
	if s.Error == nil || s.Error.Code != CodeSubmissionFailed {
		t.Fatalf("error = %+v", s.Error)
	}
	if _, err := w.BeginSubmit(); err != nil {
		t.Fatalf("retry after expiry: %v", err)
	}

	legacy := New(staticQuoter, &fakeSubmitter{}, WithState(State{CurrentStep: StepSummary, MaxUnlockedStep: StepSummary, Draft: validDraft(), Submitting: true}))
	if !legacy.ExpireSubmit(time.Hour) {
		t.Fatalf("a flag without start time must expire")
	}
}

func TestWizard_SubmitRevalidatesStaleDraft(t *testing.T) {
	w := summaryWizard(t, &fakeSubmitter{})
	w.Dispatch(UpdateDraft{Edit: func(d *models.BookingDraft) { d.Extras.Adults = 9 }})

	_, err := w.BeginSubmit()
	if !domain.IsQuoteUnavailable(err) {
		t.Fatalf("expected quote unavailable, got %v", err)
	}
	if s := w.State(); s.CurrentStep != StepPassengers || s.Submitting {
		t.Fatalf("wizard should return to passengers: %+v", s)
	}
}

func TestWizard_OfferChangeCallback(t *testing.T) {
	var reloads []models.Offer
	w := New(staticQuoter, nil, OnOfferChange(func(o models.Offer) { reloads = append(reloads, o) }))
	w.Dispatch(UpdateDraft{Edit: func(d *models.BookingDraft) {
		d.Outbound.Origin = "Paphos"
		d.Outbound.Destination = "Polis"
	}})
	if len(reloads) != 1 || reloads[0] != models.OfferRegional {
		t.Fatalf("reloads = %v", reloads)
	}
}
