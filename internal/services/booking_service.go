package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/offer"
	"wakacjecypr/internal/pricing"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/utils"
	"wakacjecypr/internal/wizard"

	"github.com/google/uuid"
)

// BookingService is the booking endpoint: it re-prices what the wizard sends
// and stores the booking.
type BookingService struct {
	BookingRepo    repositories.BookingRepository
	Fleet          offer.FleetSource
	PaymentBaseURL string
	RequestID      string
	Now            func() time.Time
	NewReference   func() string
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

func (s BookingService) reference() string {
	if s.NewReference != nil {
		return s.NewReference()
	}
	return "WC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func (s BookingService) fleet() offer.FleetSource {
	if s.Fleet != nil {
		return s.Fleet
	}
	return repositories.FleetRepository{}
}

// Quote prices the draft against the fleet of the requested offer.
func (s BookingService) Quote(ctx context.Context, d models.BookingDraft, o models.Offer) (models.QuoteResult, error) {
	fleet, err := s.fleet().LoadFleet(ctx, o)
	if err != nil {
		return models.QuoteResult{}, domain.OfferReloadError{Offer: string(o), Err: err}
	}
	v, _ := pricing.FindVehicle(fleet, d.Rental.VehicleID)
	return pricing.ComputeQuote(d, v, pricing.CatalogFor(o)), nil
}

// Create validates and prices req server-side; the client total is only
// compared, never trusted.
func (s BookingService) Create(ctx context.Context, req models.BookingRequest) (models.BookingConfirmation, error) {
	if err := utils.ValidateStruct(req); err != nil {
		field, tag, _ := utils.FirstFieldError(err)
		return models.BookingConfirmation{}, domain.ValidationError{Field: field, Code: "invalid_" + tag, Msg: "invalid booking request", Err: err}
	}

	manual := req.Offer
	resolved := offer.Evaluate(offer.FromDraft(req.Draft, &manual))
	if resolved.EffectiveOffer != req.Offer {
		return models.BookingConfirmation{}, domain.ConflictError{
			Resource: "offer",
			Msg:      fmt.Sprintf("offer %s does not apply to this booking, use %s", req.Offer, resolved.EffectiveOffer),
		}
	}

	q, err := s.Quote(ctx, req.Draft, req.Offer)
	if err != nil {
		return models.BookingConfirmation{}, err
	}
	if _, err := wizard.ValidateAll(req.Draft, q); err != nil {
		return models.BookingConfirmation{}, err
	}
	if q.TotalPrice != req.Total {
		return models.BookingConfirmation{}, domain.ConflictError{
			Resource: "quote",
			Msg:      fmt.Sprintf("total mismatch: expected %s, got %s", utils.FormatEuro(q.TotalPrice), utils.FormatEuro(req.Total)),
		}
	}

	b := bookingFromQuote(req.Draft, q)
	b.Reference = s.reference()
	b.Status = string(domain.BookingStatusPending)
	b.CreatedAt = s.now()
	if s.PaymentBaseURL != "" {
		b.PaymentURL = s.PaymentBaseURL + "/" + b.Reference
	}

	if err := s.BookingRepo.Create(ctx, &b); err != nil {
		if domain.IsConflict(err) {
			return models.BookingConfirmation{}, err
		}
		return models.BookingConfirmation{}, domain.InternalError{Msg: "could not store booking", Err: err}
	}

	utils.LogEvent(s.RequestID, "bookings", "create",
		fmt.Sprintf("ref=%s offer=%s days=%d total=%d", b.Reference, b.Offer, b.DayCount, b.Total))
	return models.BookingConfirmation{Reference: b.Reference, PaymentURL: b.PaymentURL}, nil
}

// Get returns a stored booking by reference.
func (s BookingService) Get(ctx context.Context, ref string) (models.Booking, error) {
	return s.BookingRepo.GetByReference(ctx, ref)
}

func bookingFromQuote(d models.BookingDraft, q models.QuoteResult) models.Booking {
	b := models.Booking{
		TripType:       d.TripType,
		Offer:          q.Offer,
		VehicleID:      q.VehicleID,
		ContactName:    utils.NormalizeSpace(d.Contact.Name),
		ContactPhone:   strings.TrimSpace(d.Contact.Phone),
		ContactEmail:   strings.TrimSpace(d.Contact.Email),
		DayCount:       q.DayCount,
		BasePrice:      q.BasePrice,
		SurchargeTotal: q.Surcharges.Total(),
		Total:          q.TotalPrice,
		FullInsurance:  d.Rental.FullInsurance,
		YoungDriver:    d.Rental.YoungDriver,
	}
	b.Legs = append(b.Legs, legOf("outbound", d.Outbound, d.Extras))
	if d.IsRoundTrip() {
		b.Legs = append(b.Legs, legOf("return", d.Return, d.ReturnExtras.ReturnExtras(d.Extras)))
	}
	return b
}

func legOf(direction string, l models.Leg, e models.Extras) models.BookingLeg {
	hhmm, err := utils.NormalizeTime(l.Time)
	if err != nil {
		hhmm = strings.TrimSpace(l.Time)
	}
	return models.BookingLeg{
		Direction:      direction,
		Origin:         locationCode(l.Origin),
		Destination:    locationCode(l.Destination),
		Date:           strings.TrimSpace(l.Date),
		Time:           hhmm,
		FlightNumber:   strings.ToUpper(utils.NormalizeSpace(l.FlightNumber)),
		PickupAddress:  utils.NormalizeSpace(l.PickupAddress),
		DropoffAddress: utils.NormalizeSpace(l.DropoffAddress),
		Extras:         e,
	}
}

func locationCode(s string) string {
	if l, ok := pricing.LookupLocation(s); ok {
		return l.Code
	}
	return strings.TrimSpace(s)
}

// LocalSubmitter hands wizard submissions straight to a BookingService in
// the same process.
type LocalSubmitter struct {
	Bookings BookingService
}

func (l LocalSubmitter) Submit(ctx context.Context, req models.BookingRequest) (models.BookingConfirmation, error) {
	conf, err := l.Bookings.Create(ctx, req)
	if err != nil {
		return models.BookingConfirmation{}, domain.SubmissionError{Msg: err.Error(), Err: err}
	}
	return conf, nil
}
