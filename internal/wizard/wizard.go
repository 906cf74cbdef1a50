package wizard

import (
	"context"
	"sync"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
	"wakacjecypr/internal/utils"
)

// Quoter prices a draft under an offer.
type Quoter func(d models.BookingDraft, o models.Offer) models.QuoteResult

// FleetQuoter prices against the vehicle the draft selected in the fleet of
// the offer. A missing vehicle yields an unbookable quote.
func FleetQuoter(fleet func(models.Offer) []models.Vehicle) Quoter {
	return func(d models.BookingDraft, o models.Offer) models.QuoteResult {
		v, _ := pricing.FindVehicle(fleet(o), d.Rental.VehicleID)
		return pricing.ComputeQuote(d, v, pricing.CatalogFor(o))
	}
}

// Submitter sends a finished booking to the booking endpoint.
type Submitter interface {
	Submit(ctx context.Context, req models.BookingRequest) (models.BookingConfirmation, error)
}

// Wizard owns one wizard state and serializes access to it.
type Wizard struct {
	mu        sync.Mutex
	state     State
	quote     Quoter
	submitter Submitter
	sessionID string
	now       func() time.Time

	onSubmitted func(models.BookingConfirmation)
	onReload    func(models.Offer)
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithState restores a previously stored state.
func WithState(s State) Option {
	return func(w *Wizard) { w.state = s }
}

// WithSessionID tags submissions with the session they come from.
func WithSessionID(id string) Option {
	return func(w *Wizard) { w.sessionID = id }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

// OnSubmitted is signalled after every confirmed booking.
func OnSubmitted(fn func(models.BookingConfirmation)) Option {
	return func(w *Wizard) { w.onSubmitted = fn }
}

// OnOfferChange is called when the effective offer changes and its fleet
// should be reloaded.
func OnOfferChange(fn func(models.Offer)) Option {
	return func(w *Wizard) { w.onReload = fn }
}

// New returns a wizard in its initial state. quote prices every state change
// and submitter receives the request built by Submit.
func New(quote Quoter, submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{
		state:     NewState(),
		quote:     quote,
		submitter: submitter,
		now:       utils.NowUTC,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns a copy of the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Quote prices the current draft freshly.
func (w *Wizard) Quote() models.QuoteResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.quoteLocked()
}

func (w *Wizard) quoteLocked() models.QuoteResult {
	return w.quote(w.state.Draft, w.state.Offer.EffectiveOffer)
}

// Status is the status line at the wizard clock.
func (w *Wizard) Status() StatusLine {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status(w.state, w.now())
}

// Dispatch applies a navigation or edit action. Submission actions go
// through Submit or BeginSubmit.
func (w *Wizard) Dispatch(a Action) (State, Effect) {
	w.mu.Lock()
	next, eff := Reduce(w.state, a, w.quoteLocked())
	w.state = next
	onReload := w.onReload
	w.mu.Unlock()

	if eff.ReloadOffer != nil && onReload != nil {
		onReload(*eff.ReloadOffer)
	}
	return next, eff
}

// BeginSubmit marks the wizard as submitting and returns the request to send.
// A second call before the first completes is a conflict.
func (w *Wizard) BeginSubmit() (models.BookingRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Submitting {
		return models.BookingRequest{}, domain.ConflictError{Resource: "booking", Msg: Message(CodeSubmitInFlight)}
	}
	q := w.quoteLocked()
	next, eff := Reduce(w.state, SubmitStarted{At: w.now()}, q)
	w.state = next
	if !eff.StartSubmit {
		return models.BookingRequest{}, errorOf(next.Error)
	}
	return models.BookingRequest{
		Draft:     next.Draft,
		Offer:     next.Offer.EffectiveOffer,
		Total:     q.TotalPrice,
		SessionID: w.sessionID,
	}, nil
}

// CompleteSubmit resets the wizard after a confirmed booking.
func (w *Wizard) CompleteSubmit(conf models.BookingConfirmation) State {
	w.mu.Lock()
	next, eff := Reduce(w.state, SubmitSucceeded{Reference: conf.Reference, PaymentURL: conf.PaymentURL, At: w.now()}, models.QuoteResult{})
	w.state = next
	onSubmitted, onReload := w.onSubmitted, w.onReload
	w.mu.Unlock()

	if onSubmitted != nil {
		onSubmitted(conf)
	}
	if eff.ReloadOffer != nil && onReload != nil {
		onReload(*eff.ReloadOffer)
	}
	return next
}

// FailSubmit records a failed submission; the draft is kept for a retry.
func (w *Wizard) FailSubmit(err error) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state, _ = Reduce(w.state, SubmitFailed{Err: err}, models.QuoteResult{})
	return w.state
}

// ExpireSubmit fails a submission that has been in flight for longer than
// maxAge, so a request that never reported back does not lock the session.
// A flag without a start time counts as expired.
func (w *Wizard) ExpireSubmit(maxAge time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.state.Submitting {
		return false
	}
	since := w.state.SubmittingSince
	if !since.IsZero() && w.now().Sub(since) < maxAge {
		return false
	}
	w.state, _ = Reduce(w.state, SubmitFailed{Err: domain.SubmissionError{Msg: Message(CodeSubmitTimedOut)}}, models.QuoteResult{})
	return true
}

// Submit runs a full submission against the Submitter.
func (w *Wizard) Submit(ctx context.Context) (models.BookingConfirmation, error) {
	req, err := w.BeginSubmit()
	if err != nil {
		return models.BookingConfirmation{}, err
	}
	conf, err := w.submitter.Submit(ctx, req)
	if err != nil {
		w.FailSubmit(err)
		if !domain.IsSubmission(err) {
			err = domain.SubmissionError{Err: err}
		}
		return models.BookingConfirmation{}, err
	}
	w.CompleteSubmit(conf)
	return conf, nil
}

// errorOf turns a step banner back into a typed error.
func errorOf(se *StepError) error {
	if se == nil {
		return nil
	}
	if se.Field != "" || se.Code == CodeSubmitNotOnSummary {
		field := se.Field
		if field == "" {
			field = "step"
		}
		return domain.ValidationError{Field: field, Code: se.Code, Msg: se.Message}
	}
	return domain.QuoteUnavailableError{Code: se.Code, Msg: se.Message}
}
