package wizard

import (
	"time"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/offer"
)

// Action is a user or system event fed to Reduce.
type Action interface {
	action()
}

// Next validates the current step and moves forward on success.
type Next struct{}

// Back moves one step back without validation.
type Back struct{}

// JumpTo navigates through the progress indicator.
type JumpTo struct {
	Step Step
}

// UpdateDraft applies field edits to the draft.
type UpdateDraft struct {
	Edit func(*models.BookingDraft)
}

// SetManualOffer records the user's catalog choice; nil clears it.
type SetManualOffer struct {
	Offer *models.Offer
}

// SubmitStarted is the submit click on the summary step.
type SubmitStarted struct {
	At time.Time
}

// SubmitSucceeded resets the wizard after the endpoint confirmed.
type SubmitSucceeded struct {
	Reference  string
	PaymentURL string
	At         time.Time
}

// SubmitFailed keeps the draft and shows the error on the summary.
type SubmitFailed struct {
	Err error
}

func (Next) action() {}
func (Back) action() {}
func (JumpTo) action() {}
func (UpdateDraft) action() {}
func (SetManualOffer) action() {}
func (SubmitStarted) action() {}
func (SubmitSucceeded) action() {}
func (SubmitFailed) action() {}

// Effect is what the owner of the state must do after a transition.
type Effect struct {
	FocusField  string
	ReloadOffer *models.Offer
	StartSubmit bool
}

// Reduce is the wizard transition function. q must be the quote of s.Draft;
// it is only consulted by validating actions.
func Reduce(s State, a Action, q models.QuoteResult) (State, Effect) {
	var eff Effect
	switch a := a.(type) {
	case Next:
		if s.CurrentStep >= StepSummary {
			return s, eff
		}
		if err := ValidateStep(s.CurrentStep, s.Draft, q); err != nil {
			s.Error = stepError(s.CurrentStep, err)
			eff.FocusField = s.Error.Field
			return s, eff
		}
		s.CurrentStep++
		if s.CurrentStep > s.MaxUnlockedStep {
			s.MaxUnlockedStep = s.CurrentStep
		}
		s.Error = nil

	case Back:
		if s.CurrentStep > StepRoute {
			s.CurrentStep--
			s.Error = nil
		}

	case JumpTo:
		if !a.Step.Valid() {
			s.Error = codeError(s.CurrentStep, CodeInvalidStep)
			return s, eff
		}
		if a.Step > s.MaxUnlockedStep {
			s.Error = codeError(s.CurrentStep, CodeCompletePreviousSteps)
			return s, eff
		}
		s.CurrentStep = a.Step
		s.Error = nil

	case UpdateDraft:
		if a.Edit != nil {
			a.Edit(&s.Draft)
		}
		eff.ReloadOffer = s.reevaluate()

	case SetManualOffer:
		s.ManualOffer = nil
		if a.Offer != nil && a.Offer.Valid() {
			m := *a.Offer
			s.ManualOffer = &m
		}
		eff.ReloadOffer = s.reevaluate()

	case SubmitStarted:
		if s.CurrentStep != StepSummary {
			s.Error = codeError(s.CurrentStep, CodeSubmitNotOnSummary)
			return s, eff
		}
		if s.Submitting {
			return s, eff
		}
		if step, err := ValidateAll(s.Draft, q); err != nil {
			s.CurrentStep = step
			s.Error = stepError(step, err)
			eff.FocusField = s.Error.Field
			return s, eff
		}
		s.Submitting = true
		s.SubmittingSince = a.At
		s.Error = nil
		eff.StartSubmit = true

	case SubmitSucceeded:
		next := NewState()
		next.ConfirmationUntil = a.At.Add(ConfirmationDuration)
		next.LastReference = a.Reference
		next.LastPaymentURL = a.PaymentURL
		if next.Offer.EffectiveOffer != s.Offer.EffectiveOffer {
			o := next.Offer.EffectiveOffer
			eff.ReloadOffer = &o
		}
		return next, eff

	case SubmitFailed:
		s.Submitting = false
		s.SubmittingSince = time.Time{}
		s.CurrentStep = StepSummary
		s.Error = stepError(StepSummary, a.Err)
	}
	return s, eff
}

// reevaluate recomputes the offer context and returns the new effective
// offer when it changed.
func (s *State) reevaluate() *models.Offer {
	prev := s.Offer.EffectiveOffer
	s.Offer = offer.Evaluate(offer.FromDraft(s.Draft, s.ManualOffer))
	if s.Offer.ManualOffer == nil {
		s.ManualOffer = nil
	}
	if s.Offer.EffectiveOffer == prev {
		return nil
	}
	o := s.Offer.EffectiveOffer
	return &o
}

// StatusLine is the status text shown for s at now.
type StatusLine struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Status returns the status line of s at now.
func Status(s State, now time.Time) StatusLine {
	code := s.CurrentStep.statusCode()
	switch {
	case s.Submitting:
		code = CodeStatusSubmitting
	case !s.ConfirmationUntil.IsZero() && now.Before(s.ConfirmationUntil):
		code = CodeStatusBookingSubmitted
	}
	return StatusLine{Code: code, Message: Message(code)}
}
