package wizard

import (
	"errors"
	"time"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/offer"
)

// Step is a wizard page, numbered from 1.
type Step int

const (
	StepRoute Step = iota + 1
	StepPassengers
	StepContact
	StepSummary
)

// ConfirmationDuration is how long the "booking submitted" status stays up.
const ConfirmationDuration = 4500 * time.Millisecond

func (s Step) Valid() bool { return s >= StepRoute && s <= StepSummary }

func (s Step) statusCode() string {
	switch s {
	case StepPassengers:
		return CodeStatusPassengers
	case StepContact:
		return CodeStatusContact
	case StepSummary:
		return CodeStatusSummary
	default:
		return CodeStatusRoute
	}
}

// StepError is the single error banner of a step. Field is empty for
// step-level errors such as an unavailable quote.
type StepError struct {
	Step    Step   `json:"step"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// State is everything the wizard owns. It is a value; Reduce returns a new one.
type State struct {
	CurrentStep       Step                `json:"currentStep"`
	MaxUnlockedStep   Step                `json:"maxUnlockedStep"`
	Draft             models.BookingDraft `json:"draft"`
	ManualOffer       *models.Offer       `json:"manualOffer,omitempty"`
	Offer             models.OfferContext `json:"offer"`
	Error             *StepError          `json:"error,omitempty"`
	Submitting        bool                `json:"submitting"`
	SubmittingSince   time.Time           `json:"submittingSince,omitzero"`
	ConfirmationUntil time.Time           `json:"confirmationUntil,omitzero"`
	LastReference     string              `json:"lastReference,omitempty"`
	LastPaymentURL    string              `json:"lastPaymentUrl,omitempty"`
}

// NewState is the state a wizard mounts with.
func NewState() State {
	s := State{
		CurrentStep:     StepRoute,
		MaxUnlockedStep: StepRoute,
		Draft:           models.NewDraft(),
	}
	s.Offer = offer.Evaluate(offer.FromDraft(s.Draft, nil))
	return s
}

func stepError(step Step, err error) *StepError {
	var ve domain.ValidationError
	if errors.As(err, &ve) {
		return &StepError{Step: step, Field: ve.Field, Code: ve.Code, Message: ve.Msg}
	}
	var qe domain.QuoteUnavailableError
	if errors.As(err, &qe) {
		return &StepError{Step: step, Code: qe.Code, Message: qe.Msg}
	}
	var se domain.SubmissionError
	if errors.As(err, &se) {
		msg := Message(CodeSubmissionFailed)
		if se.Msg != "" {
			msg = msg + " " + se.Msg
		}
		return &StepError{Step: step, Code: CodeSubmissionFailed, Message: msg}
	}
	return &StepError{Step: step, Code: CodeSubmissionFailed, Message: Message(CodeSubmissionFailed)}
}

func codeError(step Step, code string) *StepError {
	return &StepError{Step: step, Code: code, Message: Message(code)}
}
