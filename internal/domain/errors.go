package domain

import (
	"errors"
	"fmt"
)

// DomainError keeps backward compatibility for generic codes.
type DomainError struct {
	Code string
	Err  error
}

func (e DomainError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	if e.Code == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e DomainError) Unwrap() error {
	return e.Err
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// ValidationError is a single required or ill-formed field. Code is the stable
// message identifier the frontend localizes; Msg is the English default.
type ValidationError struct {
	Field string
	Code  string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// QuoteUnavailableError means no bookable quote exists for the current input
// (route, capacity, day count). It blocks navigation but is not a field error.
type QuoteUnavailableError struct {
	Code string
	Msg  string
}

func (e QuoteUnavailableError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Code != "" {
		return "quote unavailable: " + e.Code
	}
	return "quote unavailable"
}

// OfferReloadError wraps a failed fleet/catalog fetch for an offer.
type OfferReloadError struct {
	Offer string
	Err   error
}

func (e OfferReloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fleet reload for offer %s failed", e.Offer)
	}
	return fmt.Sprintf("fleet reload for offer %s failed: %v", e.Offer, e.Err)
}

func (e OfferReloadError) Unwrap() error { return e.Err }

// SubmissionError is a failed final booking submission.
type SubmissionError struct {
	Status int
	Msg    string
	Err    error
}

func (e SubmissionError) Error() string {
	switch {
	case e.Msg != "" && e.Status > 0:
		return fmt.Sprintf("booking submission failed (%d): %s", e.Status, e.Msg)
	case e.Msg != "":
		return "booking submission failed: " + e.Msg
	case e.Err != nil:
		return "booking submission failed: " + e.Err.Error()
	default:
		return "booking submission failed"
	}
}

func (e SubmissionError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsQuoteUnavailable(err error) bool {
	var target QuoteUnavailableError
	return errors.As(err, &target)
}

func IsOfferReload(err error) bool {
	var target OfferReloadError
	return errors.As(err, &target)
}

func IsSubmission(err error) bool {
	var target SubmissionError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
