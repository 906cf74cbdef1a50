package handlers

import (
	"errors"
	"net/http"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/http/middleware"
	"wakacjecypr/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Field     string `json:"field,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	respondFieldError(c, status, code, "", message, details)
}

func respondFieldError(c *gin.Context, status int, code, field, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Field:     field,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	respondDomainError(c, err, nil)
}

// respondDomainError is RespondDomainError with extra details merged into
// the payload.
func respondDomainError(c *gin.Context, err error, details gin.H) {
	var (
		ve domain.ValidationError
		qe domain.QuoteUnavailableError
		se domain.SubmissionError
		de domain.DomainError
	)
	switch {
	case errors.As(err, &ve):
		code := ve.Code
		if code == "" {
			code = "validation_error"
		}
		respondFieldError(c, http.StatusBadRequest, code, ve.Field, err.Error(), detailsOrNil(details))
	case errors.As(err, &qe):
		code := qe.Code
		if code == "" {
			code = "quote_unavailable"
		}
		respondError(c, http.StatusUnprocessableEntity, code, err.Error(), detailsOrNil(details))
	case domain.IsOfferReload(err):
		respondError(c, http.StatusBadGateway, "offer_reload_failed", err.Error(), detailsOrNil(details))
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), detailsOrNil(details))
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), detailsOrNil(details))
	case errors.As(err, &se):
		if details == nil {
			details = gin.H{}
		}
		details["upstream_status"] = se.Status
		respondError(c, http.StatusBadGateway, "submission_failed", err.Error(), details)
	case errors.As(err, &de) && isAuthCode(de.Code):
		respondError(c, http.StatusUnauthorized, de.Code, err.Error(), nil)
	default:
		utils.LogFailure(middleware.GetRequestID(c), "http", c.Request.Method+" "+c.FullPath(), err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}

func detailsOrNil(d gin.H) any {
	if len(d) == 0 {
		return nil
	}
	return d
}

func isAuthCode(code string) bool {
	switch code {
	case "invalid_credentials", "invalid_token", "token_expired":
		return true
	}
	return false
}
