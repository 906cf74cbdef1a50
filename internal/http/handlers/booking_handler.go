package handlers

import (
	"net/http"
	"strings"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/http/middleware"
	"wakacjecypr/internal/services"

	"github.com/gin-gonic/gin"
)

// POST /api/bookings is the booking endpoint the wizard submits to.
func CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	conf, err := bookingService(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}

// GET /api/bookings/:ref
func GetBooking(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	if ref == "" {
		respondFieldError(c, http.StatusBadRequest, "invalid_reference", "ref", "booking reference is required", nil)
		return
	}
	b, err := bookingService(c).Get(c.Request.Context(), ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/:ref/voucher returns the voucher PDF inline.
func GetBookingVoucher(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("ref"))
	svc := services.VoucherService{
		BookingRepo: current().Bookings,
		RequestID:   middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.Generate(c.Request.Context(), ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
