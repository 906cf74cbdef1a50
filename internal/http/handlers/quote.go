package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/offer"
	"wakacjecypr/internal/pricing"
	"wakacjecypr/internal/repositories"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	Draft       models.BookingDraft `json:"draft"`
	ManualOffer *models.Offer       `json:"manualOffer,omitempty"`
}

// POST /api/quote
func Quote(c *gin.Context) {
	var req quoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.ManualOffer != nil && !req.ManualOffer.Valid() {
		respondFieldError(c, http.StatusBadRequest, "invalid_offer", "manualOffer", "unknown offer", nil)
		return
	}
	oc := offer.Evaluate(offer.FromDraft(req.Draft, req.ManualOffer))
	q, err := bookingService(c).Quote(c.Request.Context(), req.Draft, oc.EffectiveOffer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offer": oc, "quote": q})
}

// GET /api/offers/evaluate?pickup=&return=&youngDriver=&manual=
func EvaluateOffer(c *gin.Context) {
	w := offer.WidgetState{
		PickupCode: strings.TrimSpace(c.Query("pickup")),
		ReturnCode: strings.TrimSpace(c.Query("return")),
	}
	if w.ReturnCode == "" {
		w.ReturnCode = w.PickupCode
	}
	if raw := c.Query("youngDriver"); raw != "" {
		young, err := strconv.ParseBool(raw)
		if err != nil {
			respondFieldError(c, http.StatusBadRequest, "invalid_young_driver", "youngDriver", "youngDriver must be true or false", nil)
			return
		}
		w.YoungDriver = young
	}
	if raw := strings.TrimSpace(c.Query("manual")); raw != "" {
		m := models.Offer(raw)
		if !m.Valid() {
			respondFieldError(c, http.StatusBadRequest, "invalid_offer", "manual", "unknown offer", nil)
			return
		}
		w.ManualOffer = &m
	}
	c.JSON(http.StatusOK, offer.Evaluate(w))
}

// GET /api/locations
func Locations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"locations": pricing.Locations()})
}

// GET /api/fleet?offer=
func Fleet(c *gin.Context) {
	o := models.Offer(strings.TrimSpace(c.DefaultQuery("offer", string(models.OfferDefault))))
	if !o.Valid() {
		respondFieldError(c, http.StatusBadRequest, "invalid_offer", "offer", "unknown offer", nil)
		return
	}
	var src offer.FleetSource = repositories.FleetRepository{}
	if f := current().Fleet; f != nil {
		src = f
	}
	fleet, err := src.LoadFleet(c.Request.Context(), o)
	if err != nil {
		RespondDomainError(c, domain.OfferReloadError{Offer: string(o), Err: err})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"offer":      o,
		"vehicles":   fleet,
		"surcharges": pricing.CatalogFor(o).Surcharges(),
	})
}
