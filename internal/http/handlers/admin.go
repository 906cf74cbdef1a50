package handlers

import (
	"fmt"
	"net/http"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/http/middleware"
	"wakacjecypr/internal/utils"

	"github.com/gin-gonic/gin"
)

type reloadRequest struct {
	Offers []models.Offer `json:"offers"`
}

// POST /api/admin/fleet/reload drops cached fleets. An empty body or offer
// list drops all of them.
func ReloadFleet(c *gin.Context) {
	var req reloadRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	for _, o := range req.Offers {
		if !o.Valid() {
			respondFieldError(c, http.StatusBadRequest, "invalid_offer", "offers", "unknown offer "+string(o), nil)
			return
		}
	}
	d := current()
	switch {
	case d.Sessions != nil:
		d.Sessions.InvalidateFleet(req.Offers...)
	case d.Fleet != nil:
		d.Fleet.Invalidate(req.Offers...)
	}
	utils.LogEvent(middleware.GetRequestID(c), "admin", "fleet_reload", fmt.Sprintf("user_id=%d offers=%v", c.GetInt64("userID"), req.Offers))
	c.JSON(http.StatusOK, gin.H{"message": "fleet cache cleared", "offers": req.Offers})
}
