package handlers

import (
	"net/http"
	"sync"

	intconfig "wakacjecypr/internal/config"
	"wakacjecypr/internal/db"
	"wakacjecypr/internal/http/middleware"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps are the long-lived services the handlers share.
type Deps struct {
	Sessions       *services.SessionService
	Fleet          *repositories.CachedFleetSource
	Bookings       repositories.BookingRepository
	Auth           services.AuthService
	PaymentBaseURL string
}

var (
	routerMu sync.RWMutex
	router   *gin.Engine
	deps     Deps
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// Configure installs the shared services.
func Configure(d Deps) {
	routerMu.Lock()
	defer routerMu.Unlock()
	deps = d
}

func current() Deps {
	routerMu.RLock()
	defer routerMu.RUnlock()
	return deps
}

func bookingService(c *gin.Context) services.BookingService {
	d := current()
	svc := services.BookingService{
		BookingRepo:    d.Bookings,
		PaymentBaseURL: d.PaymentBaseURL,
		RequestID:      middleware.GetRequestID(c),
	}
	if d.Fleet != nil {
		svc.Fleet = d.Fleet
	}
	return svc
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "wakacjecypr backend is running"})
}

// DBCheck reports whether MySQL answers and how many catalog rows it holds.
func DBCheck(c *gin.Context) {
	conn := current().Bookings.DB
	if conn == nil {
		conn = intconfig.DB
	}
	if conn == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database is not connected", nil)
		return
	}
	ctx := c.Request.Context()
	if err := conn.PingContext(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database ping failed: "+err.Error(), nil)
		return
	}
	if !db.HasTable(conn, "car_offers") {
		c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "car_offers": nil})
		return
	}
	var count int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM car_offers").Scan(&count); err != nil {
		respondError(c, http.StatusInternalServerError, "db_query_failed", "database query failed: "+err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database connection OK", "car_offers": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "router_not_ready", "router is not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
