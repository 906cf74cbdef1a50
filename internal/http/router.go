package api

import (
	stdhttp "net/http"

	intconfig "wakacjecypr/internal/config"
	h "wakacjecypr/internal/http/handlers"
	"wakacjecypr/internal/http/middleware"
	"wakacjecypr/internal/utils"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, deps h.Deps) *gin.Engine {
	h.Configure(deps)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log().WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":      "route not found",
			"code":       "not_found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": middleware.GetRequestID(c),
		})
	})

	// Separate budgets so wizard traffic cannot starve booking or login.
	limited := middleware.RateLimit(middleware.NewIPRateLimiter(env.QuoteRatePerMin))
	bookingLimited := middleware.RateLimitExceptLoopback(middleware.NewIPRateLimiter(env.BookingRatePerMin))
	loginLimited := middleware.RateLimit(middleware.NewIPRateLimiter(env.LoginRatePerMin))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Stateless pricing
		api.POST("/quote", limited, h.Quote)
		api.GET("/offers/evaluate", h.EvaluateOffer)
		api.GET("/locations", h.Locations)
		api.GET("/fleet", h.Fleet)

		// Wizard sessions
		sessions := api.Group("/wizard/sessions", limited)
		sessions.POST("", h.CreateSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.PATCH("/:id/draft", h.PatchSessionDraft)
		sessions.PUT("/:id/draft", h.PutSessionDraft)
		sessions.PUT("/:id/offer", h.SetSessionOffer)
		sessions.POST("/:id/next", h.NextStep)
		sessions.POST("/:id/back", h.PreviousStep)
		sessions.POST("/:id/jump", h.JumpToStep)
		sessions.POST("/:id/submit", h.SubmitSession)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.POST("", bookingLimited, h.CreateBooking)
		bookings.GET("/:ref", h.GetBooking)
		bookings.GET("/:ref/voucher", h.GetBookingVoucher)

		// Auth
		api.POST("/auth/login", loginLimited, h.Login)

		// Admin
		admin := api.Group("/admin", middleware.AuthRequired(deps.Auth), middleware.RequireRoles("admin", "owner"))
		admin.POST("/fleet/reload", h.ReloadFleet)
	}

	h.SetRouter(r)
	return r
}
