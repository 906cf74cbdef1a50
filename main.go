package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"wakacjecypr/internal/clients"
	intconfig "wakacjecypr/internal/config"
	router "wakacjecypr/internal/http"
	"wakacjecypr/internal/http/handlers"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/services"
	"wakacjecypr/internal/utils"
	"wakacjecypr/internal/wizard"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	utils.InitLogger(env.LogLevel, env.LogFormat)
	log := utils.Log()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if db, err := intconfig.ConnectDB(env.DBDSN); err != nil {
		log.WithError(err).Warn("MySQL unavailable, using the static fleet until it comes back")
		go reconnectDB(ctx, env.DBDSN)
	} else if err := repositories.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Error("schema setup failed")
	}
	defer intconfig.CloseDB()

	var store repositories.SessionStore
	rdb, err := intconfig.ConnectRedis(env.RedisAddr, env.RedisPassword, env.RedisDB)
	switch {
	case err != nil:
		log.WithError(err).Warn("Redis unavailable, keeping wizard sessions in memory")
	case rdb != nil:
		defer rdb.Close()
		store = repositories.RedisSessionStore{Client: rdb, TTL: env.SessionTTL}
		log.Info("wizard sessions stored in Redis")
	}
	if store == nil {
		mem := repositories.NewMemorySessionStore(env.SessionTTL)
		go sweepSessions(ctx, mem)
		store = mem
	}

	fleet := repositories.NewCachedFleetSource(repositories.FleetRepository{}, env.FleetCacheTTL)

	var submitter wizard.Submitter
	if env.BookingEndpointURL != "" {
		submitter = clients.NewBookingClient(env.BookingEndpointURL, env.BookingTimeout)
	} else {
		submitter = services.LocalSubmitter{Bookings: services.BookingService{Fleet: fleet, PaymentBaseURL: env.PaymentLinkBaseURL}}
	}

	sessions := services.NewSessionService(store, fleet, submitter)
	sessions.SubmitTimeout = env.BookingTimeout + 5*time.Second
	defer sessions.Close()

	if env.JWTSecret == "" {
		log.Warn("JWT_SECRET is empty, admin login is disabled")
	}
	r := router.NewRouter(env, handlers.Deps{
		Sessions:       sessions,
		Fleet:          fleet,
		Auth:           services.AuthService{Secret: []byte(env.JWTSecret)},
		PaymentBaseURL: env.PaymentLinkBaseURL,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
		return
	}
	log.Info("server stopped")
}

func reconnectDB(ctx context.Context, dsn string) {
	t := time.NewTicker(30 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := intconfig.EnsureDB(dsn); err != nil {
				continue
			}
			if err := repositories.EnsureSchema(ctx, intconfig.DB); err != nil {
				utils.Log().WithError(err).Error("schema setup failed")
			}
			return
		}
	}
}

func sweepSessions(ctx context.Context, m *repositories.MemorySessionStore) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(); n > 0 {
				utils.LogEvent("", "wizard", "sweep_sessions", "expired="+strconv.Itoa(n))
			}
		}
	}
}
