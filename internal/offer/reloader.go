package offer

import (
	"context"
	"errors"
	"sync"

	"wakacjecypr/internal/domain"
	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/utils"

	"github.com/sirupsen/logrus"
)

// FleetSource loads the vehicles and tiers of an offer.
type FleetSource interface {
	LoadFleet(ctx context.Context, offer models.Offer) ([]models.Vehicle, error)
}

// Reloader keeps the fleet of the effective offer loaded. At most one load is
// in flight; requests made meanwhile replace a single queued target, which is
// loaded once the current load returns. A load superseded by a queued target
// is never published, so it cannot overwrite the newer state.
type Reloader struct {
	src      FleetSource
	ctx      context.Context
	cancel   context.CancelFunc
	onLoaded func(models.Offer, []models.Vehicle)

	mu       sync.Mutex
	inFlight bool
	target   models.Offer
	queued   *models.Offer
	idle     chan struct{}
	loaded   bool
	current  models.Offer
	fleet    []models.Vehicle
	lastErr  error
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// OnLoaded registers a callback run after each published load.
func OnLoaded(fn func(models.Offer, []models.Vehicle)) ReloaderOption {
	return func(r *Reloader) { r.onLoaded = fn }
}

// NewReloader returns an idle reloader. Cancelling parent (or calling Close)
// aborts the in-flight load.
func NewReloader(parent context.Context, src FleetSource, opts ...ReloaderOption) *Reloader {
	ctx, cancel := context.WithCancel(parent)
	r := &Reloader{src: src, ctx: ctx, cancel: cancel}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Request asks for the fleet of offer to become current.
func (r *Reloader) Request(offer models.Offer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFlight {
		if offer == r.target {
			r.queued = nil
			return
		}
		o := offer
		r.queued = &o
		return
	}
	if r.upToDate(offer) {
		return
	}
	r.inFlight = true
	r.target = offer
	r.idle = make(chan struct{})
	go r.run(offer)
}

// upToDate must be called with mu held.
func (r *Reloader) upToDate(offer models.Offer) bool {
	return r.loaded && r.current == offer && r.lastErr == nil
}

func (r *Reloader) run(target models.Offer) {
	for {
		fleet, err := r.src.LoadFleet(r.ctx, target)

		r.mu.Lock()
		next := r.queued
		r.queued = nil
		published := false

		switch {
		case next != nil:
			utils.Log().WithFields(logrus.Fields{"module": "OFFER", "offer": target, "next": *next}).
				Debug("fleet reload superseded")
		case err != nil:
			if errors.Is(err, context.Canceled) && r.ctx.Err() != nil {
				break
			}
			r.lastErr = domain.OfferReloadError{Offer: string(target), Err: err}
			utils.Log().WithFields(logrus.Fields{"module": "OFFER", "offer": target}).
				WithError(err).Warn("fleet reload failed, keeping last loaded offer")
		default:
			r.loaded = true
			r.current = target
			r.fleet = fleet
			r.lastErr = nil
			published = true
		}

		done := next == nil || r.ctx.Err() != nil || r.upToDate(*next)
		if done {
			r.inFlight = false
			close(r.idle)
		} else {
			target = *next
			r.target = target
		}
		cb := r.onLoaded
		r.mu.Unlock()

		if published && cb != nil {
			cb(target, fleet)
		}
		if done {
			return
		}
	}
}

// Current returns the last successfully loaded offer and its fleet.
func (r *Reloader) Current() (models.Offer, []models.Vehicle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.fleet, r.loaded
}

// LastError is the error of the most recent load attempt, nil after a success.
func (r *Reloader) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Busy reports whether a load is in flight.
func (r *Reloader) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// Wait blocks until no load is in flight or ctx is done.
func (r *Reloader) Wait(ctx context.Context) error {
	r.mu.Lock()
	if !r.inFlight {
		r.mu.Unlock()
		return nil
	}
	idle := r.idle
	r.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels any in-flight load. The reloader must not be used afterwards.
func (r *Reloader) Close() {
	r.cancel()
}
