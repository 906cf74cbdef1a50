package repositories

import (
	"context"
	"sync"
	"time"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/offer"
	"wakacjecypr/internal/utils"
)

type fleetEntry struct {
	fleet    []models.Vehicle
	loadedAt time.Time
}

// CachedFleetSource memoizes fleet loads per offer for TTL. A zero TTL keeps
// entries until Invalidate.
type CachedFleetSource struct {
	Src offer.FleetSource
	TTL time.Duration
	Now func() time.Time

	mu      sync.RWMutex
	entries map[models.Offer]fleetEntry
}

func NewCachedFleetSource(src offer.FleetSource, ttl time.Duration) *CachedFleetSource {
	return &CachedFleetSource{Src: src, TTL: ttl, Now: utils.NowUTC}
}

func (c *CachedFleetSource) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return utils.NowUTC()
}

func (c *CachedFleetSource) fresh(e fleetEntry) bool {
	return c.TTL <= 0 || c.now().Sub(e.loadedAt) < c.TTL
}

// Peek returns the cached fleet of an offer without loading.
func (c *CachedFleetSource) Peek(o models.Offer) ([]models.Vehicle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[o]
	if !ok || !c.fresh(e) {
		return nil, false
	}
	return copyFleet(e.fleet), true
}

func (c *CachedFleetSource) LoadFleet(ctx context.Context, o models.Offer) ([]models.Vehicle, error) {
	if fleet, ok := c.Peek(o); ok {
		return fleet, nil
	}
	fleet, err := c.Src.LoadFleet(ctx, o)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[models.Offer]fleetEntry)
	}
	c.entries[o] = fleetEntry{fleet: copyFleet(fleet), loadedAt: c.now()}
	c.mu.Unlock()
	return fleet, nil
}

// Invalidate drops the given offers, or everything when none are given.
func (c *CachedFleetSource) Invalidate(offers ...models.Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(offers) == 0 {
		c.entries = nil
		return
	}
	for _, o := range offers {
		delete(c.entries, o)
	}
}

func copyFleet(in []models.Vehicle) []models.Vehicle {
	if in == nil {
		return nil
	}
	out := make([]models.Vehicle, len(in))
	copy(out, in)
	return out
}
