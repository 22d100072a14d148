package cache

import (
	"context"
	"log"
	"sync"

	"github.com/cargaexpress/booking/internal/metrics"
	"github.com/cargaexpress/booking/internal/shipment"
)

type OpenShipmentSource interface {
	ListPendingOffers(ctx context.Context) ([]shipment.Record, error)
}

// ShipmentCache keeps the offers drivers can still act on in memory so the
// offers view does not hit the store on every poll.
type ShipmentCache struct {
	mu     sync.RWMutex
	cache  map[string]shipment.Record
	source OpenShipmentSource
}

func NewShipmentCache(source OpenShipmentSource) *ShipmentCache {
	return &ShipmentCache{
		cache:  make(map[string]shipment.Record),
		source: source,
	}
}

func (c *ShipmentCache) LoadInitialData(ctx context.Context) error {
	log.Println("Loading open shipments into cache...")
	records, err := c.source.ListPendingOffers(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		c.cache[rec.ID] = rec
	}
	metrics.ShipmentCacheItems.Set(float64(len(c.cache)))
	log.Printf("Loaded %d open shipments into cache.", len(c.cache))
	return nil
}

func (c *ShipmentCache) Get(id string) (shipment.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, found := c.cache[id]
	return rec, found
}

// Set keeps only claimable records; anything else falls out of the cache.
func (c *ShipmentCache) Set(rec shipment.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch rec.Status {
	case shipment.StatusPendingDriverAction, shipment.StatusRejectedByUser:
		c.cache[rec.ID] = rec
	default:
		delete(c.cache, rec.ID)
	}
	metrics.ShipmentCacheItems.Set(float64(len(c.cache)))
}

func (c *ShipmentCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[id]; found {
		delete(c.cache, id)
		metrics.ShipmentCacheItems.Set(float64(len(c.cache)))
	}
}

// List returns the cached open offers in unspecified order.
func (c *ShipmentCache) List() []shipment.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]shipment.Record, 0, len(c.cache))
	for _, rec := range c.cache {
		out = append(out, rec)
	}
	return out
}
