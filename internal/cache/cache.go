// Aesthetica - Multi-tenant Aesthetics Clinic Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aesthetica

package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aesthetica_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	invalidations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aesthetica_cache_invalidated_entries_total",
			Help: "Entries dropped by tenant invalidation",
		},
	)
)

// Cache holds short-lived, tenant-scoped API results. Keys always start with
// the tenant id, so one tenant's writes can drop that tenant's entries without
// touching anyone else's.
type Cache struct {
	items *ttlcache.Cache[string, interface{}]
	ttl   time.Duration
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Keys       int     `json:"keys"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	Insertions uint64  `json:"insertions"`
	Evictions  uint64  `json:"evictions"`
	HitRate    float64 `json:"hit_rate"`
}

// New creates a cache whose entries live for ttl. The expiry loop is not
// started; run Serve under the supervisor, or rely on lazy expiry in Get.
func New(ttl time.Duration) *Cache {
	items := ttlcache.New[string, interface{}](
		ttlcache.WithTTL[string, interface{}](ttl),
		// A popular entry must still refresh every ttl.
		ttlcache.WithDisableTouchOnHit[string, interface{}](),
	)
	return &Cache{items: items, ttl: ttl}
}

// TenantKey builds a key in the tenant's namespace.
//
//	cache.TenantKey(7, "dashboard") // "t7:dashboard"
func TenantKey(tenantID int64, parts ...string) string {
	var b strings.Builder
	b.WriteString(tenantPrefix(tenantID))
	b.WriteString(strings.Join(parts, ":"))
	return b.String()
}

func tenantPrefix(tenantID int64) string {
	return "t" + strconv.FormatInt(tenantID, 10) + ":"
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (interface{}, bool) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		lookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	lookups.WithLabelValues("hit").Inc()
	return item.Value(), true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	c.items.Set(key, value, ttlcache.DefaultTTL)
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.items.Delete(key)
}

// InvalidateTenant drops every entry of one tenant and returns how many were removed.
func (c *Cache) InvalidateTenant(tenantID int64) int {
	prefix := tenantPrefix(tenantID)
	removed := 0
	for _, key := range c.items.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
			removed++
		}
	}
	invalidations.Add(float64(removed))
	return removed
}

// Clear drops everything.
func (c *Cache) Clear() {
	c.items.DeleteAll()
}

// Stats reports counters since creation.
func (c *Cache) Stats() Stats {
	m := c.items.Metrics()
	s := Stats{
		Keys:       c.items.Len(),
		Hits:       m.Hits,
		Misses:     m.Misses,
		Insertions: m.Insertions,
		Evictions:  m.Evictions,
	}
	if total := m.Hits + m.Misses; total > 0 {
		s.HitRate = float64(m.Hits) / float64(total)
	}
	return s
}

// Serve runs the expiry loop until ctx is cancelled. It has the suture
// service signature.
func (c *Cache) Serve(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.items.Start()
		close(done)
	}()

	<-ctx.Done()
	c.items.Stop()
	<-done
	return ctx.Err()
}

// String names the service in supervisor logs.
func (c *Cache) String() string {
	return "response-cache"
}
