package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// loadTimeout bounds a shared load once it is detached from the caller that
// started it.
const loadTimeout = 30 * time.Second

// ViewCache holds pricing data per style and method so a product view fetches
// once and every recompute reuses the same data. Concurrent misses for the
// same key share one fetch.
//
// Writes are last-wins: a fetch that started before a Put or Invalidate for
// the same key never replaces what that call left behind.
type ViewCache struct {
	source Source
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]pricing.PricingData
	gens    map[string]uint64
}

// NewViewCache wraps source.
func NewViewCache(source Source) *ViewCache {
	return &ViewCache{
		source:  source,
		entries: make(map[string]pricing.PricingData),
		gens:    make(map[string]uint64),
	}
}

// Get returns cached data or loads it. A tier table that fails validation is
// reported as pricing.ErrConfiguration and not cached. The load outlives any
// single caller: a caller that gives up returns early while others sharing
// the load still get its result.
func (c *ViewCache) Get(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	key := viewKey(style, method)

	c.mu.RLock()
	data, ok := c.entries[key]
	gen := c.gens[key]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	ch := c.group.DoChan(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		loaded, err := c.source.Load(loadCtx, style, method)
		if err != nil {
			return nil, err
		}
		if err := loaded.Tiers.Validate(); err != nil {
			return nil, fmt.Errorf("%s/%s: %w", NormalizeStyle(style), method, err)
		}
		return c.store(key, gen, loaded), nil
	})

	select {
	case <-ctx.Done():
		return pricing.PricingData{}, &FetchError{Style: NormalizeStyle(style), Method: method, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return pricing.PricingData{}, res.Err
		}
		return res.Val.(pricing.PricingData), nil
	}
}

// store saves data unless the key changed since gen was read, in which case
// the newer entry (if any) wins.
func (c *ViewCache) store(key string, gen uint64, data pricing.PricingData) pricing.PricingData {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[key] != gen {
		if current, ok := c.entries[key]; ok {
			return current
		}
		return data
	}
	c.entries[key] = data
	return data
}

// Put replaces the cached data for data.Style and data.Method.
func (c *ViewCache) Put(data pricing.PricingData) {
	key := viewKey(data.Style, data.Method)

	c.mu.Lock()
	c.gens[key]++
	c.entries[key] = data
	c.mu.Unlock()
}

// Invalidate drops the entry for style and method.
func (c *ViewCache) Invalidate(style string, method pricing.Method) {
	key := viewKey(style, method)

	c.mu.Lock()
	c.gens[key]++
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateStyle drops every method's entry for style.
func (c *ViewCache) InvalidateStyle(style string) {
	prefix := NormalizeStyle(style) + ":"

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range pricing.Methods() {
		key := prefix + string(m)
		c.gens[key]++
		delete(c.entries, key)
	}
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.gens[key]++
			delete(c.entries, key)
		}
	}
}
