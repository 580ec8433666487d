// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/vimeo-provider/internal/bus"
)

var storeChannelPattern = bus.Pattern{Role: "store", Cmd: "get", Type: "channel"}

// ChannelCache memoizes store lookups of channel configuration. Entries
// are keyed by the RETURNED channel's own id, which guards against alias
// mismatches between the requested and canonical ids. Append-only, no
// eviction: channel config is treated as immutable for process lifetime.
type ChannelCache struct {
	bus bus.Bus

	mu       sync.Mutex
	channels map[string]*Channel
}

// NewChannelCache creates an empty cache over the given bus.
func NewChannelCache(b bus.Bus) *ChannelCache {
	return &ChannelCache{
		bus:      b,
		channels: make(map[string]*Channel),
	}
}

// Resolve returns the channel named by id, querying the store on first
// use. Concurrent first lookups for the same id may both hit the store;
// the store query is idempotent so the duplicate is harmless.
func (c *ChannelCache) Resolve(ctx context.Context, id string) (*Channel, error) {
	c.mu.Lock()
	cached, ok := c.channels[id]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	var channel Channel
	if err := c.bus.Query(ctx, storeChannelPattern, map[string]string{"id": id}, &channel); err != nil {
		return nil, fmt.Errorf("resolve channel %q: %w", id, err)
	}

	c.mu.Lock()
	if _, ok := c.channels[channel.ID]; !ok {
		c.channels[channel.ID] = &channel
	}
	c.mu.Unlock()
	return &channel, nil
}
