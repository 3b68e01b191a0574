// Copyright 2025 The Vafast Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ttlcache provides a small, concurrency-safe in-memory key-value
// store with per-entry time-to-live.
//
// Expiration is lazy: an expired entry is treated as absent and removed the
// next time it is looked up. There is no background sweeper and no maximum
// size; callers that cache unbounded key spaces accept unbounded growth and
// should size their TTL accordingly.
package ttlcache

import (
	"sync"
	"time"
)

// entry holds a stored value together with its expiration bookkeeping.
type entry[V any] struct {
	value    V
	storedAt time.Time
	ttl      time.Duration
}

// expired reports whether the entry is past its time-to-live at now.
func (e entry[V]) expired(now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}

// Cache is a thread-safe string-keyed store with per-entry TTL.
// The zero value is not usable; construct with New.
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
}

// New creates a cache whose Set entries live for defaultTTL.
// A defaultTTL <= 0 yields a cache that never stores anything.
func New[V any](defaultTTL time.Duration) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     defaultTTL,
	}
}

// Get returns the value stored under key and whether it was present and
// unexpired. An expired entry is removed as a side effect and reported as
// absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return zero, false
	}

	if e.expired(time.Now()) {
		// expired; remove lazily
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.storedAt.Equal(e.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()

		return zero, false
	}

	return e.value, true
}

// Has reports whether key is present and unexpired, removing the entry if it
// has expired.
func (c *Cache[V]) Has(key string) bool {
	_, ok := c.Get(key)

	return ok
}

// Set stores value under key with the cache's default TTL, overwriting any
// existing entry and resetting its expiration clock.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.defaultTTL())
}

// SetTTL stores value under key with an explicit TTL, overwriting any
// existing entry and resetting its expiration clock. A ttl <= 0 is a no-op.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, storedAt: time.Now(), ttl: ttl}
	c.mu.Unlock()
}

// Delete removes key from the cache if present.
func (c *Cache[V]) Delete(key string) {
	if c == nil {
		return
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of stored entries, including any that have expired
// but not yet been lazily evicted.
func (c *Cache[V]) Len() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *Cache[V]) defaultTTL() time.Duration {
	if c == nil {
		return 0
	}

	return c.ttl
}
