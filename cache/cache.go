/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cache

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"dirpx.dev/pkgdata/apis"
	"dirpx.dev/pkgdata/cache/strategy"
	"dirpx.dev/pkgdata/config"
)

// ErrUnsupportedStrategy is returned for strategy values New does not know.
var ErrUnsupportedStrategy = errors.New("pkgdata(cache): unsupported strategy")

// New constructs the apis.Cache selected by cfg.CacheStrategy.
// Bounded strategies use cfg.CacheSize (and cfg.CacheTTL for TTL);
// non-positive values fall back to the defaults.
func New(cfg apis.Config) (apis.Cache, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = config.DefaultCacheSize
	}

	switch cfg.CacheStrategy {
	case strategy.Unbounded:
		return &mapCache{m: make(map[string]apis.PackagingInfo)}, nil
	case strategy.LRU:
		c, err := lru.New[string, apis.PackagingInfo](size)
		if err != nil {
			return nil, fmt.Errorf("pkgdata(cache): %w", err)
		}
		return &lruCache{c: c}, nil
	case strategy.TTL:
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = config.DefaultCacheTTL
		}
		return &ttlCache{c: expirable.NewLRU[string, apis.PackagingInfo](size, nil, ttl)}, nil
	case strategy.None:
		return noCache{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedStrategy, cfg.CacheStrategy)
	}
}

// MustNew is like New but panics on error.
func MustNew(cfg apis.Config) apis.Cache {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// mapCache never evicts. A single mutex guards the map; resolution work,
// not lock contention, dominates the cost of a miss.
type mapCache struct {
	mu sync.Mutex
	m  map[string]apis.PackagingInfo
}

var _ apis.Cache = (*mapCache)(nil)

func (c *mapCache) Get(className string) (apis.PackagingInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.m[className]
	return info, ok
}

// Put stores info unless className is already present.
func (c *mapCache) Put(className string, info apis.PackagingInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[className]; ok {
		return
	}
	c.m[className] = info
}

func (c *mapCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func (c *mapCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]apis.PackagingInfo)
}

// lruCache bounds the entries. The lru.Cache is already synchronized;
// ContainsOrAdd keeps Put idempotent.
type lruCache struct {
	c *lru.Cache[string, apis.PackagingInfo]
}

var _ apis.Cache = (*lruCache)(nil)

func (c *lruCache) Get(className string) (apis.PackagingInfo, bool) {
	return c.c.Get(className)
}

func (c *lruCache) Put(className string, info apis.PackagingInfo) {
	c.c.ContainsOrAdd(className, info)
}

func (c *lruCache) Len() int { return c.c.Len() }

func (c *lruCache) Clear() { c.c.Purge() }

// ttlCache expires entries. expirable.LRU has no ContainsOrAdd, so the
// check-then-add of Put is guarded here.
type ttlCache struct {
	mu sync.Mutex
	c  *expirable.LRU[string, apis.PackagingInfo]
}

var _ apis.Cache = (*ttlCache)(nil)

func (c *ttlCache) Get(className string) (apis.PackagingInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.Get(className)
}

func (c *ttlCache) Put(className string, info apis.PackagingInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.c.Contains(className) {
		return
	}
	c.c.Add(className, info)
}

func (c *ttlCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c.Len()
}

func (c *ttlCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.c.Purge()
}

// noCache is the pass-through cache of strategy.None.
type noCache struct{}

var _ apis.Cache = noCache{}

func (noCache) Get(string) (apis.PackagingInfo, bool) { return apis.PackagingInfo{}, false }
func (noCache) Put(string, apis.PackagingInfo) {}
func (noCache) Len() int { return 0 }
func (noCache) Clear() {}
