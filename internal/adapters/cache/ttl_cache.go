package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlCacheEntry[T any] struct {
	data  T
	valid bool
}

type ttlCache[T any] struct {
	cache *ttlcache.Cache[string, ttlCacheEntry[T]]
}

func (c *ttlCache[T]) Get(key string) (T, bool) {
	item := c.cache.Get(key)
	if item == nil || !item.Value().valid {
		var empty T
		return empty, false
	}
	return item.Value().data, true
}

func (c *ttlCache[T]) Delete(key string) {
	c.cache.Delete(key)
}

func (c *ttlCache[T]) getOrClaim(key string) hitResult[T] {
	invalid := ttlCacheEntry[T]{valid: false}
	item, existed := c.cache.GetOrSet(key, invalid)

	return hitResult[T]{
		data:    item.Value().data,
		valid:   item.Value().valid,
		claimed: !existed,
	}
}

func (c *ttlCache[T]) set(key string, data T) {
	c.cache.Set(key, ttlCacheEntry[T]{data: data, valid: true}, ttlcache.DefaultTTL)
}

func (c *ttlCache[T]) wait() {
	time.Sleep(50 * time.Millisecond)
}

// Entries expire ttl after they were set, regardless of reads
func NewTTLCache[T any](ttl time.Duration) *ttlCache[T] {
	cache := ttlcache.New[string, ttlCacheEntry[T]](
		ttlcache.WithTTL[string, ttlCacheEntry[T]](ttl),
		ttlcache.WithDisableTouchOnHit[string, ttlCacheEntry[T]](),
	)
	go cache.Start()
	return &ttlCache[T]{cache: cache}
}

// Entries expire after being idle for ttl. onExpire is called with the key of expired entries
func NewSlidingTTLCache[T any](ttl time.Duration, onExpire func(key string)) *ttlCache[T] {
	cache := ttlcache.New[string, ttlCacheEntry[T]](
		ttlcache.WithTTL[string, ttlCacheEntry[T]](ttl),
	)
	if onExpire != nil {
		cache.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, ttlCacheEntry[T]]) {
			if reason == ttlcache.EvictionReasonExpired {
				onExpire(item.Key())
			}
		})
	}
	go cache.Start()
	return &ttlCache[T]{cache: cache}
}
