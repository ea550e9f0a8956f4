package util

import (
	"container/list"
	"sync"
)

type (
	// LRUCache holds at most maxSize values, constructing missing values on
	// demand and handing evicted values to an optional hook
	LRUCache[T any] struct {
		cache   map[string]*list.Element
		lru     *list.List
		onEvict EvictFunc[T]
		maxSize int
		mu      sync.RWMutex
	}

	Constructor[T any] func() (T, error)

	// EvictFunc is called with a value after it leaves the cache
	EvictFunc[T any] func(key string, value T)

	cacheEntry[T any] struct {
		value T
		key   string
	}
)

func NewLRUCache[T any](maxSize int) *LRUCache[T] {
	return NewLRUCacheWithEvict[T](maxSize, nil)
}

func NewLRUCacheWithEvict[T any](
	maxSize int, onEvict EvictFunc[T],
) *LRUCache[T] {
	return &LRUCache[T]{
		cache:   map[string]*list.Element{},
		lru:     list.New(),
		maxSize: maxSize,
		onEvict: onEvict,
	}
}

func (c *LRUCache[T]) Get(key string, create Constructor[T]) (T, error) {
	c.mu.Lock()
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		c.mu.Unlock()
		return elem.Value.(*cacheEntry[T]).value, nil
	}
	c.mu.Unlock()

	value, err := create()
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		c.mu.Unlock()
		c.evicted(key, value)
		return elem.Value.(*cacheEntry[T]).value, nil
	}

	entry := &cacheEntry[T]{key: key, value: value}
	c.cache[key] = c.lru.PushFront(entry)

	var dropped *cacheEntry[T]
	if c.lru.Len() > c.maxSize {
		dropped = c.evictLast()
	}
	c.mu.Unlock()

	if dropped != nil {
		c.evicted(dropped.key, dropped.value)
	}
	return value, nil
}

// Peek returns a cached value without constructing or promoting it
func (c *LRUCache[T]) Peek(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if elem, ok := c.cache[key]; ok {
		return elem.Value.(*cacheEntry[T]).value, true
	}
	var zero T
	return zero, false
}

// Remove drops a value from the cache, handing it to the eviction hook
func (c *LRUCache[T]) Remove(key string) bool {
	c.mu.Lock()
	elem, ok := c.cache[key]
	if ok {
		c.lru.Remove(elem)
		delete(c.cache, key)
	}
	c.mu.Unlock()

	if ok {
		entry := elem.Value.(*cacheEntry[T])
		c.evicted(entry.key, entry.value)
	}
	return ok
}

// Purge drops every value, handing each to the eviction hook
func (c *LRUCache[T]) Purge() {
	c.mu.Lock()
	entries := make([]*cacheEntry[T], 0, c.lru.Len())
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		entries = append(entries, elem.Value.(*cacheEntry[T]))
	}
	c.cache = map[string]*list.Element{}
	c.lru.Init()
	c.mu.Unlock()

	for _, entry := range entries {
		c.evicted(entry.key, entry.value)
	}
}

// Len returns the number of cached values
func (c *LRUCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru.Len()
}

func (c *LRUCache[T]) evictLast() *cacheEntry[T] {
	back := c.lru.Back()
	if back == nil {
		return nil
	}
	c.lru.Remove(back)
	backEntry := back.Value.(*cacheEntry[T])
	delete(c.cache, backEntry.key)
	return backEntry
}

func (c *LRUCache[T]) evicted(key string, value T) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}
