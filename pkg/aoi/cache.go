package aoi

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// FeatureCache keeps the features of recently read AOI files in memory and
// evicts the least recently used files when the memory limit is exceeded.
//
// Memory use is estimated from feature and coordinate counts.
//
// Example:
//
//	cache := aoi.NewFeatureCache(256*1024*1024, aoi.DefaultOptions())
//	features, err := cache.Features("fields.aoi")
type FeatureCache struct {
	opts Options

	mu         sync.Mutex
	maxMemory  int64
	usedMemory int64
	entries    map[string]*cacheEntry
	lru        *list.List // most recent at front
	hits       int
	misses     int
}

type cacheEntry struct {
	key          string
	features     []*Feature
	memorySize   int64
	element      *list.Element
	lastAccessed time.Time
}

// NewFeatureCache creates a cache holding at most maxMemoryBytes of
// features. 0 means unlimited. opts is used to open files on a miss.
func NewFeatureCache(maxMemoryBytes int64, opts Options) *FeatureCache {
	return &FeatureCache{
		opts:      opts,
		maxMemory: maxMemoryBytes,
		entries:   make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Features returns every feature of the AOI file at path, reading the file on
// a cache miss. Filters do not apply.
func (c *FeatureCache) Features(path string) ([]*Feature, error) {
	return c.Get(path, func() ([]*Feature, error) {
		ds, err := OpenWithOptions(path, c.opts)
		if err != nil {
			return nil, err
		}
		defer ds.Close()
		return ds.Layer().Features(), nil
	})
}

// Get returns the features cached under key, or calls loader and caches its
// result. A result too large for the cache is returned without caching.
func (c *FeatureCache) Get(key string, loader func() ([]*Feature, error)) ([]*Feature, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		entry.lastAccessed = time.Now()
		c.lru.MoveToFront(entry.element)
		c.hits++
		c.mu.Unlock()
		return entry.features, nil
	}
	c.misses++
	c.mu.Unlock()

	features, err := loader()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	_ = c.Add(key, features)
	return features, nil
}

// Add caches features under key, replacing any previous entry.
func (c *FeatureCache) Add(key string, features []*Feature) error {
	size := estimateMemory(features)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxMemory > 0 && size > c.maxMemory {
		return fmt.Errorf("%s too large for cache (%d bytes > %d bytes max)", key, size, c.maxMemory)
	}
	if entry, ok := c.entries[key]; ok {
		c.remove(entry)
	}
	if c.maxMemory > 0 {
		for c.usedMemory+size > c.maxMemory && c.lru.Len() > 0 {
			c.remove(c.lru.Back().Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{
		key:          key,
		features:     features,
		memorySize:   size,
		lastAccessed: time.Now(),
	}
	entry.element = c.lru.PushFront(entry)
	c.entries[key] = entry
	c.usedMemory += size
	return nil
}

// Must be called with c.mu held.
func (c *FeatureCache) remove(entry *cacheEntry) {
	c.lru.Remove(entry.element)
	delete(c.entries, entry.key)
	c.usedMemory -= entry.memorySize
}

// Remove drops key from the cache.
func (c *FeatureCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		c.remove(entry)
	}
}

// Clear empties the cache. Hit and miss counters are kept.
func (c *FeatureCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache statistics.
func (c *FeatureCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Entries:    len(c.entries),
		UsedMemory: c.usedMemory,
		MaxMemory:  c.maxMemory,
		Hits:       c.hits,
		Misses:     c.misses,
	}
}

// CacheStats holds cache counters.
type CacheStats struct {
	Entries    int   // files currently cached
	UsedMemory int64 // estimated bytes
	MaxMemory  int64
	Hits       int
	Misses     int
}

// estimateMemory approximates the size of features: 1KB per file, 512 bytes
// per feature and 16 bytes per coordinate pair.
func estimateMemory(features []*Feature) int64 {
	size := int64(1024)
	for _, f := range features {
		size += 512
		for _, g := range f.geometry {
			size += int64(coordCount(g)) * 16
		}
	}
	return size
}

func coordCount(g orb.Geometry) int {
	switch g := g.(type) {
	case orb.Point:
		return 1
	case orb.LineString:
		return len(g)
	case orb.Ring:
		return len(g)
	case orb.Polygon:
		n := 0
		for _, r := range g {
			n += len(r)
		}
		return n
	case orb.Collection:
		n := 0
		for _, c := range g {
			n += coordCount(c)
		}
		return n
	}
	return 0
}
