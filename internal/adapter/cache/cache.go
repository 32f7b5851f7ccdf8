package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"slices"
	"sync"

	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/couchcryptid/epw-etl/internal/observability"
)

// CachedParser wraps a domain.Parser with an in-memory LRU cache keyed by
// buffer content and line cap.
type CachedParser struct {
	inner   domain.Parser
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedParser creates a cache decorator around a parser.
func NewCachedParser(inner domain.Parser, maxEntries int, metrics *observability.Metrics) *CachedParser {
	return &CachedParser{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedParser) Parse(buf []byte, maxLines int) ([]domain.WeatherRecord, error) {
	key := cacheKey(buf, maxLines)
	if res, ok := c.cache.get(key); ok {
		c.metrics.ParseCache.WithLabelValues("hit").Inc()
		return res.output()
	}
	c.metrics.ParseCache.WithLabelValues("miss").Inc()

	records, err := c.inner.Parse(buf, maxLines)
	if err != nil {
		// Parse errors are as deterministic as successes; anything else may be transient.
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			c.cache.put(key, result{err: perr})
		}
		return nil, err
	}
	c.cache.put(key, result{records: slices.Clone(records)})
	return records, nil
}

// Len reports the number of cached entries.
func (c *CachedParser) Len() int {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	return len(c.cache.entries)
}

type key [sha256.Size]byte

func cacheKey(buf []byte, maxLines int) key {
	h := sha256.New()
	var capBytes [8]byte
	binary.BigEndian.PutUint64(capBytes[:], uint64(int64(maxLines)))
	h.Write(capBytes[:])
	h.Write(buf)

	var k key
	h.Sum(k[:0])
	return k
}

type result struct {
	records []domain.WeatherRecord
	err     *domain.ParseError
}

// output hands out copies so callers cannot mutate cached state.
func (r result) output() ([]domain.WeatherRecord, error) {
	if r.err != nil {
		perr := *r.err
		return nil, &perr
	}
	return slices.Clone(r.records), nil
}

// lruCache is a simple thread-safe LRU cache for parse results.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[key]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   key
	value result
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[key]*entry),
	}
}

func (c *lruCache) get(k key) (result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return result{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(k key, value result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[k]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: k, value: value}
	c.entries[k] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
