package cache

import (
	"errors"
	"strings"
	"testing"

	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/couchcryptid/epw-etl/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock for cache tests ---

type countingParser struct {
	calls int
	err   error
}

func (m *countingParser) Parse(buf []byte, maxLines int) ([]domain.WeatherRecord, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return domain.Parse(buf, maxLines)
}

func epwFile(rows int) []byte {
	row := "2014,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22,23,24,25,26\n"
	return []byte(strings.Repeat("\n", domain.HeaderLines) + strings.Repeat(row, rows))
}

// --- CachedParser tests ---

func TestCachedParser_CacheHit(t *testing.T) {
	inner := &countingParser{}
	metrics := observability.NewMetricsForTesting()
	cached := NewCachedParser(inner, 10, metrics)

	r1, err := cached.Parse(epwFile(2), domain.NoLineLimit)
	require.NoError(t, err)
	r2, err := cached.Parse(epwFile(2), domain.NoLineLimit)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls, "should only call inner once")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ParseCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ParseCache.WithLabelValues("miss")), 0)
}

func TestCachedParser_LineCapIsPartOfKey(t *testing.T) {
	inner := &countingParser{}
	cached := NewCachedParser(inner, 10, observability.NewMetricsForTesting())

	full, err := cached.Parse(epwFile(3), domain.NoLineLimit)
	require.NoError(t, err)
	capped, err := cached.Parse(epwFile(3), domain.HeaderLines+1)
	require.NoError(t, err)

	assert.Len(t, full, 3)
	assert.Len(t, capped, 1)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedParser_ReturnsCopies(t *testing.T) {
	cached := NewCachedParser(&countingParser{}, 10, observability.NewMetricsForTesting())

	first, err := cached.Parse(epwFile(1), domain.NoLineLimit)
	require.NoError(t, err)
	first[0].WindSpeed = -1

	second, err := cached.Parse(epwFile(1), domain.NoLineLimit)
	require.NoError(t, err)
	assert.InDelta(t, 21.0, second[0].WindSpeed, 1e-6)
}

func TestCachedParser_CachesParseErrors(t *testing.T) {
	inner := &countingParser{}
	cached := NewCachedParser(inner, 10, observability.NewMetricsForTesting())
	bad := append(epwFile(0), "a"...)

	for range 2 {
		_, err := cached.Parse(bad, domain.NoLineLimit)
		assert.EqualError(t, err, "Cannot parse column `Year` at line no. 9")
		assert.ErrorIs(t, err, domain.ErrUnparsableColumn)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedParser_DoesNotCacheOtherErrors(t *testing.T) {
	inner := &countingParser{err: errors.New("transient")}
	cached := NewCachedParser(inner, 10, observability.NewMetricsForTesting())

	for range 2 {
		_, err := cached.Parse(epwFile(1), domain.NoLineLimit)
		require.Error(t, err)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedParser_EmptyResultStaysNonNil(t *testing.T) {
	cached := NewCachedParser(&countingParser{}, 10, observability.NewMetricsForTesting())

	for range 2 {
		records, err := cached.Parse(nil, domain.NoLineLimit)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	}
}

// --- LRU tests ---

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	k1, k2, k3 := cacheKey([]byte("1"), -1), cacheKey([]byte("2"), -1), cacheKey([]byte("3"), -1)

	c.put(k1, result{})
	c.put(k2, result{})
	c.put(k3, result{}) // evicts k1

	_, ok := c.get(k1)
	assert.False(t, ok, "k1 should be evicted")
	_, ok = c.get(k2)
	assert.True(t, ok)
	_, ok = c.get(k3)
	assert.True(t, ok)
}

func TestLRUCache_AccessPromotes(t *testing.T) {
	c := newLRUCache(2)
	k1, k2, k3 := cacheKey([]byte("1"), -1), cacheKey([]byte("2"), -1), cacheKey([]byte("3"), -1)

	c.put(k1, result{})
	c.put(k2, result{})
	c.get(k1)           // promote k1
	c.put(k3, result{}) // evicts k2

	_, ok := c.get(k1)
	assert.True(t, ok, "k1 was promoted")
	_, ok = c.get(k2)
	assert.False(t, ok, "k2 should be evicted")
}

func TestCacheKey_DistinguishesCap(t *testing.T) {
	buf := []byte("same")
	assert.NotEqual(t, cacheKey(buf, -1), cacheKey(buf, 0))
	assert.Equal(t, cacheKey(buf, 9), cacheKey(buf, 9))
}
