// Package archive stores parsed datasets in an embedded pebble store.
// Keys are KSUIDs, so iteration order follows write time (to the second).
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/couchcryptid/epw-etl/internal/domain"
	"github.com/couchcryptid/epw-etl/internal/observability"
	"github.com/segmentio/ksuid"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("dataset not found")

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("archive closed")

// Entry is one archived dataset and its key.
type Entry struct {
	Key     ksuid.KSUID
	Dataset domain.Dataset
}

// Archive implements pipeline.BatchLoader on top of pebble.
// It is safe for concurrent use; operations racing Close return ErrClosed.
type Archive struct {
	mu      sync.RWMutex
	closed  bool
	db      *pebble.DB
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Open opens (or creates) the archive under dir.
func Open(dir string, logger *slog.Logger, metrics *observability.Metrics) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dir, err)
	}
	return &Archive{db: db, logger: logger, metrics: metrics}, nil
}

// LoadBatch writes every dataset in one synced pebble batch.
func (a *Archive) LoadBatch(ctx context.Context, datasets []domain.Dataset) error {
	if len(datasets) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	b := a.db.NewBatch()
	defer b.Close()

	for i := range datasets {
		data, err := json.Marshal(datasets[i])
		if err != nil {
			return fmt.Errorf("serialize dataset %s: %w", datasets[i].ID, err)
		}
		key := ksuid.New()
		if err := b.Set(key.Bytes(), data, nil); err != nil {
			return fmt.Errorf("stage dataset %s: %w", datasets[i].ID, err)
		}
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit archive batch: %w", err)
	}

	a.metrics.ArchiveWrites.Add(float64(len(datasets)))
	a.logger.Debug("archived datasets", "count", len(datasets))
	return nil
}

// Get reads one archived dataset.
func (a *Archive) Get(key ksuid.KSUID) (domain.Dataset, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return domain.Dataset{}, ErrClosed
	}

	data, closer, err := a.db.Get(key.Bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return domain.Dataset{}, ErrNotFound
	}
	if err != nil {
		return domain.Dataset{}, err
	}
	defer closer.Close()

	var ds domain.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("decode dataset %s: %w", key, err)
	}
	return ds, nil
}

// List returns up to limit entries in key order. limit <= 0 returns all.
func (a *Archive) List(limit int) ([]Entry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, ErrClosed
	}

	iter, err := a.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		key, err := ksuid.FromBytes(iter.Key())
		if err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
		var ds domain.Dataset
		if err := json.Unmarshal(iter.Value(), &ds); err != nil {
			return nil, fmt.Errorf("decode dataset %s: %w", key, err)
		}
		out = append(out, Entry{Key: key, Dataset: ds})
	}
	return out, iter.Error()
}

// Close waits for in-flight operations and closes the store. Repeated calls
// return nil.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	return a.db.Close()
}
