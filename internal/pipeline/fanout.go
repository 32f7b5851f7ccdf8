package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/epw-etl/internal/domain"
)

// FanOutLoader writes each batch to every loader in order and stops at the
// first failure. The pipeline then leaves the batch's offsets uncommitted.
type FanOutLoader []BatchLoader

func (f FanOutLoader) LoadBatch(ctx context.Context, datasets []domain.Dataset) error {
	for i, l := range f {
		if err := l.LoadBatch(ctx, datasets); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
