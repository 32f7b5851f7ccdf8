package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/epw-etl/internal/domain"
)

// EPWTransformer implements Transformer by parsing each message value as a
// whole EPW file.
type EPWTransformer struct {
	maxLines int
	logger   *slog.Logger
}

// NewTransformer creates an EPWTransformer. maxLines caps the lines read
// from every file; pass domain.NoLineLimit to read whole files.
func NewTransformer(maxLines int, logger *slog.Logger) *EPWTransformer {
	return &EPWTransformer{
		maxLines: maxLines,
		logger:   logger,
	}
}

func (t *EPWTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.Dataset, error) {
	ds, err := domain.ParseRawEvent(raw, t.maxLines)
	if err != nil {
		return domain.Dataset{}, err
	}

	t.logger.Debug("parsed epw file",
		"dataset_id", ds.ID,
		"source", ds.Source,
		"records", ds.RecordCount,
	)
	return ds, nil
}
