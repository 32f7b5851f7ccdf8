package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// DatasetNamespace seeds the name-based dataset IDs.
var DatasetNamespace = uuid.MustParse("6f1c2a8e-5d0b-4b7e-9a43-2f0c1e7d9b51")

// SourceHeader names the message header consulted when the key is empty.
const SourceHeader = "source"

// ParseRawEvent parses the EPW file carried by raw into a Dataset.
// A *ParseError is returned wrapped, so errors.As still finds it.
func ParseRawEvent(raw RawEvent, maxLines int) (Dataset, error) {
	records, err := Parse(raw.Value, maxLines)
	if err != nil {
		return Dataset{}, fmt.Errorf("parse epw %q: %w", sourceOf(raw), err)
	}

	return Dataset{
		ID:          DatasetID(raw.Value),
		Source:      sourceOf(raw),
		RecordCount: len(records),
		Columns:     NewColumns(records),
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// DatasetID derives a deterministic ID from the file content, so replaying
// the same file yields the same ID.
func DatasetID(content []byte) string {
	return uuid.NewSHA1(DatasetNamespace, content).String()
}

func sourceOf(raw RawEvent) string {
	if len(raw.Key) > 0 {
		return string(raw.Key)
	}
	return raw.Headers[SourceHeader]
}
