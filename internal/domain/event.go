package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
// Value holds a whole EPW file.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Dataset is the parsed form of one EPW file.
type Dataset struct {
	ID          string    `json:"id"`
	Source      string    `json:"source,omitempty"`
	RecordCount int       `json:"record_count"`
	Columns     Columns   `json:"columns"`
	ProcessedAt time.Time `json:"processed_at"`
}
