package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/epw-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("NOR_Bergen.013110"),
		Value:     []byte("LOCATION,Bergen\n"),
		Topic:     "raw-epw-files",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("onebuilding")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("NOR_Bergen.013110"), raw.Key)
	assert.Equal(t, "LOCATION,Bergen\n", string(raw.Value))
	assert.Equal(t, "raw-epw-files", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "onebuilding", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	ts := time.Date(2014, 1, 2, 2, 4, 0, 0, time.UTC)
	ds := domain.Dataset{
		ID:          "ds-1",
		Source:      "NOR_Bergen.013110",
		RecordCount: 1,
		Columns: domain.NewColumns([]domain.WeatherRecord{
			{Timestamp: ts, WindDirection: 20, WindSpeed: 21},
		}),
		ProcessedAt: now,
	}

	msg, err := serializeToMessage(ds)
	require.NoError(t, err)

	assert.Equal(t, []byte("ds-1"), msg.Key)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("NOR_Bergen.013110"), msg.Headers[0].Value)
	assert.Equal(t, "record_count", msg.Headers[1].Key)
	assert.Equal(t, []byte("1"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)

	var roundtrip domain.Dataset
	require.NoError(t, json.Unmarshal(msg.Value, &roundtrip))
	assert.Equal(t, ds.ID, roundtrip.ID)
	assert.Equal(t, []float32{20}, roundtrip.Columns.WindDir)
	assert.Equal(t, []float32{21}, roundtrip.Columns.WindSpeed)
	assert.True(t, ts.Equal(roundtrip.Columns.TS[0]))
}

func TestSerializeToMessage_EmptyDatasetKeepsColumns(t *testing.T) {
	msg, err := serializeToMessage(domain.Dataset{ID: "empty", Columns: domain.NewColumns(nil)})
	require.NoError(t, err)
	assert.Contains(t, string(msg.Value), `"columns":{"ts":[],"wind_dir":[],"wind_speed":[]}`)
}
