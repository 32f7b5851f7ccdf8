package domain

import "time"

// WeatherRecord is one decoded EPW data row.
type WeatherRecord struct {
	Timestamp     time.Time
	WindDirection float32
	WindSpeed     float32
}

// Columns is the columnar form of a record set. The three slices are
// parallel and never nil, so an empty parse still carries the schema.
type Columns struct {
	TS        []time.Time `json:"ts"`
	WindDir   []float32   `json:"wind_dir"`
	WindSpeed []float32   `json:"wind_speed"`
}

// NewColumns materializes records into parallel columns.
func NewColumns(records []WeatherRecord) Columns {
	cols := Columns{
		TS:        make([]time.Time, len(records)),
		WindDir:   make([]float32, len(records)),
		WindSpeed: make([]float32, len(records)),
	}
	for i, r := range records {
		cols.TS[i] = r.Timestamp
		cols.WindDir[i] = r.WindDirection
		cols.WindSpeed[i] = r.WindSpeed
	}
	return cols
}

// Len returns the number of rows.
func (c Columns) Len() int {
	return len(c.TS)
}

// Records converts the columns back to row form.
func (c Columns) Records() []WeatherRecord {
	records := make([]WeatherRecord, c.Len())
	for i := range records {
		records[i] = WeatherRecord{
			Timestamp:     c.TS[i],
			WindDirection: c.WindDir[i],
			WindSpeed:     c.WindSpeed[i],
		}
	}
	return records
}

// Preview keeps the first firstN and the last lastN rows. Rows are never
// duplicated when the two windows overlap; negative counts act as zero.
func Preview(c Columns, firstN, lastN int) Columns {
	n := c.Len()
	head := clamp(firstN, 0, n)
	tailStart := n - clamp(lastN, 0, n-head)

	pick := func(i int) bool { return i < head || i >= tailStart }
	out := Columns{
		TS:        make([]time.Time, 0, head+n-tailStart),
		WindDir:   make([]float32, 0, head+n-tailStart),
		WindSpeed: make([]float32, 0, head+n-tailStart),
	}
	for i := range n {
		if !pick(i) {
			continue
		}
		out.TS = append(out.TS, c.TS[i])
		out.WindDir = append(out.WindDir, c.WindDir[i])
		out.WindSpeed = append(out.WindSpeed, c.WindSpeed[i])
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
