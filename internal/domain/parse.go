package domain

import (
	"bytes"
	"strconv"
	"time"
)

// HeaderLines is the number of leading lines skipped by position.
const HeaderLines = 8

// hourlyRowsPerYear bounds the preallocation (five years of hourly rows).
const hourlyRowsPerYear = 8760

// Parser decodes a whole EPW buffer. maxLines caps the physical lines
// considered (header included); NoLineLimit disables the cap.
type Parser interface {
	Parse(buf []byte, maxLines int) ([]WeatherRecord, error)
}

// EPWParser is the direct Parser implementation.
type EPWParser struct{}

func (EPWParser) Parse(buf []byte, maxLines int) ([]WeatherRecord, error) {
	return Parse(buf, maxLines)
}

// Parse decodes every data row of buf. It returns either all records, in
// line order, or the first *ParseError; never both.
func Parse(buf []byte, maxLines int) ([]WeatherRecord, error) {
	records := make([]WeatherRecord, 0, estimateRows(buf, maxLines))

	s := NewLineScanner(buf, maxLines)
	for s.Scan() {
		line := s.Line()
		if line.No <= HeaderLines {
			continue
		}
		rec, err := decodeRow(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func estimateRows(buf []byte, maxLines int) int {
	lines := bytes.Count(buf, []byte{'\n'}) + 1
	if maxLines >= 0 {
		lines = min(lines, maxLines)
	}
	return min(max(lines-HeaderLines, 0), hourlyRowsPerYear*5)
}

// decodeRow checks Fields in declaration order and builds the record.
// The timestamp is validated only once every field has converted, so a
// short row with an impossible date reports the first missing column.
func decodeRow(line RawLine) (WeatherRecord, error) {
	cols := bytes.Split(line.Bytes, []byte{','})

	var ints [fieldMinute + 1]int
	var floats [2]float32
	for i, f := range Fields {
		if len(cols) < f.Index {
			return WeatherRecord{}, &ParseError{Kind: MissingColumn, Column: f.Name, LineNo: line.No}
		}
		raw := cols[f.Index-1]

		var ok bool
		switch f.Kind {
		case KindInteger:
			ints[i], ok = parseInt(raw)
		case KindFloat:
			floats[i-fieldWindDirection], ok = parseFloat(raw)
		}
		if !ok {
			return WeatherRecord{}, &ParseError{Kind: UnparsableColumn, Column: f.Name, LineNo: line.No}
		}
	}

	ts, ok := composeTimestamp(ints[fieldYear], ints[fieldMonth], ints[fieldDay], ints[fieldHour], ints[fieldMinute])
	if !ok {
		return WeatherRecord{}, &ParseError{Kind: InvalidTimestamp, LineNo: line.No}
	}

	return WeatherRecord{
		Timestamp:     ts,
		WindDirection: floats[0],
		WindSpeed:     floats[1],
	}, nil
}

// composeTimestamp applies the 1..24 hour convention and rejects values
// that time.Date would otherwise normalize into a different instant.
func composeTimestamp(year, month, day, hour, minute int) (time.Time, bool) {
	if month < 1 || month > 12 || hour < 1 || hour > 24 || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	ts := time.Date(year, time.Month(month), day, hour-1, minute, 0, 0, time.UTC)
	if ts.Year() != year || ts.Day() != day || ts.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return ts, true
}

func parseInt(b []byte) (int, bool) {
	v, err := strconv.ParseInt(string(b), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// parseFloat accepts plain decimal notation only: an optional sign, digits,
// an optional fraction and exponent. Hex floats and digit separators, which
// strconv would take, are rejected. So are inf, NaN and values outside the
// float32 range, which keeps every parsed value finite and JSON-encodable.
func parseFloat(b []byte) (float32, bool) {
	if !isDecimal(b) {
		return 0, false
	}
	v, err := strconv.ParseFloat(string(b), 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func isDecimal(b []byte) bool {
	i := 0
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(b) && isDigit(b[i]); i++ {
		digits++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for ; i < len(b) && isDigit(b[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		i++
		if i < len(b) && (b[i] == '+' || b[i] == '-') {
			i++
		}
		exp := 0
		for ; i < len(b) && isDigit(b[i]); i++ {
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
