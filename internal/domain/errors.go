package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// MissingColumn: the row has too few fields to reach the column.
	MissingColumn ErrorKind = iota + 1
	// UnparsableColumn: the field exists but is not a valid number.
	UnparsableColumn
	// InvalidTimestamp: every field decoded but the date or time is out of range.
	InvalidTimestamp
)

// Sentinels matched by ParseError.Is.
var (
	ErrMissingColumn    = errors.New("missing column")
	ErrUnparsableColumn = errors.New("cannot parse column")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

func (k ErrorKind) String() string {
	switch k {
	case MissingColumn:
		return "missing_col"
	case UnparsableColumn:
		return "cannot_parse_col"
	case InvalidTimestamp:
		return "invalid_timestamp"
	default:
		return "unknown"
	}
}

// ParseError reports the first offending line of a buffer. Column is empty
// for InvalidTimestamp.
type ParseError struct {
	Kind   ErrorKind
	Column string
	LineNo int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case MissingColumn:
		return fmt.Sprintf("Missing column `%s` at line no. %d", e.Column, e.LineNo)
	case UnparsableColumn:
		return fmt.Sprintf("Cannot parse column `%s` at line no. %d", e.Column, e.LineNo)
	case InvalidTimestamp:
		return fmt.Sprintf("Invalid timestamp at line no. %d", e.LineNo)
	default:
		return fmt.Sprintf("parse error at line no. %d", e.LineNo)
	}
}

// Is lets errors.Is match a ParseError against the kind sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrMissingColumn:
		return e.Kind == MissingColumn
	case ErrUnparsableColumn:
		return e.Kind == UnparsableColumn
	case ErrInvalidTimestamp:
		return e.Kind == InvalidTimestamp
	default:
		return false
	}
}
