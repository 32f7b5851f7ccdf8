package domain

// FieldKind is the numeric type a column decodes to.
type FieldKind int

const (
	KindInteger FieldKind = iota
	KindFloat
)

func (k FieldKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	default:
		return "unknown"
	}
}

// FieldSpec describes one consumed column of an EPW data row.
type FieldSpec struct {
	Index int    // 1-based column position
	Name  string // display name used in errors
	Kind  FieldKind
}

// Positions into Fields, in decode order.
const (
	fieldYear = iota
	fieldMonth
	fieldDay
	fieldHour
	fieldMinute
	fieldWindDirection
	fieldWindSpeed
)

// Fields lists the consumed columns in the order they are checked.
// The first absent or unparsable entry decides which error a row reports.
var Fields = [...]FieldSpec{
	fieldYear:          {Index: 1, Name: "Year", Kind: KindInteger},
	fieldMonth:         {Index: 2, Name: "Month", Kind: KindInteger},
	fieldDay:           {Index: 3, Name: "Day", Kind: KindInteger},
	fieldHour:          {Index: 4, Name: "Hour", Kind: KindInteger},
	fieldMinute:        {Index: 5, Name: "Minute", Kind: KindInteger},
	fieldWindDirection: {Index: 21, Name: "Wind direction", Kind: KindFloat},
	fieldWindSpeed:     {Index: 22, Name: "Wind speed", Kind: KindFloat},
}
