// Package domain models EnergyPlus Weather (EPW) wind series.
//
// # Data Source
//
// EPW files are published per weather station by climate.onebuilding.org
// and the EnergyPlus project. Each file is plain text: a fixed block of
// header lines followed by one comma-separated row per hour of a typical
// (or actual) meteorological year. The upstream collector publishes each
// whole file as a single message on the source topic.
//
// # EPW Conventions
//
// Header block:
//
//	Eight lines: LOCATION, DESIGN CONDITIONS, TYPICAL/EXTREME PERIODS,
//	GROUND TEMPERATURES, HOLIDAYS/DAYLIGHT SAVINGS, COMMENTS 1, COMMENTS 2,
//	DATA PERIODS. They are skipped by position; their content is never read.
//
// Data rows (1-based column positions actually consumed):
//
//	1 Year, 2 Month, 3 Day, 4 Hour, 5 Minute, ... 21 Wind Direction (degrees),
//	22 Wind Speed (m/s). The remaining columns (dry bulb, radiation, ...) are
//	ignored and never validated.
//
// Hour encoding:
//
//	Hours run 1..24, where hour 1 covers 00:00-01:00. Stored timestamps use
//	0..23, i.e. raw hour minus one. "2014,1,2,3,4" becomes 2014-01-02T02:04.
//
// Timestamps:
//
//	EPW times are local standard time without a zone. They are carried as
//	UTC wall-clock values so that no zone conversion shifts them.
//
// # Errors
//
// A parse either yields every record of the file or exactly one *ParseError
// naming the first offending line and column, e.g.
//
//	Missing column `Wind direction` at line no. 9
//	Cannot parse column `Year` at line no. 9
package domain
