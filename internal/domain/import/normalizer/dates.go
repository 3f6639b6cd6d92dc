// Package normalizer converts heterogeneous raw cell values into canonical
// calendar dates. Dates arrive as spreadsheet epoch serials, ISO strings, or
// day-first delimited strings; each encoding is a strategy tried in a fixed
// order, first success wins.
package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Spreadsheet serial anchor. Common spreadsheet tools count day 1 as
// 1900-01-01 but also treat 1900 as a leap year; anchoring at 1899-12-30 and
// adding whole days reproduces their output for files in circulation, which
// is what imported files expect.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Accepted serial range: day 1 through 9999-12-31.
const (
	minSerial = 1
	maxSerial = 2958465
)

type dateStrategy func(string) (time.Time, bool)

var dateStrategies = []dateStrategy{
	parseSerial,
	parseISO,
	parseDayFirst,
}

// NormalizeDate converts a raw cell value into a timezone-naive calendar
// date. The boolean is false when no encoding matched; callers treat that as
// a validation failure, never a crash.
func NormalizeDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, parse := range dateStrategies {
		if t, ok := parse(raw); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToSerial re-encodes a calendar date as a spreadsheet serial.
func ToSerial(t time.Time) int64 {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return int64(day.Sub(serialEpoch).Hours() / 24)
}

// parseSerial interprets numeric-looking values as days since the spreadsheet
// epoch. Fractional serials carry a time-of-day component which is truncated.
func parseSerial(raw string) (time.Time, bool) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return time.Time{}, false
	}
	days := d.IntPart()
	if days < minSerial || days > maxSerial {
		return time.Time{}, false
	}
	return serialEpoch.AddDate(0, 0, int(days)), true
}

func parseISO(raw string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseDayFirst handles slash or dash delimited dates read day-first:
// 01/02/2024 is the 1st of February. Exactly three integer parts are
// required; 2-part or 4-part variants are rejected rather than guessed at.
func parseDayFirst(raw string) (time.Time, bool) {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '/' || r == '-'
	})
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (32/01 becomes 01/02); reject anything
	// that does not round-trip.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
