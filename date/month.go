package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the canonical representation of a calendar month.
const MonthFormat = "2006-01"

// Month identifies a calendar month (year + month), the granularity at
// which envelope budgets are kept.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	// Normalize through time.Date so that month 13 wraps to January.
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{y: t.Year(), m: t.Month()}
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month { return d.Month() }

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(str string) (Month, error) {
	t, err := time.Parse(MonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return Month{y: t.Year(), m: t.Month()}, nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	m, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Year returns the year of the month.
func (m Month) Year() int { return m.y }

// Prev returns the previous calendar month.
func (m Month) Prev() Month { return NewMonth(m.y, m.m-1) }

// Next returns the next calendar month.
func (m Month) Next() Month { return NewMonth(m.y, m.m+1) }

// Start returns the first day of the month.
func (m Month) Start() Date { return New(m.y, m.m, 1) }

// End returns the last day of the month.
func (m Month) End() Date { return New(m.y, m.m+1, 1).Add(-1) }

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool { return d.y == m.y && d.m == m.m }

// Before reports whether m is strictly before x.
func (m Month) Before(x Month) bool {
	return m.y < x.y || (m.y == x.y && m.m < x.m)
}

// After reports whether m is strictly after x.
func (m Month) After(x Month) bool { return x.Before(m) }

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool { return m == Month{} }

// String formats the month in its canonical "YYYY-MM" form.
func (m Month) String() string {
	return time.Date(m.y, m.m, 1, 0, 0, 0, 0, time.UTC).Format(MonthFormat)
}

func (m *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) {
	str := m.String()
	return json.Marshal(&str)
}
