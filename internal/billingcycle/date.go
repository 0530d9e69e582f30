package billingcycle

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// Date is a calendar date without time of day or location.
//
// A Date produced by DueDate is not clamped to the length of its month, so it can
// name a day that does not exist (2025-11-31). String renders such values verbatim;
// Time normalises them the way time.Date does.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD). The date component alone is
// authoritative: no timezone conversion is applied.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Time returns midnight UTC of d. Out-of-range days roll into the next month.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Normalized returns the calendar day d actually falls on, e.g. 2025-11-31 is 2025-12-01.
func (d Date) Normalized() Date {
	return DateOf(d.Time())
}

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}

	return d.Day <= daysIn(d.Year, d.Month)
}

// Compare returns -1, 0 or +1. The order matches the lexicographic order of the
// String forms, including for unclamped days.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// AddDays moves d by n days, normalising first.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Month identifies a monthly invoice. It always renders as the first day of the month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth accepts YYYY-MM-DD (the day is ignored) or YYYY-MM.
func ParseMonth(s string) (Month, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return MonthOf(t), nil
	}

	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("parsing month %q: %w", s, err)
	}

	return MonthOf(t), nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d-01", m.Year, int(m.Month))
}

// Key returns the YYYY-MM form used in URLs.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Next() Month {
	return m.AddMonths(1)
}

// AddMonths moves m by n calendar months, carrying into the year in both directions.
func (m Month) AddMonths(n int) Month {
	idx := m.Year*12 + int(m.Month) - 1 + n
	y := idx / 12
	mo := idx % 12

	if mo < 0 {
		mo += 12
		y--
	}

	return Month{Year: y, Month: time.Month(mo + 1)}
}

func (m Month) Compare(o Month) int {
	if m.Year != o.Year {
		return cmpInt(m.Year, o.Year)
	}

	return cmpInt(int(m.Month), int(o.Month))
}

// Day returns day d of m without clamping.
func (m Month) Day(d int) Date {
	return Date{Year: m.Year, Month: m.Month, Day: d}
}

func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}
