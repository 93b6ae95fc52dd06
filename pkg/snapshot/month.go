package snapshot

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month identifies one calendar month of one year.
type Month struct {
	Year  int
	Month int
}

// MonthFromDate returns the calendar month containing the provided date.
func MonthFromDate(date time.Time) Month {
	return Month{Year: date.Year(), Month: int(date.Month())}
}

// MonthFromString converts the "2006-01" format to a Month.
func MonthFromString(s string) (Month, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month format: %s", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid year: %w", err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month: %w", err)
	}
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month out of range: %d", month)
	}
	return Month{Year: year, Month: month}, nil
}

// Next returns the following calendar month, wrapping December into January.
func (m Month) Next() Month {
	if m.Month == 12 {
		return Month{Year: m.Year + 1, Month: 1}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Equal returns true when both the year and month match.
func (m Month) Equal(other Month) bool {
	return m.Year == other.Year && m.Month == other.Month
}

// Before reports whether m refers to a month that occurs before other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// After reports whether m refers to a month that occurs after other.
func (m Month) After(other Month) bool {
	if m.Year != other.Year {
		return m.Year > other.Year
	}
	return m.Month > other.Month
}

// String returns the "2006-01" format.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}
