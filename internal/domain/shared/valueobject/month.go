package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MonthLayout is the textual token format for billing months
const MonthLayout = "2006-01"

// Month is a value object representing a calendar month (the YYYY-MM token
// used throughout the billing and payout surface)
type Month struct {
	year  int
	month time.Month
}

// ParseMonth parses a YYYY-MM token into a Month
func ParseMonth(token string) (Month, error) {
	t, err := time.Parse(MonthLayout, token)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month token %q: %w", token, err)
	}
	return Month{year: t.Year(), month: t.Month()}, nil
}

// MonthOf returns the Month containing the given time
func MonthOf(t time.Time) Month {
	return Month{year: t.Year(), month: t.Month()}
}

// IsZero returns true for the zero Month
func (m Month) IsZero() bool {
	return m.year == 0
}

// String returns the YYYY-MM token
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// Start returns the first instant of the month
func (m Month) Start() time.Time {
	return time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the month
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Next returns the following month
func (m Month) Next() Month {
	t := m.Start().AddDate(0, 1, 0)
	return Month{year: t.Year(), month: t.Month()}
}

// Prev returns the preceding month
func (m Month) Prev() Month {
	t := m.Start().AddDate(0, -1, 0)
	return Month{year: t.Year(), month: t.Month()}
}

// Before reports whether m is strictly earlier than other
func (m Month) Before(other Month) bool {
	if m.year != other.year {
		return m.year < other.year
	}
	return m.month < other.month
}

// Equal reports whether two months are the same
func (m Month) Equal(other Month) bool {
	return m.year == other.year && m.month == other.month
}

// Contains reports whether the given time falls inside the month
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.year && t.Month() == m.month
}

// MarshalJSON serializes the month as its token
func (m Month) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a YYYY-MM token
func (m *Month) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer so Month can be stored as a char(7) column
func (m Month) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner to read Month from a char(7) column
func (m *Month) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*m = Month{}
		return nil
	default:
		return errors.New("failed to scan Month: unsupported type")
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
