package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to and from
// "YYYY-MM-DD" strings and is stored as a SQL date.
type Date struct {
	time.Time
}

// Today returns the current calendar date.
func Today() Date {
	return NewDate(time.Now())
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so gorm stores a date column.
func (d Date) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

// Scan implements sql.Scanner. Drivers hand back either time.Time or the raw
// date string depending on the dialect.
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		parsed, err := parseStoredDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := parseStoredDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
}

func parseStoredDate(s string) (Date, error) {
	if len(s) >= len(DateLayout) {
		if parsed, err := ParseDate(s[:len(DateLayout)]); err == nil {
			return parsed, nil
		}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse stored date %q: %w", s, err)
	}
	return NewDate(t), nil
}

// GormDataType tells gorm to create a date column.
func (Date) GormDataType() string {
	return "date"
}
