// models/jsondate.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONDate wraps time.Time for calendar-date fields so we can control
// both JSON un/marshaling and SQL driver encoding. Dates travel as
// "2006-01-02" over JSON and as DATE columns in the database.
type JSONDate time.Time

const dateLayout = "2006-01-02"

// UnmarshalJSON accepts a plain date ("2026-01-15") or a full RFC3339
// timestamp, of which only the date part is kept.
func (jd *JSONDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if t, err := time.Parse(dateLayout, s); err == nil {
		*jd = JSONDate(t)
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("JSONDate.UnmarshalJSON: cannot parse %q: %w", s, err)
	}
	*jd = JSONDate(t.Truncate(24 * time.Hour))
	return nil
}

func (jd JSONDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(jd).Format(dateLayout))
}

// Value implements driver.Valuer so GORM can bind JSONDate as a
// SQL DATE parameter.
func (jd JSONDate) Value() (driver.Value, error) {
	return time.Time(jd), nil
}

// Scan implements sql.Scanner so GORM can read DATE columns back
// into JSONDate when querying.
func (jd *JSONDate) Scan(src interface{}) error {
	if src == nil {
		*jd = JSONDate(time.Time{})
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*jd = JSONDate(v)
		return nil
	case []byte:
		return jd.scanString(string(v))
	case string:
		return jd.scanString(v)
	default:
		return fmt.Errorf("JSONDate.Scan: unsupported type %T", src)
	}
}

func (jd *JSONDate) scanString(s string) error {
	if t, err := time.Parse(dateLayout, s); err == nil {
		*jd = JSONDate(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("JSONDate.Scan: parse %q: %w", s, err)
	}
	*jd = JSONDate(t)
	return nil
}

// Time returns the wrapped time.Time.
func (jd JSONDate) Time() time.Time {
	return time.Time(jd)
}
