package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the wire format for every timestamp the app exposes,
// in JSON responses and rendered pages alike.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp wraps time.Time so that JSON and template output use TimeLayout
// instead of RFC 3339.
type Timestamp struct {
	time.Time
}

func Now() Timestamp {
	return Timestamp{time.Now()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(TimeLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) String() string {
	return t.Format(TimeLayout)
}

// Scan implements sql.Scanner so repos can scan created_at columns directly.
func (t *Timestamp) Scan(v interface{}) error {
	switch val := v.(type) {
	case time.Time:
		t.Time = val
		return nil
	case []byte:
		return t.parse(string(val))
	case string:
		return t.parse(val)
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("timestamp: cannot scan %T", v)
	}
}

func (t *Timestamp) parse(s string) error {
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("timestamp: parse %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}
