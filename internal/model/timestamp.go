package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are the wire formats accepted for timestamps, tried in
// order. The backend serializes Java LocalDateTime values, which omit the
// zone offset that RFC 3339 requires.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// Timestamp is a time.Time that tolerates the backend's zone-less
// ISO-8601 serialization on the way in and writes RFC 3339 on the way out.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses a JSON string against the accepted layouts.
// Null and the empty string decode to the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("parsing timestamp %q: unrecognized format", s)
}

// MarshalJSON writes the timestamp as an RFC 3339 JSON string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

// Value implements driver.Valuer so Timestamp columns round-trip through
// the sqlite driver as plain time values.
func (t Timestamp) Value() (driver.Value, error) {
	return t.Time, nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v
		return nil
	case string:
		for _, layout := range append([]string{time.DateTime}, timestampLayouts...) {
			parsed, err := time.Parse(layout, v)
			if err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("scanning timestamp %q: unrecognized format", v)
	case []byte:
		return t.Scan(string(v))
	default:
		return fmt.Errorf("scanning timestamp: unsupported type %T", src)
	}
}
