package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Timestamp keeps the raw value sent by the marketplace. Parsing happens on
// read so that a malformed date never breaks decoding of the whole order.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	dateOnlyLayout,
}

const dateOnlyLayout = "2006-01-02"

func (ts Timestamp) IsZero() bool {
	return ts == ""
}

// Time returns the parsed instant in UTC.
func (ts Timestamp) Time() (time.Time, bool) {
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, string(ts)); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateOnly reports whether the value carries a calendar date but no time.
func (ts Timestamp) DateOnly() bool {
	if len(ts) != len(dateOnlyLayout) {
		return false
	}
	_, err := time.Parse(dateOnlyLayout, string(ts))
	return err == nil
}

// Ptr returns the parsed instant or nil.
func (ts Timestamp) Ptr() *time.Time {
	t, ok := ts.Time()
	if !ok {
		return nil
	}
	return &t
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = Timestamp(s)
		return nil
	}
	// epoch milliseconds
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*ts = Timestamp(data)
		return nil
	}
	*ts = Timestamp(time.UnixMilli(ms).UTC().Format(time.RFC3339Nano))
	return nil
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(time.RFC3339Nano))
}
