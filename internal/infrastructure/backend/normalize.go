package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The backend is loose about types: numbers arrive as strings, ids as
// integers, and optional fields as null. The types below absorb that at the
// boundary so the domain only ever sees clean values.

// flexString accepts a string, a number, or null
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		// Nested objects (e.g. an expanded category) are reduced to their id.
		var obj struct {
			ID flexString `json:"id"`
		}
		if data[0] == '{' && json.Unmarshal(data, &obj) == nil {
			*f = obj.ID
			return nil
		}
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(string(data), `"`))
	return nil
}

func (f flexString) String() string {
	return string(f)
}

// flexDecimal accepts a number, a numeric string, or null. Anything that
// does not parse is zero.
type flexDecimal struct {
	decimal.Decimal
	set bool
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	f.Decimal, f.set = decimal.Zero, false
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	f.Decimal, f.set = d, true
	return nil
}

// truthy mirrors how the backend's own clients read optional numbers: a
// missing, null or zero value falls through to the next candidate.
func (f flexDecimal) truthy() bool {
	return f.set && !f.Decimal.IsZero()
}

// firstDecimal returns the first truthy candidate, or zero
func firstDecimal(candidates ...flexDecimal) decimal.Decimal {
	for _, c := range candidates {
		if c.truthy() {
			return c.Decimal
		}
	}
	return decimal.Zero
}

// flexBool accepts true/false, 0/1, "true"/"false", or null (unset)
type flexBool struct {
	value bool
	set   bool
}

func (f *flexBool) UnmarshalJSON(data []byte) error {
	f.value, f.set = false, false
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(s))
	if err != nil {
		return nil
	}
	f.value, f.set = b, true
	return nil
}

// isFalse reports an explicit false
func (f flexBool) isFalse() bool {
	return f.set && !f.value
}

// flexTime accepts RFC 3339 timestamps with or without fractional seconds,
// plain dates, or null.
type flexTime struct {
	time.Time
	set bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	f.Time, f.set = time.Time{}, false
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time, f.set = t, true
			return nil
		}
	}
	return nil
}

func (f flexTime) ptr() *time.Time {
	if !f.set {
		return nil
	}
	t := f.Time
	return &t
}

// orDefault returns s, or def when s is blank
func orDefault(s flexString, def string) string {
	if strings.TrimSpace(string(s)) == "" {
		return def
	}
	return string(s)
}

func stockFromDecimal(d decimal.Decimal) int {
	return int(d.IntPart())
}
