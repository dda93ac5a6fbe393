package indexer

import (
	"fmt"
	"strings"
	"time"
)

// Meta is a decoded metadata block. Values keep whatever type the YAML or
// TOML decoder produced; the accessors normalise them.
type Meta map[string]any

// String returns the first non-empty value among keys, trimmed.
func (m Meta) String(keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case []any, map[string]any:
			continue
		default:
			s = fmt.Sprint(val)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// Bool reports whether key is set to true or "true".
func (m Meta) Bool(key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// Strings returns key as a list. A scalar string becomes a one-element list.
func (m Meta) Strings(key string) []string {
	var out []string
	switch v := m[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// Time returns the first of keys present as a timestamp. found is false when
// none is set; err is non-nil when a value is set but is not a date. Values
// without a zone are read in loc (UTC if nil).
func (m Meta) Time(loc *time.Location, keys ...string) (t time.Time, found bool, err error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case time.Time:
			return fromDecoded(val, loc), true, nil
		case string:
			if strings.TrimSpace(val) == "" {
				continue
			}
			t, err := ParseDate(val, loc)
			return t, true, err
		default:
			return time.Time{}, true, fmt.Errorf("%s: unsupported date value %v", k, val)
		}
	}
	return time.Time{}, false, nil
}

// fromDecoded moves TOML local dates and datetimes into loc. The TOML decoder
// marks them with these zone names; everything else already has an offset.
func fromDecoded(t time.Time, loc *time.Location) time.Time {
	switch t.Location().String() {
	case "datetime-local", "date-local", "time-local":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
	}
	return t
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -0700 MST",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// ParseDate parses an ISO-8601-like timestamp. Strings without an offset are
// interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
