package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// record is an upstream availability object with lazily decoded fields.
// Every accessor returns the zero value when the field is missing, null or of
// an unexpected type.
type record map[string]json.RawMessage

func (r record) has(key string) bool {
	v, ok := r[key]
	return ok && string(v) != "null"
}

func (r record) str(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

// num accepts JSON numbers and numeric strings such as "60000" or "60,000".
// Non-finite strings ("NaN", "Inf") read as 0.
func (r record) num(key string) float64 {
	v, ok := r[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return finite(f)
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
		if err == nil {
			return finite(f)
		}
	}
	return 0
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func (r record) int(key string) int {
	return int(math.Round(r.num(key)))
}

func (r record) bool(key string) bool {
	v, ok := r[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return b
	}
	switch strings.ToLower(r.str(key)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func (r record) obj(key string) record {
	var out record
	if v, ok := r[key]; ok {
		_ = json.Unmarshal(v, &out)
	}
	return out
}

func (r record) list(key string) []record {
	var out []record
	if v, ok := r[key]; ok {
		_ = json.Unmarshal(v, &out)
	}
	return out
}

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (r record) time(key string) time.Time {
	return parseTime(r.str(key))
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
