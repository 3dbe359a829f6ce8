package configinfra

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func toBool(x interface{}) (bool, bool) {
	switch t := x.(type) {
	case bool:
		return t, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b, true
		}
	}
	return false, false
}

// toDuration accepts Go duration strings; bare numbers are seconds.
func toDuration(x interface{}) (time.Duration, bool) {
	switch t := x.(type) {
	case time.Duration:
		return t, true
	case int:
		return time.Duration(t) * time.Second, true
	case int64:
		return time.Duration(t) * time.Second, true
	case float64:
		return time.Duration(t * float64(time.Second)), true
	case string:
		s := strings.TrimSpace(t)
		if d, err := time.ParseDuration(s); err == nil {
			return d, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.Duration(f * float64(time.Second)), true
		}
	}
	return 0, false
}

// toStringSlice accepts lists or comma-separated strings
func toStringSlice(x interface{}) ([]string, bool) {
	switch t := x.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, v := range t {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		return splitList(t), true
	}
	return nil, false
}

// toCommand accepts an argv list or a whitespace-separated command line
func toCommand(x interface{}) ([]string, bool) {
	if s, ok := x.(string); ok {
		return strings.Fields(s), true
	}
	return toStringSlice(x)
}

func toString(x interface{}) (string, bool) {
	switch t := x.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	}
	return "", false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
