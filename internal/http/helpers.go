package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"spendwise/internal/core"
)

// sanitizeInput removes control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// queryInt reads a positive integer parameter, falling back to def when
// absent and rejecting values outside 1..max.
func queryInt(q url.Values, key string, def, max int) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > max {
		return 0, fmt.Errorf("%s must be a number between 1 and %d", key, max)
	}
	return n, nil
}

// queryType reads the type parameter, falling back to def when absent.
func queryType(q url.Values, def core.Type) (core.Type, error) {
	v := q.Get("type")
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	return core.ParseType(v)
}

// queryMonth reads month=YYYY-MM, defaulting to now's month.
func queryMonth(q url.Values, now time.Time) (int, time.Month, error) {
	v := strings.TrimSpace(q.Get("month"))
	if v == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be formatted as YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction id %q", s)
	}
	return id, nil
}
