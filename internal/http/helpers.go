package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/analytics"
)

// parseDate accepts plain dates and full RFC 3339 timestamps.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// rangeParam reads the date range token. Unknown tokens are passed
// through; the analytics layer falls back to one month.
func rangeParam(r *http.Request) analytics.Range {
	v := strings.TrimSpace(r.URL.Query().Get("range"))
	if v == "" {
		return analytics.Range1Month
	}
	return analytics.Range(v)
}

// intParam reads a positive integer query parameter, or the default.
func intParam(r *http.Request, name string, def int) int {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
