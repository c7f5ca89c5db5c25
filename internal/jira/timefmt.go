package jira

import (
	"strconv"
	"strings"
	"time"
)

// DefaultTimeLayout is the display layout reports use for timestamps.
const DefaultTimeLayout = "2006-01-02 15:04"

// FormatTimestamp converts a Jira ISO-8601 timestamp such as
// "2024-10-17T14:30:45.123+0000" or "2024-10-17T14:30:45-0700" to UTC
// and renders it with layout. The offset is subtracted from the naive
// local time; a timestamp without an offset is treated as UTC already.
//
// This is best-effort: empty input, the "N/A" placeholder, and anything
// that fails to parse are returned unchanged, so callers can compare
// the result against the input to detect an unparsed value.
func FormatTimestamp(raw, layout string) string {
	if raw == "" || raw == Placeholder {
		return raw
	}
	if layout == "" {
		layout = DefaultTimeLayout
	}

	naive := raw
	sign := 0 // 0 means no explicit offset
	var offset string

	if i := strings.LastIndex(raw, "+"); i >= 0 {
		naive, offset, sign = raw[:i], raw[i+1:], 1
	} else if strings.Count(raw, "-") > 2 {
		// A trailing 4-digit run after the last '-' is a negative
		// offset; anything else is part of the timestamp itself.
		i := strings.LastIndex(raw, "-")
		if tail := raw[i+1:]; len(tail) == 4 && isDigits(tail) {
			naive, offset, sign = raw[:i], tail, -1
		}
	} else {
		// No offset marker at all: assume UTC, tolerating a trailing
		// zone designator by truncating to the known field widths.
		if strings.Contains(naive, ".") {
			if len(naive) > 23 {
				naive = naive[:23]
			}
		} else if len(naive) > 19 {
			naive = naive[:19]
		}
	}

	t, err := parseNaive(naive)
	if err != nil {
		return raw
	}

	if sign != 0 {
		hours, minutes, err := parseOffset(offset)
		if err != nil {
			return raw
		}
		shift := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
		t = t.Add(-time.Duration(sign) * shift)
	}

	return t.Format(layout)
}

func parseNaive(s string) (time.Time, error) {
	if strings.Contains(s, ".") {
		return time.Parse("2006-01-02T15:04:05.999999999", s)
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

func parseOffset(s string) (hours, minutes int, err error) {
	if len(s) < 4 {
		return 0, 0, strconv.ErrSyntax
	}
	hours, err = strconv.Atoi(s[:2])
	if err != nil {
		return 0, 0, err
	}
	minutes, err = strconv.Atoi(s[2:4])
	if err != nil {
		return 0, 0, err
	}
	return hours, minutes, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
