package support

import (
	"strings"
)

// NormalizeTimestamp converts the timestamp spellings produced by the
// reporting pipelines into the canonical "YYYY-MM-DD HH:MM" form. The date
// may arrive year-first or day-first (disambiguated by the length of the
// first token) with either "-" or "/" separators, and the time may use ":"
// or "-" between hour and minute. Input that does not split into a date and
// a time part is returned unchanged.
func NormalizeTimestamp(ts string) string {
	if ts == "" {
		return ""
	}

	parts := strings.Fields(strings.TrimSpace(ts))
	if len(parts) < 2 {
		return ts
	}

	datePart := parts[0]
	timePart := parts[1]

	dateTokens := strings.FieldsFunc(datePart, func(r rune) bool {
		return r == '-' || r == '/'
	})
	if len(dateTokens) == 3 {
		if len(dateTokens[0]) == 4 {
			datePart = dateTokens[0] + "-" + pad2(dateTokens[1]) + "-" + pad2(dateTokens[2])
		} else {
			datePart = dateTokens[2] + "-" + pad2(dateTokens[1]) + "-" + pad2(dateTokens[0])
		}
	}

	timeTokens := strings.FieldsFunc(timePart, func(r rune) bool {
		return r == '-' || r == ':'
	})
	if len(timeTokens) >= 2 {
		timePart = pad2(timeTokens[0]) + ":" + pad2(timeTokens[1])
	}

	return datePart + " " + timePart
}

// TimestampDate returns the YYYY-MM-DD portion of a normalized timestamp.
func TimestampDate(ts string) string {
	if i := strings.IndexByte(ts, ' '); i >= 0 {
		return ts[:i]
	}
	return ts
}

// TimestampHour returns the zero-padded HH portion of a normalized
// timestamp, or "" when no time part is present.
func TimestampHour(ts string) string {
	i := strings.IndexByte(ts, ' ')
	if i < 0 || i+1 >= len(ts) {
		return ""
	}
	timePart := ts[i+1:]
	if j := strings.IndexByte(timePart, ':'); j >= 0 {
		return pad2(timePart[:j])
	}
	return pad2(timePart)
}

func pad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
