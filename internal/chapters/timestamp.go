package chapters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxTimestampSeconds keeps H*3600+M*60+S representable as a time.Duration.
const maxTimestampSeconds = math.MaxInt64 / int64(time.Second)

// ParseTimestamp converts MM:SS or HH:MM:SS into a duration.
//
// Every field must be a plain run of digits. Seconds are capped at 59. In the
// three-field form minutes are capped at 59 as well; in the two-field form the
// minutes field counts total minutes and is unbounded.
func ParseTimestamp(text string) (time.Duration, error) {
	if text == "" {
		return 0, &TimestampError{Text: text, Reason: "empty timestamp"}
	}

	fields := strings.Split(text, ":")
	var hours, minutes, seconds int64
	var err error
	switch len(fields) {
	case 2:
		if minutes, err = parseField(text, fields[0], -1); err != nil {
			return 0, err
		}
		if seconds, err = parseField(text, fields[1], 59); err != nil {
			return 0, err
		}
	case 3:
		if hours, err = parseField(text, fields[0], -1); err != nil {
			return 0, err
		}
		if minutes, err = parseField(text, fields[1], 59); err != nil {
			return 0, err
		}
		if seconds, err = parseField(text, fields[2], 59); err != nil {
			return 0, err
		}
	default:
		return 0, &TimestampError{Text: text, Reason: "expected MM:SS or HH:MM:SS"}
	}

	if minutes > (maxTimestampSeconds-seconds)/60 ||
		hours > (maxTimestampSeconds-minutes*60-seconds)/3600 {
		return 0, &TimestampError{Text: text, Reason: "value too large"}
	}
	total := hours*3600 + minutes*60 + seconds
	return time.Duration(total) * time.Second, nil
}

// parseField parses one timestamp component; max < 0 means unbounded.
func parseField(text, field string, max int64) (int64, error) {
	if field == "" {
		return 0, &TimestampError{Text: text, Reason: "empty field"}
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, &TimestampError{Text: text, Reason: fmt.Sprintf("non-numeric field %q", field)}
		}
	}
	value, err := strconv.ParseInt(field, 10, 64)
	if err != nil || value > maxTimestampSeconds {
		return 0, &TimestampError{Text: text, Reason: fmt.Sprintf("field %q out of range", field)}
	}
	if max >= 0 && value > max {
		return 0, &TimestampError{Text: text, Reason: fmt.Sprintf("field %q exceeds %d", field, max)}
	}
	return value, nil
}

// FormatTimestamp renders d the way chapter files write it: M:SS below an
// hour, H:MM:SS above, with milliseconds appended only when present.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		return "-" + FormatTimestamp(-d)
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60

	var out string
	if h > 0 {
		out = fmt.Sprintf("%d:%02d:%02d", h, m, s)
	} else {
		out = fmt.Sprintf("%d:%02d", m, s)
	}
	if ms := (d % time.Second) / time.Millisecond; ms > 0 {
		out += fmt.Sprintf(".%03d", ms)
	}
	return out
}
