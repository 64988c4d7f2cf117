package reminder

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"
)

var errInvalidDuration = errors.New("invalid duration")

const year = time.Duration(365.25 * float64(24*time.Hour))

var durationPattern = regexp.MustCompile(`^(-?(?:\d+)?\.?\d+)(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)?$`)

// unitAliases maps every accepted unit spelling to its short form.
var unitAliases = map[string]string{
	"": "ms", "ms": "ms", "msec": "ms", "msecs": "ms", "millisecond": "ms", "milliseconds": "ms",
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"m": "m", "min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"d": "d", "day": "d", "days": "d",
	"w": "w", "week": "w", "weeks": "w",
	"y": "y", "yr": "y", "yrs": "y", "year": "y", "years": "y",
}

// ParseDuration reads a single token like "90", "1.5h", "2days" or "10s".
// A bare number is milliseconds.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, errInvalidDuration
	}
	value, unit := m[1], unitAliases[m[2]]

	if unit == "y" {
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, errInvalidDuration
		}
		v := n * float64(year)
		if math.IsNaN(v) || v >= math.MaxInt64 || v <= math.MinInt64 {
			return 0, errInvalidDuration
		}
		return time.Duration(v), nil
	}

	d, err := str2duration.ParseDuration(value + unit)
	if err != nil {
		return 0, errInvalidDuration
	}
	return d, nil
}
