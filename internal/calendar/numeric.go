package calendar

import (
	"strconv"
	"strings"
)

// magnitudeSuffixes maps magnitude markers to their multipliers. Order
// matters: the first suffix found in the value wins.
var magnitudeSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"K", 1e3},
	{"M", 1e6},
	{"B", 1e9},
	{"T", 1e12},
}

// ParseNumeric parses a calendar magnitude/percentage string such as
// "2.5M", "-0.5%", "1,200K" or "0.25". Thousands separators and
// non-breaking whitespace are stripped. A trailing percent marker is
// removed but the value stays in percentage-point units. The second
// return value reports whether the input was parseable; malformed or
// empty input never panics.
func ParseNumeric(raw string) (float64, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, false
	}

	value = strings.ReplaceAll(value, ",", "")
	value = strings.ReplaceAll(value, "&nbsp;", "")
	value = strings.ReplaceAll(value, "\u00a0", "")
	value = strings.ReplaceAll(value, "%", "")

	multiplier := 1.0
	upper := strings.ToUpper(value)
	for _, m := range magnitudeSuffixes {
		if strings.Contains(upper, m.suffix) {
			multiplier = m.multiplier
			value = strings.ReplaceAll(upper, m.suffix, "")
			break
		}
	}

	num, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return num * multiplier, true
}
