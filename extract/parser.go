package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// metricRegexp captures the first numeric token and, when one immediately
// follows it, a single K/M/B abbreviation letter. Matching against the
// upper-cased input keeps the scan single-pass: "10.5K" yields ("10.5", "K"),
// "22 COMMENTS" yields ("22", "") because the unit word is not adjacent.
var metricRegexp = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)\s?([KMB])?`)

// suffix multipliers checked in K → M → B order.
var suffixMultipliers = []struct {
	letter string
	mult   float64
}{
	{"K", 1_000},
	{"M", 1_000_000},
	{"B", 1_000_000_000},
}

// ParseMetric parses a TikTok-style abbreviated metric string ("10.5K",
// "2.3M", "1,204", "22 comments") into a non-negative integer. Suffixed
// values are truncated, not rounded, after scaling. Malformed input
// degrades to 0 — this function never fails.
func ParseMetric(raw string) int {
	match := metricRegexp.FindStringSubmatch(strings.ToUpper(raw))
	if match == nil {
		return 0
	}

	number := strings.ReplaceAll(match[1], ",", "")
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || value < 0 {
		return 0
	}

	for _, s := range suffixMultipliers {
		if strings.Contains(match[2], s.letter) {
			return int(value * s.mult)
		}
	}
	return int(value)
}
