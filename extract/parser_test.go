package extract

import "testing"

func TestParseMetricSuffixes(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"10.5K", 10500},
		{"2M", 2000000},
		{"2.3M", 2300000},
		{"1.5B", 1500000000},
		{"1,204", 1204},
		{"22 comments", 22},
		{"3.4K likes", 3400},
		{"847", 847},
		{"", 0},
		{"N/A", 0},
		{"New", 0},
	}

	for _, tt := range tests {
		got := ParseMetric(tt.raw)
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseMetricCaseInsensitive(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"10.5k", 10500},
		{"2m", 2000000},
		{"7b", 7000000000},
	}

	for _, tt := range tests {
		got := ParseMetric(tt.raw)
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseMetricTruncatesNotRounds(t *testing.T) {
	// 1.2349K = 1234.9 — truncation keeps 1234.
	if got := ParseMetric("1.2349K"); got != 1234 {
		t.Errorf("ParseMetric(1.2349K) = %d; want 1234", got)
	}
}

func TestParseMetricMalformedDegradesToZero(t *testing.T) {
	for _, raw := range []string{"...", "KMB", "- -", "views"} {
		if got := ParseMetric(raw); got != 0 {
			t.Errorf("ParseMetric(%q) = %d; want 0", raw, got)
		}
	}
}
