package timecode

import "testing"

func TestParseSeconds(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:00", 0},
		{"00:00:05", 5},
		{"00:10:00", 600},
		{"01:02:03", 3723},
		{"00:00:01.500", 1.5},
		{"10:00:00.250", 36000.25},
		{" 00:00:05 ", 5},
		// Permissive failures: anything malformed is 0, never an error.
		{"bad", 0},
		{"1:2", 0},
		{"", 0},
		{"1:2:3:4", 0},
		{"aa:bb:cc", 0},
		{"00:xx:00", 0},
		{"00:00:xx", 0},
	}
	for _, c := range cases {
		if got := ParseSeconds(c.in); got != c.want {
			t.Errorf("ParseSeconds(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		want string
		in   float64
	}{
		{"00:00:00", 0},
		{"00:00:05", 5},
		{"00:10:00", 600},
		{"01:02:03", 3723},
		{"-00:00:05", -5},
		{"-01:00:00", -3600},
		{"00:00:01", 1.9}, // fractional part dropped
	}
	for _, c := range cases {
		if got := FormatSeconds(c.in); got != c.want {
			t.Errorf("FormatSeconds(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// format(parse(s)) == s for whole-second timestamps
	for _, s := range []string{"00:00:00", "00:00:59", "00:59:00", "23:00:00", "12:34:56"} {
		if got := FormatSeconds(ParseSeconds(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
	// fractional part is dropped by design
	if got := FormatSeconds(ParseSeconds("00:00:01.500")); got != "00:00:01" {
		t.Errorf("fractional round trip = %q, want 00:00:01", got)
	}
}

func TestOffsetAndProjection(t *testing.T) {
	cfg := SyncConfig{TranscriptStartTime: "00:10:00", VideoStartTime: "00:00:00"}
	off := Offset(cfg)
	if off != 600 {
		t.Fatalf("Offset = %v, want 600", off)
	}
	if got := ToVideoSeconds("00:10:05", off); got != 5 {
		t.Errorf("ToVideoSeconds(00:10:05) = %v, want 5", got)
	}
	if got := ToSourceSeconds(5, off); got != 605 {
		t.Errorf("ToSourceSeconds(5) = %v, want 605", got)
	}
}

func TestOffsetNegative(t *testing.T) {
	// Video may start before the transcript clock reference.
	cfg := SyncConfig{TranscriptStartTime: "00:00:30", VideoStartTime: "00:01:00"}
	if off := Offset(cfg); off != -30 {
		t.Fatalf("Offset = %v, want -30", off)
	}
}
