package playback

import "testing"

func TestParseFragment(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"#t=125", 125, true},
		{"t=125", 125, true},
		{"#t=0", 0, true},
		{"#t=12.5", 12.5, true},
		{"#00:02:05", 125, true},
		{"00:02:05", 125, true},
		{"#1:02:05", 3725, true},
		{"#t=-5", 0, false},
		{"#t=abc", 0, false},
		{"#unrelated", 0, false},
		{"", 0, false},
		{"#1:2", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseFragment(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ParseFragment(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatFragment(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{125, "#t=125"},
		{125.9, "#t=125"}, // integer second for shareability
		{0, "#t=0"},
		{-3, "#t=0"},
	}
	for _, c := range cases {
		if got := FormatFragment(c.in); got != c.want {
			t.Errorf("FormatFragment(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
