package clock

import "testing"

func TestParseClockText(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"03:45", 225, true},
		{"3:45", 225, true},
		{"03 : 45", 225, true},
		{"3;45", 225, true},
		{"3|45", 225, true},
		{"12:05", 725, true},
		{"kills 4 gold 12.3k\n28:17", 1697, true},
		{"1205", 725, true}, // digits without a separator still shape-match
		{"", 0, false},
		{"lobby", 0, false},
		{"99:99", 0, false}, // seconds out of range
		{"7", 0, false},
	}
	for _, c := range cases {
		got, ok := parseClockText(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseClockText(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseDigitToken(t *testing.T) {
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"03:45", 225, true},
		{"345", 225, true},   // bare 3 digits: 3 minutes 45 seconds
		{"1205", 725, true},  // bare 4 digits: 12 minutes 05 seconds
		{"0345", 225, true},
		{"12345", 0, false}, // too long for a bare token
		{"375", 0, false},   // 75 seconds is out of range
		{"ab45", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseDigitToken(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseDigitToken(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
